package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"matchability/internal/models"
)

const (
	createPredictionsTable = `
		CREATE TABLE IF NOT EXISTS predictions (
			id             UUID PRIMARY KEY,
			opportunity_id TEXT,
			model_version  TEXT NOT NULL,
			probability    DOUBLE PRECISION NOT NULL,
			decision       BOOLEAN NOT NULL,
			source         TEXT NOT NULL,
			features       JSONB,
			created_at     TIMESTAMPTZ NOT NULL
		)`

	insertPrediction = `
		INSERT INTO predictions (id, opportunity_id, model_version, probability, decision, source, features, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectPredictions = `
		SELECT id, opportunity_id, model_version, probability, decision, source, created_at
		FROM predictions
		WHERE opportunity_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
)

// DefaultHistoryLimit caps ListByOpportunity when no limit is given.
const DefaultHistoryLimit = 50

// PredictionStore is the append-only history of served predictions.
type PredictionStore struct {
	db *sql.DB
}

func NewPredictionStore(db *sql.DB) *PredictionStore {
	return &PredictionStore{db: db}
}

// EnsureSchema creates the history table when it does not exist.
func (s *PredictionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createPredictionsTable); err != nil {
		return queryError(ctx, models.QueryTypePredictionInsert, err)
	}
	return nil
}

func (s *PredictionStore) Save(ctx context.Context, p *models.Prediction) error {
	var feats interface{}
	if len(p.Features) > 0 {
		b, err := json.Marshal(p.Features)
		if err != nil {
			return err
		}
		feats = b
	}

	_, err := s.db.ExecContext(ctx, insertPrediction,
		p.ID,
		sql.NullString{String: p.OpportunityID, Valid: p.OpportunityID != ""},
		p.ModelVersion,
		p.Probability,
		p.Decision,
		string(p.Source),
		feats,
		p.CreatedAt,
	)
	if err != nil {
		return queryError(ctx, models.QueryTypePredictionInsert, err)
	}
	return nil
}

// ListByOpportunity returns the newest predictions first.
func (s *PredictionStore) ListByOpportunity(ctx context.Context, opportunityID string, limit int) ([]models.Prediction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, selectPredictions, opportunityID, limit)
	if err != nil {
		return nil, queryError(ctx, models.QueryTypePredictionHistory, err)
	}
	defer rows.Close()

	out := make([]models.Prediction, 0)
	for rows.Next() {
		var (
			p      models.Prediction
			oppID  sql.NullString
			source string
		)
		if err := rows.Scan(&p.ID, &oppID, &p.ModelVersion, &p.Probability, &p.Decision, &source, &p.CreatedAt); err != nil {
			return nil, queryError(ctx, models.QueryTypePredictionHistory, err)
		}
		p.OpportunityID = oppID.String
		p.Source = models.Source(source)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, models.QueryTypePredictionHistory, err)
	}
	return out, nil
}
