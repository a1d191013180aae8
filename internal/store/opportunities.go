package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	apperrors "matchability/internal/common/errors"
	"matchability/internal/features"
	"matchability/internal/models"
)

const selectOpportunity = `SELECT row_to_json(o) FROM opportunities o WHERE o.id = $1`

// OpportunityStore reads raw opportunity rows as scoring records. Rows are
// returned whole so that column renames degrade to field defaults instead
// of scan errors.
type OpportunityStore struct {
	db *sql.DB
}

func NewOpportunityStore(db *sql.DB) *OpportunityStore {
	return &OpportunityStore{db: db}
}

func (s *OpportunityStore) Get(ctx context.Context, id string) (features.Record, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, selectOpportunity, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewOpportunityNotFoundError(id)
	}
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeOpportunity, err)
	}

	var record features.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(string(models.QueryTypeOpportunity), err)
	}
	return record, nil
}

func queryError(ctx context.Context, qt models.QueryType, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(string(qt))
	}
	return apperrors.NewQueryExecutionFailedError(string(qt), err)
}
