package scoring

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "matchability/internal/common/errors"
	"matchability/internal/common/logger"
	"matchability/internal/common/metrics"
	"matchability/internal/common/observability"
	"matchability/internal/features"
	"matchability/internal/models"
)

const defaultSideEffectTimeout = 2 * time.Second

// Cache stores predictions by record fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (*models.Prediction, bool, error)
	Set(ctx context.Context, key string, p *models.Prediction) error
}

// OpportunitySource loads stored opportunities by id.
type OpportunitySource interface {
	Get(ctx context.Context, id string) (features.Record, error)
}

// History persists served predictions.
type History interface {
	Save(ctx context.Context, p *models.Prediction) error
	ListByOpportunity(ctx context.Context, opportunityID string, limit int) ([]models.Prediction, error)
}

// Index publishes predictions for audit search.
type Index interface {
	Index(ctx context.Context, p *models.Prediction) error
}

// Options wires the optional collaborators. Any of them may be nil.
type Options struct {
	Cache             Cache
	Opportunities     OpportunitySource
	History           History
	Index             Index
	Observability     *observability.Observability
	SideEffectTimeout time.Duration
	Clock             func() time.Time
	NewID             func() string
}

// Service scores records and takes care of caching, history and audit.
// Collaborator failures after a prediction has been computed are logged
// and never change the result.
type Service struct {
	scorer *Scorer
	log    logger.Logger
	opts   Options
}

func NewService(scorer *Scorer, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if opts.SideEffectTimeout <= 0 {
		opts.SideEffectTimeout = defaultSideEffectTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{scorer: scorer, log: log.Named("scoring"), opts: opts}
}

// ScoreRecord scores an inline record.
func (s *Service) ScoreRecord(ctx context.Context, r features.Record, source models.Source) (*models.Prediction, error) {
	return s.score(ctx, r, source, "")
}

// ScoreStored loads an opportunity and scores it.
func (s *Service) ScoreStored(ctx context.Context, opportunityID string) (*models.Prediction, error) {
	if s.opts.Opportunities == nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(errNoOpportunitySource)
	}
	r, err := s.opts.Opportunities.Get(ctx, opportunityID)
	if err != nil {
		s.recordError(ctx, models.SourceStored, err)
		return nil, err
	}
	return s.score(ctx, r, models.SourceStored, opportunityID)
}

// History returns the stored predictions of an opportunity, newest first.
func (s *Service) History(ctx context.Context, opportunityID string, limit int) ([]models.Prediction, error) {
	if s.opts.History == nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(errNoHistory)
	}
	return s.opts.History.ListByOpportunity(ctx, opportunityID, limit)
}

// Success and Failure render responses with the service clock.
func (s *Service) Success(p *models.Prediction) Response {
	return Success(p, s.opts.Clock())
}

func (s *Service) Failure(err error) Response {
	return Failure(err, s.opts.Clock())
}

func (s *Service) ModelVersion() string {
	return s.scorer.ModelVersion()
}

func (s *Service) score(ctx context.Context, r features.Record, source models.Source, opportunityID string) (*models.Prediction, error) {
	start := time.Now()
	log := s.log.WithFields(map[string]interface{}{
		"source":        string(source),
		"opportunityId": opportunityID,
		"requestId":     RequestIDFromContext(ctx),
	})

	key, err := Fingerprint(s.scorer.ModelVersion(), r)
	if err != nil {
		log.Warn("record fingerprint failed", map[string]interface{}{"error": err})
	}
	if hit := s.cached(ctx, log, key); hit != nil {
		// the cached values are reused; the identity belongs to this call
		p := *hit
		p.ID = s.opts.NewID()
		p.OpportunityID = opportunityID
		p.Source = source
		p.CreatedAt = s.opts.Clock().UTC()
		s.served(ctx, log, &p, start, "")
		return &p, nil
	}

	res, err := s.scorer.Score(r)
	if err != nil {
		std := apperrors.AsStandard(err)
		log.Error("scoring failed", map[string]interface{}{
			"code":     string(std.Code),
			"details":  std.Details,
			"metadata": std.Metadata,
		})
		s.recordError(ctx, source, err)
		return nil, err
	}

	p := &models.Prediction{
		ID:            s.opts.NewID(),
		OpportunityID: opportunityID,
		ModelVersion:  s.scorer.ModelVersion(),
		Probability:   res.Prediction.Probability,
		Decision:      res.Prediction.Decision,
		Source:        source,
		Fingerprint:   key,
		Features:      vectorMap(res.Vector),
		CreatedAt:     s.opts.Clock().UTC(),
	}

	s.served(ctx, log, p, start, key)
	return p, nil
}

// served records a prediction handed to the caller. A non-empty cacheKey
// also stores it in the cache.
func (s *Service) served(ctx context.Context, log logger.Logger, p *models.Prediction, start time.Time, cacheKey string) {
	source := string(p.Source)
	metrics.PredictionsTotal.WithLabelValues(metrics.DecisionLabel(p.Decision), source).Inc()
	metrics.ScoringDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	s.opts.Observability.RecordScored(ctx, source, StatusOK)

	log.Info("opportunity scored", map[string]interface{}{
		"predictionId": p.ID,
		"probability":  p.Probability,
		"decision":     p.Decision,
		"modelVersion": p.ModelVersion,
		"cached":       cacheKey == "" && p.Fingerprint != "",
	})

	s.sideEffects(ctx, log, cacheKey, p)
	s.opts.Observability.RecordDuration(ctx, source, time.Since(start))
}

func (s *Service) cached(ctx context.Context, log logger.Logger, key string) *models.Prediction {
	if s.opts.Cache == nil || key == "" {
		return nil
	}
	p, ok, err := s.opts.Cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		log.Warn("prediction cache read failed", map[string]interface{}{"error": err})
		return nil
	case !ok:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	log.Debug("prediction served from cache", map[string]interface{}{"cachedPredictionId": p.ID})
	return p
}

// sideEffects runs after the prediction is final. It is detached from the
// caller's cancellation and bounded by SideEffectTimeout.
func (s *Service) sideEffects(ctx context.Context, log logger.Logger, key string, p *models.Prediction) {
	if s.opts.Cache == nil && s.opts.History == nil && s.opts.Index == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.SideEffectTimeout)
	defer cancel()

	if s.opts.Cache != nil && key != "" {
		if err := s.opts.Cache.Set(ctx, key, p); err != nil {
			log.Warn("prediction cache write failed", map[string]interface{}{"error": err})
		}
	}
	if s.opts.History != nil {
		if err := s.opts.History.Save(ctx, p); err != nil {
			log.Warn("prediction history write failed", map[string]interface{}{"error": err})
		}
	}
	if s.opts.Index != nil {
		if err := s.opts.Index.Index(ctx, p); err != nil {
			log.Warn("prediction index write failed", map[string]interface{}{"error": err})
		}
	}
}

func (s *Service) recordError(ctx context.Context, source models.Source, err error) {
	std := apperrors.AsStandard(err)
	metrics.ScoringErrorsTotal.WithLabelValues(string(std.Code)).Inc()
	s.opts.Observability.RecordScored(ctx, string(source), StatusError)
}

// Fingerprint identifies a record under a model version. encoding/json
// sorts map keys, so equal records hash equally.
func Fingerprint(modelVersion string, r features.Record) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(modelVersion))
	h.Write([]byte{0})
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func vectorMap(v features.Vector) map[string]float64 {
	out := make(map[string]float64, v.Len())
	for i, name := range v.Names {
		out[name] = v.Values[i]
	}
	return out
}
