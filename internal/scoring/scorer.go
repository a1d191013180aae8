package scoring

import (
	"errors"

	"matchability/internal/artifacts"
	apperrors "matchability/internal/common/errors"
	"matchability/internal/features"
	"matchability/internal/model"
)

// Result is one scoring pass: the prediction plus the features behind it.
type Result struct {
	Prediction model.Prediction
	Vector     features.Vector
	Computed   features.Computed
}

// Scorer runs the feature pipeline and the model for a single record. It
// does no I/O and is safe for concurrent use.
type Scorer struct {
	bundle *artifacts.Bundle
}

func NewScorer(bundle *artifacts.Bundle) *Scorer {
	return &Scorer{bundle: bundle}
}

// Score never fails on malformed fields. It fails with SCHEMA_DRIFT when the
// trained feature list names a feature the pipeline did not produce.
func (s *Scorer) Score(r features.Record) (*Result, error) {
	vec, computed, err := s.bundle.Vector(r)
	if err != nil {
		var drift *features.SchemaDriftError
		if errors.As(err, &drift) {
			return nil, apperrors.NewSchemaDriftError(drift.Feature, err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	pred, err := s.bundle.Model.Score(vec)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Result{Prediction: pred, Vector: vec, Computed: computed}, nil
}

func (s *Scorer) ModelVersion() string {
	return s.bundle.ModelVersion()
}
