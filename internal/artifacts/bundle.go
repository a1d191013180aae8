// Package artifacts loads the frozen training outputs that serving depends
// on and checks that they agree with the feature pipeline before any
// request is accepted.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"matchability/internal/common/config"
	apperrors "matchability/internal/common/errors"
	"matchability/internal/common/logger"
	"matchability/internal/common/validation"
	"matchability/internal/features"
	"matchability/internal/model"
	"matchability/internal/reference"
	"matchability/internal/textcluster"
)

// Bundle is everything scoring needs. It is immutable after Load and is
// shared by all requests and jobs.
type Bundle struct {
	Model        *model.Model
	FeatureOrder []string
	Clusters     *textcluster.Classifier
	HDI          *reference.HDITable
	Pipeline     *features.Pipeline
	LoadedAt     time.Time
}

// Load reads and validates every artifact named in cfg. Any failure is an
// ARTIFACT_LOAD_FAILED error naming the artifact.
func Load(cfg config.ArtifactsConfig, log logger.Logger) (*Bundle, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	var order []string
	if err := readJSON(cfg.Path(cfg.Features), featuresSchema, &order); err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.Features, err)
	}

	var vecSpec textcluster.VectorizerSpec
	if err := readJSON(cfg.Path(cfg.Vectorizer), vectorizerSchema, &vecSpec); err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.Vectorizer, err)
	}
	vec, err := textcluster.NewVectorizer(vecSpec)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.Vectorizer, err)
	}

	var clusterSpec textcluster.ClustersSpec
	if err := readJSON(cfg.Path(cfg.Clusters), clustersSchema, &clusterSpec); err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.Clusters, err)
	}
	clusters, err := textcluster.NewClassifier(vec, clusterSpec)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.Clusters, err)
	}

	hdi, err := reference.LoadHDIFile(cfg.Path(cfg.HDI))
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.HDI, err)
	}

	raw, err := readValidated(cfg.Path(cfg.Model), modelSchema)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.Model, err)
	}
	m, err := model.Parse(raw, order)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.Model, err)
	}

	pipeline, err := features.NewPipeline(hdi, clusters)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.Clusters, err)
	}

	// A trained feature the pipeline cannot produce fails every request,
	// so refuse to start instead.
	if _, err := features.Assemble(pipeline.Compute(features.Record{}), order); err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(cfg.Features, err)
	}

	b := &Bundle{
		Model:        m,
		FeatureOrder: order,
		Clusters:     clusters,
		HDI:          hdi,
		Pipeline:     pipeline,
		LoadedAt:     time.Now().UTC(),
	}

	log.Info("artifacts loaded", map[string]interface{}{
		"dir":          cfg.Dir,
		"modelType":    m.Kind(),
		"modelVersion": m.Version(),
		"features":     len(order),
		"vocabulary":   vec.Dim(),
		"hdiCountries": hdi.Len(),
	})
	return b, nil
}

// Vector computes every feature for r and assembles the trained vector.
func (b *Bundle) Vector(r features.Record) (features.Vector, features.Computed, error) {
	computed := b.Pipeline.Compute(r)
	vec, err := features.Assemble(computed, b.FeatureOrder)
	if err != nil {
		return features.Vector{}, computed, err
	}
	return vec, computed, nil
}

func (b *Bundle) ModelVersion() string {
	return b.Model.Version()
}

func readValidated(path string, schema *validation.Schema) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	result, err := schema.ValidateBytes(raw)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("%s does not match its schema: %s", schema.Name(), result.Error())
	}
	return raw, nil
}

func readJSON(path string, schema *validation.Schema, out interface{}) error {
	raw, err := readValidated(path, schema)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", schema.Name(), err)
	}
	return nil
}
