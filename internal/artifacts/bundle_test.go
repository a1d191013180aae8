package artifacts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchability/internal/artifacts"
	"matchability/internal/artifacts/artifactstest"
	apperrors "matchability/internal/common/errors"
	"matchability/internal/common/logger"
	"matchability/internal/features"
)

func TestLoad(t *testing.T) {
	cfg := artifactstest.Default().Write(t)

	b, err := artifacts.Load(cfg, logger.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, artifactstest.ModelVersion, b.ModelVersion())
	assert.Equal(t, b.FeatureOrder, b.Model.Features())
	assert.NotContains(t, b.FeatureOrder, artifactstest.DroppedAtTraining)
	assert.Equal(t, 3, b.HDI.Len())
	assert.Equal(t, artifactstest.Labels(), b.Clusters.Labels())
	assert.False(t, b.LoadedAt.IsZero())
}

func TestBundle_VectorFollowsTrainedOrder(t *testing.T) {
	b, err := artifacts.Load(artifactstest.Default().Write(t), nil)
	require.NoError(t, err)

	records := []features.Record{
		nil,
		{},
		{"salary": 900, "opp_skill_req": "Python", "name_entity": "India"},
		{"openings": "x", "logistics_info": []interface{}{"bad"}},
	}
	for _, r := range records {
		vec, computed, err := b.Vector(r)
		require.NoError(t, err)
		assert.Equal(t, b.FeatureOrder, vec.Names)
		assert.Len(t, vec.Values, len(b.FeatureOrder))
		assert.Contains(t, computed, artifactstest.DroppedAtTraining)
	}

	vec, _, err := b.Vector(features.Record{"opp_skill_req": "Python", "name_entity": "India"})
	require.NoError(t, err)
	v, ok := vec.Get("cl1_python")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	v, _ = vec.Get("hdi")
	assert.Equal(t, 0.64, v)
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*artifactstest.Fixture)
		artifact string
	}{
		{
			name:     "features not an array",
			mutate:   func(f *artifactstest.Fixture) { f.Raw = map[string]string{"features.json": `{"names":[]}`} },
			artifact: "features.json",
		},
		{
			name: "duplicate feature",
			mutate: func(f *artifactstest.Fixture) {
				f.Raw = map[string]string{"features.json": `["openings","openings"]`}
			},
			artifact: "features.json",
		},
		{
			name: "trained feature the pipeline does not compute",
			mutate: func(f *artifactstest.Fixture) {
				f.Features = append(f.Features, "num_meals_per_week")
				f.Model.Features = f.Features
				f.Model.Coefficients = append(f.Model.Coefficients, 0)
			},
			artifact: "features.json",
		},
		{
			name: "model order differs from features.json",
			mutate: func(f *artifactstest.Fixture) {
				names := append([]string(nil), f.Features...)
				names[0], names[1] = names[1], names[0]
				f.Model.Features = names
			},
			artifact: "model.json",
		},
		{
			name:     "unknown model type",
			mutate:   func(f *artifactstest.Fixture) { f.Model.Type = "svm" },
			artifact: "model.json",
		},
		{
			name:     "corrupt model",
			mutate:   func(f *artifactstest.Fixture) { f.Raw = map[string]string{"model.json": `{"type":`} },
			artifact: "model.json",
		},
		{
			name:     "vectorizer idf mismatch",
			mutate:   func(f *artifactstest.Fixture) { f.Vectorizer.IDF = f.Vectorizer.IDF[:3] },
			artifact: "vectorizer.json",
		},
		{
			name:     "nine clusters",
			mutate:   func(f *artifactstest.Fixture) { f.Clusters.Centroids = f.Clusters.Centroids[:9] },
			artifact: "clusters.json",
		},
		{
			name: "label shadows a base feature",
			mutate: func(f *artifactstest.Fixture) {
				f.Clusters.Labels = append([]string(nil), f.Clusters.Labels...)
				f.Clusters.Labels[0] = "hdi"
			},
			artifact: "clusters.json",
		},
		{
			name:     "hdi without code column",
			mutate:   func(f *artifactstest.Fixture) { f.HDICSV = "Entity,Year,Value\nFrance,2017,0.9\n" },
			artifact: "hdi.csv",
		},
		{
			name:     "empty clusters file",
			mutate:   func(f *artifactstest.Fixture) { f.Raw = map[string]string{"clusters.json": ""} },
			artifact: "clusters.json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := artifactstest.Default()
			tt.mutate(f)

			_, err := artifacts.Load(f.Write(t), logger.NewTestLogger(t))
			require.Error(t, err)

			std := apperrors.AsStandard(err)
			assert.Equal(t, apperrors.ErrCodeArtifactLoadFailed, std.Code)
			assert.Equal(t, tt.artifact, std.Metadata["artifact"])
		})
	}
}
