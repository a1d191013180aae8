// Package artifactstest writes a small but complete artifact set for
// tests that need a real scoring bundle.
package artifactstest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"matchability/internal/common/config"
	"matchability/internal/features"
	"matchability/internal/model"
	"matchability/internal/textcluster"
)

// Terms is the fixture vocabulary. Centroid k sits on the axis of Terms[k].
var Terms = []string{
	"python", "java", "marketing", "sales", "teaching",
	"english", "finance", "design", "engineering", "management",
}

// Intercept and the non-zero coefficients of the fixture model. With these
// an empty record scores exactly 0.5.
const (
	Intercept         = -1.0
	OpeningsCoef      = 0.5
	HDICoef           = 1.0
	EuropeCoef        = 0.3
	FranceHDI         = 0.901
	ModelVersion      = "fixture-1"
	DroppedAtTraining = "salary"
)

// Fixture is the content of each artifact file. Raw entries replace the
// generated content of the named file.
type Fixture struct {
	Model      model.Spec
	Features   []string
	Vectorizer textcluster.VectorizerSpec
	Clusters   textcluster.ClustersSpec
	HDICSV     string
	Raw        map[string]string
}

// Labels returns the training labels of the fixture clusters.
func Labels() []string {
	labels := make([]string, len(Terms))
	for i, term := range Terms {
		labels[i] = "cl" + strconv.Itoa(i+1) + "_" + term
	}
	return labels
}

// Default returns a logistic model over the base features (minus one that
// was dropped at training time) and the ten cluster labels.
func Default() *Fixture {
	order := make([]string, 0, len(features.BaseFeatures)+len(Terms))
	for _, name := range features.BaseFeatures {
		if name != DroppedAtTraining {
			order = append(order, name)
		}
	}
	order = append(order, Labels()...)

	coefs := make([]float64, len(order))
	for i, name := range order {
		switch name {
		case "openings":
			coefs[i] = OpeningsCoef
		case "hdi":
			coefs[i] = HDICoef
		case "is_europe":
			coefs[i] = EuropeCoef
		}
	}

	vocab := make(map[string]int, len(Terms))
	idf := make([]float64, len(Terms))
	centroids := make([][]float64, len(Terms))
	for i, term := range Terms {
		vocab[term] = i
		idf[i] = 1 + float64(i)/10
		centroids[i] = make([]float64, len(Terms))
		centroids[i][i] = 1
	}

	return &Fixture{
		Model: model.Spec{
			Type:         model.KindLogistic,
			Version:      ModelVersion,
			Features:     order,
			Classes:      []interface{}{0, 1},
			Intercept:    Intercept,
			Coefficients: coefs,
		},
		Features:   order,
		Vectorizer: textcluster.VectorizerSpec{Vocabulary: vocab, IDF: idf, Norm: "l2"},
		Clusters:   textcluster.ClustersSpec{Centroids: centroids, Labels: Labels()},
		HDICSV: "Entity,Code,Year,Human Development Index\n" +
			"France,FRA,2017,0.901\n" +
			"Germany,DEU,2017,0.936\n" +
			"India,IND,2017,0.640\n",
	}
}

// Write stores the fixture in a fresh temp dir and returns a config that
// points at it.
func (f *Fixture) Write(t testing.TB) config.ArtifactsConfig {
	t.Helper()
	cfg := config.ArtifactsConfig{
		Dir:        t.TempDir(),
		Model:      "model.json",
		Features:   "features.json",
		Vectorizer: "vectorizer.json",
		Clusters:   "clusters.json",
		HDI:        "hdi.csv",
	}

	files := map[string][]byte{
		cfg.Model:      mustJSON(t, f.Model),
		cfg.Features:   mustJSON(t, f.Features),
		cfg.Vectorizer: mustJSON(t, f.Vectorizer),
		cfg.Clusters:   mustJSON(t, f.Clusters),
		cfg.HDI:        []byte(f.HDICSV),
	}
	for name, content := range f.Raw {
		files[name] = []byte(content)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(cfg.Dir, name), content, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return cfg
}

func mustJSON(t testing.TB, v interface{}) []byte {
	t.Helper()
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return b
}
