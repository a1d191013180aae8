package model

import (
	"fmt"
	"math"

	"matchability/internal/features"
)

// Threshold is the fixed decision boundary: probabilities strictly above
// it are positive.
const Threshold = 0.5

// Model kinds accepted in model.json.
const (
	KindLogistic     = "logistic_regression"
	KindDecisionTree = "decision_tree"
	KindRandomForest = "random_forest"
)

// Estimator computes the positive-class probability for an ordered vector.
type Estimator interface {
	Proba(x []float64) float64
}

// Prediction is the outcome of scoring one vector.
type Prediction struct {
	Probability float64
	Decision    bool
}

// Decide applies the fixed threshold.
func Decide(probability float64) bool {
	return probability > Threshold
}

// Model binds an estimator to the feature names it was trained on.
type Model struct {
	kind     string
	version  string
	features []string
	est      Estimator
}

func New(kind, version string, featureNames []string, est Estimator) *Model {
	return &Model{
		kind:     kind,
		version:  version,
		features: append([]string(nil), featureNames...),
		est:      est,
	}
}

func (m *Model) Kind() string {
	return m.kind
}

func (m *Model) Version() string {
	return m.version
}

// Features returns the trained feature order.
func (m *Model) Features() []string {
	return m.features
}

// Score runs forward inference. The vector must carry exactly the trained
// feature names in the trained order.
func (m *Model) Score(v features.Vector) (Prediction, error) {
	if len(v.Names) != len(m.features) || len(v.Values) != len(m.features) {
		return Prediction{}, fmt.Errorf("model expects %d features, vector has %d", len(m.features), len(v.Values))
	}
	for i, name := range m.features {
		if v.Names[i] != name {
			return Prediction{}, fmt.Errorf("feature %d is %q, model expects %q", i, v.Names[i], name)
		}
	}

	p := m.est.Proba(v.Values)
	if math.IsNaN(p) {
		return Prediction{}, fmt.Errorf("model produced NaN probability")
	}
	p = math.Max(0, math.Min(1, p))
	return Prediction{Probability: p, Decision: Decide(p)}, nil
}
