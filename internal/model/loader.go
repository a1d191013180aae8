package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Spec is the persisted form of a trained classifier.
type Spec struct {
	Type         string        `json:"type"`
	Version      string        `json:"version"`
	Features     []string      `json:"features,omitempty"`
	Classes      []interface{} `json:"classes,omitempty"`
	Intercept    float64       `json:"intercept"`
	Coefficients []float64     `json:"coefficients,omitempty"`
	Tree         *TreeSpec     `json:"tree,omitempty"`
	Trees        []TreeSpec    `json:"trees,omitempty"`
}

// Parse decodes model.json. featureOrder is the persisted training order;
// when the model also lists its features the two must agree.
func Parse(data []byte, featureOrder []string) (*Model, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return FromSpec(spec, featureOrder)
}

func FromSpec(spec Spec, featureOrder []string) (*Model, error) {
	names, err := bindFeatures(spec.Features, featureOrder)
	if err != nil {
		return nil, err
	}

	positive, err := positiveClass(spec.Classes)
	if err != nil {
		return nil, err
	}

	var est Estimator
	switch spec.Type {
	case KindLogistic:
		est, err = NewLogistic(spec.Intercept, spec.Coefficients, len(names))
	case KindDecisionTree:
		if spec.Tree == nil {
			return nil, fmt.Errorf("decision tree model has no tree")
		}
		est, err = NewTree(*spec.Tree, len(names), positive)
	case KindRandomForest:
		trees := make([]*Tree, 0, len(spec.Trees))
		for i, ts := range spec.Trees {
			t, terr := NewTree(ts, len(names), positive)
			if terr != nil {
				return nil, fmt.Errorf("tree %d: %w", i, terr)
			}
			trees = append(trees, t)
		}
		est, err = NewForest(trees)
	default:
		return nil, fmt.Errorf("unsupported model type %q", spec.Type)
	}
	if err != nil {
		return nil, err
	}

	version := spec.Version
	if version == "" {
		version = "unversioned"
	}
	return New(spec.Type, version, names, est), nil
}

func bindFeatures(own, order []string) ([]string, error) {
	switch {
	case len(own) == 0 && len(order) == 0:
		return nil, fmt.Errorf("model has no feature list")
	case len(own) == 0:
		return order, nil
	case len(order) == 0:
		return own, nil
	}
	if len(own) != len(order) {
		return nil, fmt.Errorf("model lists %d features, feature order has %d", len(own), len(order))
	}
	for i := range own {
		if own[i] != order[i] {
			return nil, fmt.Errorf("model feature %d is %q, feature order has %q", i, own[i], order[i])
		}
	}
	return own, nil
}

// positiveClass finds the index of class 1 in the class list. Without a
// list the classes are assumed to be [0, 1].
func positiveClass(classes []interface{}) (int, error) {
	if len(classes) == 0 {
		return 1, nil
	}
	for i, c := range classes {
		switch strings.ToLower(cast.ToString(c)) {
		case "1", "true", "matched":
			return i, nil
		}
	}
	return 0, fmt.Errorf("no positive class in %v", classes)
}
