package model

import (
	"fmt"
	"math"
)

// Logistic is a binary logistic regression.
type Logistic struct {
	Intercept    float64
	Coefficients []float64
}

func NewLogistic(intercept float64, coefficients []float64, nFeatures int) (*Logistic, error) {
	if len(coefficients) != nFeatures {
		return nil, fmt.Errorf("logistic regression has %d coefficients for %d features", len(coefficients), nFeatures)
	}
	return &Logistic{Intercept: intercept, Coefficients: coefficients}, nil
}

func (l *Logistic) Proba(x []float64) float64 {
	z := l.Intercept
	for i, c := range l.Coefficients {
		z += c * x[i]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
