package features

import (
	"errors"
	"fmt"
)

// ErrSchemaDrift marks a trained feature the pipeline no longer computes.
var ErrSchemaDrift = errors.New("schema drift")

// SchemaDriftError names the first trained feature with no computed value.
type SchemaDriftError struct {
	Feature string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("schema drift: trained feature %q is not computed by the pipeline", e.Feature)
}

func (e *SchemaDriftError) Unwrap() error {
	return ErrSchemaDrift
}

// Computed holds every feature the pipeline produced for one record.
type Computed map[string]float64

// Vector is an ordered feature vector. Names[i] labels Values[i].
type Vector struct {
	Names  []string
	Values []float64
}

func (v Vector) Len() int {
	return len(v.Values)
}

// Get returns the value of a named feature.
func (v Vector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Assemble orders computed features by the trained feature list. Computed
// features that were not kept at training time are left out.
func Assemble(computed Computed, order []string) (Vector, error) {
	vec := Vector{
		Names:  make([]string, len(order)),
		Values: make([]float64, len(order)),
	}
	copy(vec.Names, order)
	for i, name := range order {
		v, ok := computed[name]
		if !ok {
			return Vector{}, &SchemaDriftError{Feature: name}
		}
		vec.Values[i] = v
	}
	return vec, nil
}
