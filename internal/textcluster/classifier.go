package textcluster

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ClusterCount is the number of clusters the scoring model was trained on.
const ClusterCount = 10

var positionalName = regexp.MustCompile(`^cl[0-9]+$`)

// ClustersSpec is the persisted form of the fitted centroids.
type ClustersSpec struct {
	Centroids [][]float64 `json:"centroids"`
	Labels    []string    `json:"labels"`
}

// Classifier assigns text to the nearest frozen centroid.
type Classifier struct {
	vec       *Vectorizer
	centroids [][]float64
	sqNorms   []float64
	names     []string
	labels    []string
}

func NewClassifier(vec *Vectorizer, spec ClustersSpec) (*Classifier, error) {
	if vec == nil {
		return nil, fmt.Errorf("vectorizer is required")
	}
	if len(spec.Centroids) != ClusterCount {
		return nil, fmt.Errorf("expected %d centroids, got %d", ClusterCount, len(spec.Centroids))
	}

	names := make([]string, ClusterCount)
	for i := range names {
		names[i] = "cl" + strconv.Itoa(i+1)
	}

	labels := spec.Labels
	if len(labels) == 0 {
		labels = names
	}
	if len(labels) != ClusterCount {
		return nil, fmt.Errorf("expected %d cluster labels, got %d", ClusterCount, len(labels))
	}
	seen := make(map[string]bool, len(labels))
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("cluster %d has an empty label", i+1)
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate cluster label %q", label)
		}
		seen[label] = true
		if positionalName.MatchString(label) && label != names[i] {
			return nil, fmt.Errorf("cluster %d label %q shadows another cluster", i+1, label)
		}
	}

	sqNorms := make([]float64, ClusterCount)
	for i, c := range spec.Centroids {
		if len(c) != vec.Dim() {
			return nil, fmt.Errorf("centroid %d has %d dimensions, vectorizer has %d", i+1, len(c), vec.Dim())
		}
		for _, x := range c {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("centroid %d has a non-finite coordinate", i+1)
			}
			sqNorms[i] += x * x
		}
	}

	return &Classifier{
		vec:       vec,
		centroids: spec.Centroids,
		sqNorms:   sqNorms,
		names:     names,
		labels:    append([]string(nil), labels...),
	}, nil
}

// Assign returns the zero-based index of the nearest centroid by squared
// Euclidean distance. Ties go to the lowest index, so every input,
// including empty text, is assigned.
func (c *Classifier) Assign(text string) int {
	x := c.vec.Transform(text)

	var xNorm float64
	for _, t := range x {
		xNorm += t.Value * t.Value
	}

	best, bestDist := 0, 0.0
	for k, centroid := range c.centroids {
		var dot float64
		for _, t := range x {
			dot += t.Value * centroid[t.Index]
		}
		d := c.sqNorms[k] + xNorm - 2*dot
		if k == 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

// Classify returns the one-hot cluster indicators for text.
func (c *Classifier) Classify(text string) []float64 {
	out := make([]float64, len(c.centroids))
	out[c.Assign(text)] = 1
	return out
}

func (c *Classifier) Names() []string {
	return c.names
}

func (c *Classifier) Labels() []string {
	return c.labels
}
