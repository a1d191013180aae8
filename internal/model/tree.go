package model

import "fmt"

const leaf = -1

// TreeSpec is a fitted decision tree in flat node-array form. Node 0 is
// the root; a node is a leaf when its left child is -1. Values holds the
// per-class weights at each node.
type TreeSpec struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Tree walks x <= threshold to the left child.
type Tree struct {
	spec     TreeSpec
	positive int
}

func NewTree(spec TreeSpec, nFeatures, positiveClass int) (*Tree, error) {
	n := len(spec.ChildrenLeft)
	if n == 0 {
		return nil, fmt.Errorf("tree has no nodes")
	}
	if len(spec.ChildrenRight) != n || len(spec.Feature) != n || len(spec.Threshold) != n || len(spec.Value) != n {
		return nil, fmt.Errorf("tree node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		l, r := spec.ChildrenLeft[i], spec.ChildrenRight[i]
		if l == leaf {
			if r != leaf {
				return nil, fmt.Errorf("node %d has only a right child", i)
			}
			if positiveClass >= len(spec.Value[i]) {
				return nil, fmt.Errorf("leaf %d has no weight for class %d", i, positiveClass)
			}
			var total float64
			for _, w := range spec.Value[i] {
				if w < 0 {
					return nil, fmt.Errorf("leaf %d has a negative class weight", i)
				}
				total += w
			}
			if total == 0 {
				return nil, fmt.Errorf("leaf %d has no class weight", i)
			}
			continue
		}
		// children always follow their parent, which also rules out cycles
		if l <= i || r <= i || l >= n || r >= n {
			return nil, fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if f := spec.Feature[i]; f < 0 || f >= nFeatures {
			return nil, fmt.Errorf("node %d splits on feature %d of %d", i, f, nFeatures)
		}
	}
	return &Tree{spec: spec, positive: positiveClass}, nil
}

// Proba returns the positive-class share of the leaf x lands in. Features are
// narrowed to float32 before comparing, as the trees were fit on float32 input.
func (t *Tree) Proba(x []float64) float64 {
	node := 0
	for t.spec.ChildrenLeft[node] != leaf {
		if float64(float32(x[t.spec.Feature[node]])) <= t.spec.Threshold[node] {
			node = t.spec.ChildrenLeft[node]
		} else {
			node = t.spec.ChildrenRight[node]
		}
	}

	weights := t.spec.Value[node]
	var total float64
	for _, w := range weights {
		total += w
	}
	return weights[t.positive] / total
}

// Forest averages the probabilities of its trees.
type Forest struct {
	trees []*Tree
}

func NewForest(trees []*Tree) (*Forest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	return &Forest{trees: trees}, nil
}

func (f *Forest) Proba(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.Proba(x)
	}
	return sum / float64(len(f.trees))
}
