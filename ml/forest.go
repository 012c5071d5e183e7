// backend/ml/forest.go
package ml

import (
	"github.com/pkg/errors"
)

// Node is a decision tree node. A node with a Leaf is terminal; otherwise
// rows with x[Feature] <= Threshold go Left.
type Node struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      int       `json:"left,omitempty"`
	Right     int       `json:"right,omitempty"`
	Leaf      []float64 `json:"leaf,omitempty"` // class weights, normalized at predict time
}

// Tree stores nodes in a flat slice; Nodes[0] is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

type forest struct {
	meta
	trees []Tree
}

func newForest(m meta, trees []Tree) (*forest, error) {
	if len(trees) == 0 {
		return nil, errors.Wrap(ErrInvalidArtifact, "random_forest has no trees")
	}
	for ti, t := range trees {
		if len(t.Nodes) == 0 {
			return nil, errors.Wrapf(ErrInvalidArtifact, "tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Leaf != nil {
				if len(n.Leaf) != len(m.classes) {
					return nil, errors.Wrapf(ErrInvalidArtifact, "tree %d node %d: leaf has %d weights, want %d",
						ti, ni, len(n.Leaf), len(m.classes))
				}
				var sum float64
				for _, w := range n.Leaf {
					if w < 0 {
						return nil, errors.Wrapf(ErrInvalidArtifact, "tree %d node %d: negative leaf weight", ti, ni)
					}
					sum += w
				}
				if sum == 0 {
					return nil, errors.Wrapf(ErrInvalidArtifact, "tree %d node %d: empty leaf", ti, ni)
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= NumFeatures {
				return nil, errors.Wrapf(ErrInvalidArtifact, "tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			// Children always point forward, so walking a tree terminates.
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return nil, errors.Wrapf(ErrInvalidArtifact, "tree %d node %d: bad child index", ti, ni)
			}
		}
	}
	return &forest{meta: m, trees: trees}, nil
}

// PredictProba averages the normalized leaf distributions of every tree.
func (f *forest) PredictProba(x Vector) ([]float64, error) {
	if err := checkFinite(x); err != nil {
		return nil, err
	}
	probs := make([]float64, len(f.classes))
	for _, t := range f.trees {
		leaf := t.walk(x)
		var sum float64
		for _, w := range leaf {
			sum += w
		}
		for i, w := range leaf {
			probs[i] += w / sum
		}
	}
	for i := range probs {
		probs[i] /= float64(len(f.trees))
	}
	return probs, nil
}

func (t Tree) walk(x Vector) []float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return n.Leaf
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
