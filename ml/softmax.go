// backend/ml/softmax.go
package ml

import (
	"math"

	"github.com/pkg/errors"
)

// softmax is a multinomial logistic regression:
// p_c = exp(b_c + w_c·x) / sum_j exp(b_j + w_j·x).
type softmax struct {
	meta
	weights    [][]float64
	intercepts []float64
}

func newSoftmax(m meta, weights [][]float64, intercepts []float64) (*softmax, error) {
	if err := checkMatrix("weights", weights, len(m.classes)); err != nil {
		return nil, err
	}
	if intercepts == nil {
		intercepts = make([]float64, len(m.classes))
	}
	if len(intercepts) != len(m.classes) {
		return nil, errors.Wrapf(ErrInvalidArtifact, "intercepts has %d values, want %d", len(intercepts), len(m.classes))
	}
	return &softmax{meta: m, weights: weights, intercepts: intercepts}, nil
}

func (s *softmax) PredictProba(x Vector) ([]float64, error) {
	if err := checkFinite(x); err != nil {
		return nil, err
	}
	logits := make([]float64, len(s.classes))
	maxLogit := math.Inf(-1)
	for c := range logits {
		z := s.intercepts[c]
		for i, w := range s.weights[c] {
			z += w * x[i]
		}
		if math.IsNaN(z) || math.IsInf(z, 0) {
			return nil, errors.Wrapf(ErrNonFinite, "logit for %s overflowed", s.classes[c])
		}
		logits[c] = z
		if z > maxLogit {
			maxLogit = z
		}
	}
	// Shift by the max logit so exp cannot overflow.
	var sum float64
	for c, z := range logits {
		logits[c] = math.Exp(z - maxLogit)
		sum += logits[c]
	}
	for c := range logits {
		logits[c] /= sum
	}
	return logits, nil
}
