// backend/ml/centroid.go
package ml

import "math"

// centroid labels a row with the class of the closest centroid. It has no
// notion of probability.
type centroid struct {
	meta
	centroids [][]float64
}

func newCentroid(m meta, centroids [][]float64) (*centroid, error) {
	if err := checkMatrix("centroids", centroids, len(m.classes)); err != nil {
		return nil, err
	}
	return &centroid{meta: m, centroids: centroids}, nil
}

func (c *centroid) PredictLabel(x Vector) (string, error) {
	if err := checkFinite(x); err != nil {
		return "", err
	}
	best, bestDist := 0, math.Inf(1)
	for i, ctr := range c.centroids {
		var d float64
		for j, v := range ctr {
			diff := x[j] - v
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return c.classes[best], nil
}
