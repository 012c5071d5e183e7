// backend/ml/artifact.go
package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/pkg/errors"
)

// FeatureOrder is the column order every artifact is trained on.
var FeatureOrder = [NumFeatures]string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

const NumFeatures = 7

// Vector is one input row in FeatureOrder.
type Vector [NumFeatures]float64

// Artifact kinds.
const (
	KindRandomForest    = "random_forest"
	KindSoftmax         = "softmax"
	KindNearestCentroid = "nearest_centroid"
)

// ErrInvalidArtifact wraps every structural problem found while loading.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// Model is a loaded classifier.
type Model interface {
	Name() string
	Version() string
	Classes() []string
}

// ProbabilisticModel reports one probability per class, aligned with
// Classes().
type ProbabilisticModel interface {
	Model
	PredictProba(x Vector) ([]float64, error)
}

// LabelOnlyModel reports only the winning class.
type LabelOnlyModel interface {
	Model
	PredictLabel(x Vector) (string, error)
}

// Artifact is the on-disk JSON form of a model.
type Artifact struct {
	Kind         string      `json:"kind"`
	Name         string      `json:"name"`
	Version      string      `json:"version,omitempty"`
	Classes      []string    `json:"classes"`
	FeatureOrder []string    `json:"feature_order,omitempty"`
	Trees        []Tree      `json:"trees,omitempty"`
	Weights      [][]float64 `json:"weights,omitempty"`
	Intercepts   []float64   `json:"intercepts,omitempty"`
	Centroids    [][]float64 `json:"centroids,omitempty"`
}

// Load reads and validates the artifact at path.
func Load(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates an artifact.
func Parse(data []byte) (Model, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(ErrInvalidArtifact, err.Error())
	}
	return a.Build()
}

// Build validates the artifact and returns the matching Model.
func (a Artifact) Build() (Model, error) {
	if len(a.Classes) == 0 {
		return nil, errors.Wrap(ErrInvalidArtifact, "no classes")
	}
	if a.FeatureOrder != nil {
		if len(a.FeatureOrder) != NumFeatures {
			return nil, errors.Wrapf(ErrInvalidArtifact, "feature_order has %d entries, want %d",
				len(a.FeatureOrder), NumFeatures)
		}
		for i, f := range a.FeatureOrder {
			if f != FeatureOrder[i] {
				return nil, errors.Wrapf(ErrInvalidArtifact, "feature_order[%d] is %q, want %q", i, f, FeatureOrder[i])
			}
		}
	}

	md := meta{name: a.Name, version: a.Version, classes: a.Classes}
	switch a.Kind {
	case KindRandomForest:
		return newForest(md, a.Trees)
	case KindSoftmax:
		return newSoftmax(md, a.Weights, a.Intercepts)
	case KindNearestCentroid:
		return newCentroid(md, a.Centroids)
	default:
		return nil, errors.Wrapf(ErrInvalidArtifact, "unknown kind %q", a.Kind)
	}
}

type meta struct {
	name    string
	version string
	classes []string
}

func (m meta) Name() string      { return m.name }
func (m meta) Version() string   { return m.version }
func (m meta) Classes() []string { return m.classes }

// ErrNonFinite is returned when an input holds NaN or Inf.
var ErrNonFinite = errors.New("feature value is not finite")

func checkFinite(x Vector) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrNonFinite, "%s=%v", FeatureOrder[i], v)
		}
	}
	return nil
}

func checkMatrix(name string, rows [][]float64, want int) error {
	if len(rows) != want {
		return errors.Wrapf(ErrInvalidArtifact, "%s has %d rows, want one per class (%d)", name, len(rows), want)
	}
	for i, r := range rows {
		if len(r) != NumFeatures {
			return errors.Wrapf(ErrInvalidArtifact, "%s[%d] has %d values, want %d", name, i, len(r), NumFeatures)
		}
	}
	return nil
}
