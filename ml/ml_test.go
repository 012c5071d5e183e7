package ml

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	riceRow  = Vector{50, 40, 35, 25.5, 65, 6.8, 100}
	maizeRow = Vector{60, 45, 40, 26, 70, 7, 120}
	wheatRow = Vector{40, 30, 30, 20, 50, 6.5, 80}
)

func sampleForest(t *testing.T) ProbabilisticModel {
	t.Helper()
	m, err := SampleArtifact().Build()
	require.NoError(t, err)
	pm, ok := m.(ProbabilisticModel)
	require.True(t, ok)
	return pm
}

func TestSampleForestSeparatesReferenceRows(t *testing.T) {
	m := sampleForest(t)
	cases := map[string]Vector{"Rice": riceRow, "Maize": maizeRow, "Wheat": wheatRow}
	for want, row := range cases {
		probs, err := m.PredictProba(row)
		require.NoError(t, err)
		require.Len(t, probs, 3)

		best := 0
		var sum float64
		for i, p := range probs {
			sum += p
			if p > probs[best] {
				best = i
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.Equal(t, want, m.Classes()[best])
	}
}

func TestForestAveragesLeaves(t *testing.T) {
	probs, err := sampleForest(t).PredictProba(riceRow)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, probs[0], 1e-9)
	assert.InDelta(t, 0.65, probs[1], 1e-9)
	assert.InDelta(t, 0.10, probs[2], 1e-9)
}

func TestForestRejectsNonFinite(t *testing.T) {
	row := riceRow
	row[5] = math.NaN()
	_, err := sampleForest(t).PredictProba(row)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonFinite))
	assert.Contains(t, err.Error(), "ph")
}

func TestSoftmax(t *testing.T) {
	m, err := Parse([]byte(`{
		"kind": "softmax",
		"name": "lr",
		"classes": ["A", "B"],
		"weights": [[1,0,0,0,0,0,0],[0,1,0,0,0,0,0]],
		"intercepts": [0, 0]
	}`))
	require.NoError(t, err)
	probs, err := m.(ProbabilisticModel).PredictProba(Vector{2, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-2)), probs[0], 1e-9)
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)

	// Large logits must not overflow.
	probs, err = m.(ProbabilisticModel).PredictProba(Vector{5000, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, probs[0], 1e-9)
}

func TestSoftmaxLogitOverflow(t *testing.T) {
	m, err := Parse([]byte(`{
		"kind": "softmax",
		"name": "lr",
		"classes": ["A", "B"],
		"weights": [[2,0,0,0,0,0,0],[-0.5,0,0,0,0,0,0]]
	}`))
	require.NoError(t, err)
	_, err = m.(ProbabilisticModel).PredictProba(Vector{1e308})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonFinite))
}

func TestNearestCentroidIsLabelOnly(t *testing.T) {
	m, err := Parse([]byte(`{
		"kind": "nearest_centroid",
		"name": "nc",
		"classes": ["Rice", "Wheat"],
		"centroids": [[50,40,35,25.5,65,6.8,100],[40,30,30,20,50,6.5,80]]
	}`))
	require.NoError(t, err)
	_, isProb := m.(ProbabilisticModel)
	assert.False(t, isProb)

	label, err := m.(LabelOnlyModel).PredictLabel(Vector{41, 31, 30, 20, 52, 6.5, 79})
	require.NoError(t, err)
	assert.Equal(t, "Wheat", label)
}

func TestParseRejectsBadArtifacts(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"kind":`,
		"unknown kind":     `{"kind":"svm","classes":["A"]}`,
		"no classes":       `{"kind":"random_forest","trees":[{"nodes":[{"leaf":[1]}]}]}`,
		"no trees":         `{"kind":"random_forest","classes":["A"]}`,
		"leaf size":        `{"kind":"random_forest","classes":["A","B"],"trees":[{"nodes":[{"leaf":[1]}]}]}`,
		"cycle":            `{"kind":"random_forest","classes":["A"],"trees":[{"nodes":[{"feature":0,"threshold":1,"left":0,"right":0}]}]}`,
		"feature range":    `{"kind":"random_forest","classes":["A"],"trees":[{"nodes":[{"feature":9,"left":1,"right":2},{"leaf":[1]},{"leaf":[1]}]}]}`,
		"weights shape":    `{"kind":"softmax","classes":["A","B"],"weights":[[1,2,3]]}`,
		"feature order":    `{"kind":"nearest_centroid","classes":["A"],"feature_order":["P","N","K","temperature","humidity","ph","rainfall"],"centroids":[[0,0,0,0,0,0,0]]}`,
		"short order":      `{"kind":"nearest_centroid","classes":["A"],"feature_order":["N"],"centroids":[[0,0,0,0,0,0,0]]}`,
		"zero leaf weight": `{"kind":"random_forest","classes":["A"],"trees":[{"nodes":[{"leaf":[0]}]}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArtifact), err.Error())
		})
	}
}

func TestWriteAndLoadSampleModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "crop_rf.json")
	require.NoError(t, WriteSampleModel(path))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "crop_rf_sample", m.Name())
	assert.Equal(t, []string{"Maize", "Rice", "Wheat"}, m.Classes())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
