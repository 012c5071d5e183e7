// backend/ml/sample.go
package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

func split(feature int, threshold float64, left, right int) Node {
	return Node{Feature: feature, Threshold: threshold, Left: left, Right: right}
}

func leaf(weights ...float64) Node {
	return Node{Leaf: weights}
}

// SampleArtifact is a tiny three-class forest for demos and tests. It is
// hand-built around three reference rows:
//
//	Rice  [50 40 35 25.5 65 6.8 100]
//	Maize [60 45 40 26.0 70 7.0 120]
//	Wheat [40 30 30 20.0 50 6.5  80]
func SampleArtifact() Artifact {
	return Artifact{
		Kind:         KindRandomForest,
		Name:         "crop_rf_sample",
		Version:      "0.1.0",
		Classes:      []string{"Maize", "Rice", "Wheat"},
		FeatureOrder: FeatureOrder[:],
		Trees: []Tree{
			{Nodes: []Node{ // N
				split(0, 45, 1, 2),
				leaf(0.1, 0.1, 0.8),
				split(0, 55, 3, 4),
				leaf(0.2, 0.7, 0.1),
				leaf(0.8, 0.15, 0.05),
			}},
			{Nodes: []Node{ // rainfall
				split(6, 90, 1, 2),
				leaf(0.1, 0.2, 0.7),
				split(6, 110, 3, 4),
				leaf(0.25, 0.65, 0.1),
				leaf(0.7, 0.25, 0.05),
			}},
			{Nodes: []Node{ // humidity
				split(4, 57.5, 1, 2),
				leaf(0.05, 0.15, 0.8),
				split(4, 67.5, 3, 4),
				leaf(0.3, 0.6, 0.1),
				leaf(0.6, 0.3, 0.1),
			}},
		},
	}
}

// WriteSampleModel writes SampleArtifact to path, creating parent
// directories.
func WriteSampleModel(path string) error {
	data, err := json.MarshalIndent(SampleArtifact(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sample model: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sample model: %w", err)
	}
	log.Infof("Sample model saved to %s", path)
	return nil
}
