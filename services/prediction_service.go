// backend/services/prediction_service.go
package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"

	"github.com/smartagri/cropadvisor/backend/metrics"
	"github.com/smartagri/cropadvisor/backend/ml"
	"github.com/smartagri/cropadvisor/backend/models"
	"github.com/smartagri/cropadvisor/backend/utils"
)

const DefaultTopK = 5

// DemoFallback is served by single predictions when no model resolves.
// The dashboard depends on these exact values.
func DemoFallback() []models.CropPrediction {
	return []models.CropPrediction{
		{Crop: "Rice", Probability: 0.45},
		{Crop: "Maize", Probability: 0.35},
		{Crop: "Wheat", Probability: 0.20},
	}
}

// Resolver finds the model for a request.
type Resolver interface {
	Resolve(ctx context.Context) (*ResolvedModel, bool)
}

// Predictor serves single and batch predictions.
type Predictor struct {
	features    *FeatureBuilder
	resolver    Resolver
	defaultTopK int
}

func NewPredictor(features *FeatureBuilder, resolver Resolver, defaultTopK int) *Predictor {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &Predictor{features: features, resolver: resolver, defaultTopK: defaultTopK}
}

func (p *Predictor) topK(k *int) int {
	if k == nil || *k <= 0 {
		return p.defaultTopK
	}
	return *k
}

// Predict scores one vector. Probabilistic models yield every class sorted
// by descending probability (ties keep the model's class order) and cut to
// topK; label-only models yield a single pair with probability 1.
func Predict(vec ml.Vector, topK int, m ml.Model) ([]models.CropPrediction, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	switch model := m.(type) {
	case ml.ProbabilisticModel:
		probs, err := model.PredictProba(vec)
		if err != nil {
			return nil, errors.Wrap(ErrScoring, err.Error())
		}
		classes := model.Classes()
		if len(probs) != len(classes) {
			return nil, errors.Wrapf(ErrScoring, "model returned %d probabilities for %d classes", len(probs), len(classes))
		}
		preds := make([]models.CropPrediction, len(classes))
		for i, c := range classes {
			if math.IsNaN(probs[i]) || math.IsInf(probs[i], 0) {
				return nil, errors.Wrapf(ErrScoring, "model returned non-finite probability %v for %s", probs[i], c)
			}
			preds[i] = models.CropPrediction{Crop: c, Probability: probs[i]}
		}
		sort.SliceStable(preds, func(i, j int) bool {
			return preds[i].Probability > preds[j].Probability
		})
		if len(preds) > topK {
			preds = preds[:topK]
		}
		return preds, nil

	case ml.LabelOnlyModel:
		label, err := model.PredictLabel(vec)
		if err != nil {
			return nil, errors.Wrap(ErrScoring, err.Error())
		}
		return []models.CropPrediction{{Crop: label, Probability: 1.0}}, nil

	default:
		return nil, errors.Wrapf(ErrScoring, "model %T cannot score", m)
	}
}

// PredictSingle answers POST /predict. Request problems surface first;
// when no model resolves the demo fallback is returned instead of an error.
func (p *Predictor) PredictSingle(ctx context.Context, req models.PredictRequest) (models.PredictResponse, error) {
	vec, err := p.features.Build(ctx, req)
	if err != nil {
		return models.PredictResponse{}, err
	}

	resolved, ok := p.resolver.Resolve(ctx)
	if !ok {
		log.Warn("Service: no model available, serving demo predictions")
		metrics.Predictions.WithLabelValues("single", SourceDemo).Inc()
		return models.PredictResponse{Predictions: DemoFallback(), Source: SourceDemo}, nil
	}

	preds, err := Predict(vec, p.topK(req.TopK), resolved.Model)
	if err != nil {
		metrics.PredictionFailures.WithLabelValues("single").Inc()
		return models.PredictResponse{}, err
	}
	metrics.Predictions.WithLabelValues("single", resolved.Source).Inc()
	return models.PredictResponse{Predictions: preds, Source: resolved.Source}, nil
}

// PredictBatch scores every row independently. A row that cannot be
// converted or scored is counted in FailedRows and left out of Predictions.
// Without a model the whole batch fails with ErrModelUnavailable.
func (p *Predictor) PredictBatch(ctx context.Context, req models.BatchPredictRequest) (models.BatchPredictResponse, error) {
	start := time.Now()

	resolved, ok := p.resolver.Resolve(ctx)
	if !ok {
		return models.BatchPredictResponse{}, errors.Wrap(ErrModelUnavailable, "No model available for batch prediction")
	}

	topK := p.topK(req.TopK)
	resp := models.BatchPredictResponse{
		Predictions: make([]models.BatchPrediction, 0, len(req.Readings)),
		Model:       resolved.Info(),
	}
	for i, row := range req.Readings {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		preds, err := scoreRow(row, topK, resolved.Model)
		if err != nil {
			resp.FailedRows++
			metrics.PredictionFailures.WithLabelValues("batch_row").Inc()
			log.WithError(err).WithField("row", i).Debug("Service: batch row failed")
			continue
		}
		resp.ProcessedRows++
		sensorID, farmID := rowIdentity(row)
		resp.Predictions = append(resp.Predictions, models.BatchPrediction{
			RowIndex:    i,
			SensorID:    sensorID,
			FarmID:      farmID,
			Predictions: preds,
		})
	}
	metrics.Predictions.WithLabelValues("batch_row", resolved.Source).Add(float64(resp.ProcessedRows))

	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	log.WithFields(log.Fields{
		"processed": resp.ProcessedRows,
		"failed":    resp.FailedRows,
		"source":    resolved.Source,
	}).Info("Service: batch prediction done")
	return resp, nil
}

func scoreRow(row map[string]interface{}, topK int, m ml.Model) ([]models.CropPrediction, error) {
	vec, err := VectorFromMap(row)
	if err != nil {
		return nil, fmt.Errorf("invalid row: %w", err)
	}
	return Predict(vec, topK, m)
}

// rowIdentity picks sensor_id and farm_id out of a batch row, accepting the
// same key aliases as the feature columns. Unusable values become null.
func rowIdentity(row map[string]interface{}) (null.String, null.Int) {
	var sensorID null.String
	var farmID null.Int
	for _, key := range sortedKeys(row) {
		switch utils.NormalizeColumnName(key) {
		case "sensor_id":
			if sensorID.Valid {
				continue
			}
			switch v := row[key].(type) {
			case nil:
			case string:
				if v != "" {
					sensorID = null.StringFrom(v)
				}
			default:
				sensorID = null.StringFrom(fmt.Sprint(v))
			}
		case "farm_id":
			if farmID.Valid || row[key] == nil || row[key] == "" {
				continue
			}
			if f, err := toFloat(row[key]); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
				farmID = null.IntFrom(int64(f))
			}
		}
	}
	return sensorID, farmID
}
