// backend/services/feature_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/smartagri/cropadvisor/backend/ml"
	"github.com/smartagri/cropadvisor/backend/models"
	"github.com/smartagri/cropadvisor/backend/utils"
)

// LatestReadingSource looks up the newest reading of a farm; nil means the
// farm has none.
type LatestReadingSource interface {
	LatestReadingForFarm(ctx context.Context, farmID int) (*models.Reading, error)
}

// FeatureBuilder turns a prediction request into an ml.Vector.
type FeatureBuilder struct {
	readings LatestReadingSource
}

func NewFeatureBuilder(readings LatestReadingSource) *FeatureBuilder {
	return &FeatureBuilder{readings: readings}
}

// Build uses the explicit features when the map is non-empty, otherwise the
// latest reading of req.FarmID.
func (b *FeatureBuilder) Build(ctx context.Context, req models.PredictRequest) (ml.Vector, error) {
	features := req.Features
	if len(features) == 0 {
		features = req.SensorData
	}
	if len(features) > 0 {
		vec, err := VectorFromMap(features)
		if err != nil {
			return vec, AsInvalidRequest("%v", err)
		}
		return vec, nil
	}
	if req.FarmID != nil {
		r, err := b.readings.LatestReadingForFarm(ctx, *req.FarmID)
		if err != nil {
			return ml.Vector{}, err
		}
		if r == nil {
			return ml.Vector{}, AsNotFound("No readings for farm %d", *req.FarmID)
		}
		return VectorFromReading(*r), nil
	}
	return ml.Vector{}, AsInvalidRequest("Provide features or farm_id")
}

// VectorFromReading copies a stored reading into FeatureOrder. NULL
// columns become 0.
func VectorFromReading(r models.Reading) ml.Vector {
	return ml.Vector{
		float64(r.N.ValueOrZero()),
		float64(r.P.ValueOrZero()),
		float64(r.K.ValueOrZero()),
		r.Temperature.ValueOrZero(),
		r.Humidity.ValueOrZero(),
		r.PH.ValueOrZero(),
		r.Rainfall.ValueOrZero(),
	}
}

var featureIndex = func() map[string]int {
	idx := make(map[string]int, ml.NumFeatures)
	for i, name := range ml.FeatureOrder {
		idx[utils.NormalizeColumnName(name)] = i
	}
	return idx
}()

// VectorFromMap reads the seven features from an arbitrary JSON object.
// Names are matched loosely ("N" or "n", "pH" or "ph", "temp"); absent
// keys become 0 and unknown keys are ignored. When several keys name the
// same feature the exact canonical spelling wins, then the lexically
// smallest key.
func VectorFromMap(m map[string]interface{}) (ml.Vector, error) {
	var vec ml.Vector

	chosen := make(map[int]string, ml.NumFeatures)
	for _, k := range sortedKeys(m) {
		i, ok := featureIndex[utils.NormalizeColumnName(k)]
		if !ok {
			continue
		}
		prev, taken := chosen[i]
		if !taken || (k == ml.FeatureOrder[i] && prev != ml.FeatureOrder[i]) {
			chosen[i] = k
		}
	}

	for i, k := range chosen {
		v, err := toFloat(m[k])
		if err != nil {
			return vec, fmt.Errorf("feature %q: %w", k, err)
		}
		vec[i] = v
	}
	return vec, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported value of type %T", v)
	}
}
