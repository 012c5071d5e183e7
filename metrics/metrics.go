// backend/metrics/metrics.go
package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const promNamespace = "cropadvisor"

var (
	// Predictions counts served predictions by mode (single, batch_row)
	// and by the source of the model (active, fallback, demo).
	Predictions = prom.NewCounterVec(prom.CounterOpts{
		Namespace: promNamespace,
		Name:      "predictions_total",
		Help:      "predictions served",
	}, []string{"mode", "source"})

	PredictionFailures = prom.NewCounterVec(prom.CounterOpts{
		Namespace: promNamespace,
		Name:      "prediction_failures_total",
		Help:      "predictions that could not be scored",
	}, []string{"mode"})

	ModelResolutions = prom.NewCounterVec(prom.CounterOpts{
		Namespace: promNamespace,
		Name:      "model_resolutions_total",
		Help:      "model resolution outcomes by source",
	}, []string{"source"})

	IngestedRows = prom.NewCounterVec(prom.CounterOpts{
		Namespace: promNamespace,
		Name:      "ingested_rows_total",
		Help:      "readings ingested, by status",
	}, []string{"status"})

	RequestDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: promNamespace,
		Name:      "request_duration_seconds",
		Help:      "duration of API requests",
		Buckets:   prom.DefBuckets,
	}, []string{"method", "route", "code"})
)

func init() {
	prom.MustRegister(Predictions)
	prom.MustRegister(PredictionFailures)
	prom.MustRegister(ModelResolutions)
	prom.MustRegister(IngestedRows)
	prom.MustRegister(RequestDuration)
}

// Since observes the time elapsed from start.
func Since(o prom.Observer, start time.Time) {
	o.Observe(time.Since(start).Seconds())
}
