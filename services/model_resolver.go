// backend/services/model_resolver.go
package services

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/smartagri/cropadvisor/backend/metrics"
	"github.com/smartagri/cropadvisor/backend/ml"
	"github.com/smartagri/cropadvisor/backend/models"
)

// Model sources reported by the resolver.
const (
	SourceActive   = "active"
	SourceFallback = "fallback"
	SourceDemo     = "demo"
)

// ActiveModelSource returns the active registry row, or nil.
type ActiveModelSource interface {
	ActiveModel(ctx context.Context) (*models.ModelRecord, error)
}

// ResolvedModel is a loaded artifact and where it came from.
type ResolvedModel struct {
	Model  ml.Model
	Source string
	Path   string
	Record *models.ModelRecord // nil for the fallback path
}

// Info describes the model for API responses.
func (r *ResolvedModel) Info() models.ModelInfo {
	return models.ModelInfo{
		Name:    r.Model.Name(),
		Version: r.Model.Version(),
		Path:    r.Path,
		Source:  r.Source,
	}
}

// ModelResolver picks the artifact that answers a request: the active
// registry path first, then the configured fallback path. Artifacts are
// loaded on every call.
type ModelResolver struct {
	registry     ActiveModelSource
	fallbackPath string
	load         func(path string) (ml.Model, error)
}

func NewModelResolver(registry ActiveModelSource, fallbackPath string) *ModelResolver {
	return &ModelResolver{registry: registry, fallbackPath: fallbackPath, load: ml.Load}
}

// Resolve returns false when no candidate loads. Load failures are logged
// and never returned.
func (r *ModelResolver) Resolve(ctx context.Context) (*ResolvedModel, bool) {
	type candidate struct {
		path   string
		source string
		record *models.ModelRecord
	}
	var candidates []candidate

	if r.registry != nil {
		rec, err := r.registry.ActiveModel(ctx)
		if err != nil {
			log.WithError(err).Warn("Service: could not read active model, trying fallback path")
		} else if rec != nil {
			candidates = append(candidates, candidate{rec.Path, SourceActive, rec})
		}
	}
	if r.fallbackPath != "" {
		candidates = append(candidates, candidate{r.fallbackPath, SourceFallback, nil})
	}

	tried := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if tried[c.path] {
			continue
		}
		tried[c.path] = true

		m, err := r.load(c.path)
		if err != nil {
			log.WithError(errors.Wrap(ErrModelLoad, err.Error())).
				WithField("model_path", c.path).
				Warnf("Service: %s model failed to load", c.source)
			continue
		}
		metrics.ModelResolutions.WithLabelValues(c.source).Inc()
		return &ResolvedModel{Model: m, Source: c.source, Path: c.path, Record: c.record}, true
	}

	metrics.ModelResolutions.WithLabelValues("none").Inc()
	return nil, false
}
