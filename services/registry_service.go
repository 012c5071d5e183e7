// backend/services/registry_service.go
package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"

	"github.com/smartagri/cropadvisor/backend/models"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ModelStore persists registry rows.
type ModelStore interface {
	InsertModel(ctx context.Context, rec models.ModelRecord) (models.ModelRecord, error)
	ActiveModel(ctx context.Context) (*models.ModelRecord, error)
	ListModels(ctx context.Context, limit int) ([]models.ModelRecord, error)
}

// Registry is the append-only model registry. Re-registering an older path
// with Activate set is how a rollback is done.
type Registry struct {
	store ModelStore
}

func NewRegistry(store ModelStore) *Registry {
	return &Registry{store: store}
}

// Register appends a record, atomically making it the only active one when
// req.Activate is set.
func (r *Registry) Register(ctx context.Context, req models.RegisterModelRequest) (models.ModelRecord, error) {
	name := strings.TrimSpace(req.Name)
	path := strings.TrimSpace(req.Path)
	if name == "" {
		return models.ModelRecord{}, AsInvalidRequest("name is required")
	}
	if path == "" {
		return models.ModelRecord{}, AsInvalidRequest("path is required")
	}

	rec, err := r.store.InsertModel(ctx, models.ModelRecord{
		Name:     name,
		Path:     path,
		Version:  null.StringFromPtr(req.Version),
		Accuracy: null.FloatFromPtr(req.Accuracy),
		Metadata: req.Metadata,
		Active:   req.Activate,
	})
	if err != nil {
		return rec, err
	}
	log.WithFields(log.Fields{
		"model_id":   rec.ID,
		"model_path": rec.Path,
		"active":     rec.Active,
	}).Infof("Service: registered model %s", rec.Name)
	return rec, nil
}

// GetActive returns the active record or an ErrNotFound.
func (r *Registry) GetActive(ctx context.Context) (models.ModelRecord, error) {
	rec, err := r.store.ActiveModel(ctx)
	if err != nil {
		return models.ModelRecord{}, err
	}
	if rec == nil {
		return models.ModelRecord{}, AsNotFound("No active model")
	}
	return *rec, nil
}

// List returns records newest first. A non-positive limit means
// DefaultListLimit; larger values are capped at MaxListLimit.
func (r *Registry) List(ctx context.Context, limit int) ([]models.ModelRecord, error) {
	return r.store.ListModels(ctx, ClampLimit(limit))
}

// ClampLimit applies the list limit policy shared by the list endpoints.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
