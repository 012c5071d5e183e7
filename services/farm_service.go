// backend/services/farm_service.go
package services

import (
	"context"
	"strings"

	"gopkg.in/guregu/null.v3"

	"github.com/smartagri/cropadvisor/backend/models"
)

type FarmStore interface {
	ListFarms(ctx context.Context) ([]models.Farm, error)
	InsertFarm(ctx context.Context, f models.Farm) (models.Farm, error)
}

type FarmService struct {
	store FarmStore
}

func NewFarmService(store FarmStore) *FarmService {
	return &FarmService{store: store}
}

func (s *FarmService) List(ctx context.Context) ([]models.Farm, error) {
	return s.store.ListFarms(ctx)
}

func (s *FarmService) Create(ctx context.Context, req models.CreateFarmRequest) (models.Farm, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Farm{}, AsInvalidRequest("name is required")
	}
	return s.store.InsertFarm(ctx, models.Farm{Name: name, Location: null.StringFromPtr(req.Location)})
}
