// backend/cmd/wiring.go
package cmd

import (
	"context"

	"github.com/pkg/errors"

	"github.com/smartagri/cropadvisor/backend/config"
	"github.com/smartagri/cropadvisor/backend/database"
	"github.com/smartagri/cropadvisor/backend/handlers"
	"github.com/smartagri/cropadvisor/backend/services"
)

// openStore connects to MySQL and makes sure the tables exist. The caller
// closes the connection with database.CloseDB.
func openStore(ctx context.Context, cfg config.Config) (*database.Store, error) {
	db, err := database.InitDB(ctx, cfg.Database)
	if err != nil {
		return nil, errors.Wrap(err, "error initializing database")
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		database.CloseDB()
		return nil, err
	}
	return database.NewStore(db), nil
}

func newIngestService(store *database.Store, cfg config.Config) *services.IngestService {
	return services.NewIngestService(store, cfg.Ingest.BatchSize, cfg.Ingest.MaxBatchSize)
}

// newAPI wires every service on top of one store.
func newAPI(store *database.Store, cfg config.Config) *handlers.API {
	registry := services.NewRegistry(store)
	resolver := services.NewModelResolver(store, cfg.Model.FallbackPath)
	predictor := services.NewPredictor(services.NewFeatureBuilder(store), resolver, cfg.Model.DefaultTopK)
	return &handlers.API{
		Predictor: predictor,
		Registry:  registry,
		Ingest:    newIngestService(store, cfg),
		Farms:     services.NewFarmService(store),
		DB:        store,
	}
}
