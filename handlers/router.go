// backend/handlers/router.go
package handlers

import (
	"context"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartagri/cropadvisor/backend/database"
	"github.com/smartagri/cropadvisor/backend/models"
)

// PredictionService serves predictions.
type PredictionService interface {
	PredictSingle(ctx context.Context, req models.PredictRequest) (models.PredictResponse, error)
	PredictBatch(ctx context.Context, req models.BatchPredictRequest) (models.BatchPredictResponse, error)
}

// ModelRegistry manages model records.
type ModelRegistry interface {
	Register(ctx context.Context, req models.RegisterModelRequest) (models.ModelRecord, error)
	GetActive(ctx context.Context) (models.ModelRecord, error)
	List(ctx context.Context, limit int) ([]models.ModelRecord, error)
}

// IngestService writes and reads readings.
type IngestService interface {
	Ingest(ctx context.Context, in models.ReadingIn) (models.IngestResponse, error)
	BulkIngest(ctx context.Context, rows []models.ReadingIn, batchSize int) (models.BulkIngestResponse, error)
	ImportCSV(ctx context.Context, r io.Reader, batchSize int, farmID *int) (models.BulkIngestResponse, error)
	ListReadings(ctx context.Context, farmID *int, limit int) ([]models.Reading, error)
	ExportCSV(ctx context.Context, w io.Writer, farmID *int) error
	Stats(ctx context.Context) (models.ReadingStats, error)
}

// FarmService manages farms.
type FarmService interface {
	List(ctx context.Context) ([]models.Farm, error)
	Create(ctx context.Context, req models.CreateFarmRequest) (models.Farm, error)
}

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ Pinger = (*database.Store)(nil)

// API holds the services behind the HTTP routes.
type API struct {
	Predictor PredictionService
	Registry  ModelRegistry
	Ingest    IngestService
	Farms     FarmService
	DB        Pinger
}

// NewServer builds the echo instance with every route registered.
func NewServer(api *API) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = JSONErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64M"))
	e.Use(RequestLogger())

	api.Register(e)
	return e
}

// Register adds the API routes to e.
func (a *API) Register(e *echo.Echo) {
	e.GET("/", a.Dashboard)
	e.GET("/health", a.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/ingest", a.IngestReading)
	e.POST("/ingest/bulk", a.BulkIngest)
	e.POST("/ingest/csv", a.ImportCSV)
	e.GET("/ingest/template", a.CSVTemplate)

	e.GET("/readings", a.ListReadings)
	e.GET("/readings/export", a.ExportReadings)
	e.GET("/data/stats", a.Stats)

	e.GET("/farms", a.ListFarms)
	e.POST("/farms", a.CreateFarm)

	e.POST("/predict", a.Predict)
	e.POST("/predict/batch", a.PredictBatch)

	e.POST("/models/register", a.RegisterModel)
	e.GET("/models/active", a.ActiveModel)
	e.GET("/models", a.ListModels)
}
