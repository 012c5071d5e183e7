package handlers

import (
	"context"
	"io"

	"github.com/smartagri/cropadvisor/backend/models"
	"github.com/smartagri/cropadvisor/backend/services"
)

type fakePredictor struct {
	single    models.PredictResponse
	batch     models.BatchPredictResponse
	err       error
	lastReq   models.PredictRequest
	lastBatch models.BatchPredictRequest
}

func (f *fakePredictor) PredictSingle(_ context.Context, req models.PredictRequest) (models.PredictResponse, error) {
	f.lastReq = req
	return f.single, f.err
}

func (f *fakePredictor) PredictBatch(_ context.Context, req models.BatchPredictRequest) (models.BatchPredictResponse, error) {
	f.lastBatch = req
	return f.batch, f.err
}

type fakeRegistry struct {
	records   []models.ModelRecord
	err       error
	lastReq   models.RegisterModelRequest
	lastLimit int
}

func (f *fakeRegistry) Register(_ context.Context, req models.RegisterModelRequest) (models.ModelRecord, error) {
	f.lastReq = req
	if f.err != nil {
		return models.ModelRecord{}, f.err
	}
	if req.Name == "" {
		return models.ModelRecord{}, services.AsInvalidRequest("name is required")
	}
	rec := models.ModelRecord{ID: len(f.records) + 1, Name: req.Name, Path: req.Path, Active: req.Activate}
	if rec.Active {
		for i := range f.records {
			f.records[i].Active = false
		}
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeRegistry) GetActive(context.Context) (models.ModelRecord, error) {
	if f.err != nil {
		return models.ModelRecord{}, f.err
	}
	for _, r := range f.records {
		if r.Active {
			return r, nil
		}
	}
	return models.ModelRecord{}, services.AsNotFound("No active model")
}

func (f *fakeRegistry) List(_ context.Context, limit int) ([]models.ModelRecord, error) {
	f.lastLimit = limit
	return f.records, f.err
}

type fakeIngest struct {
	single     models.IngestResponse
	bulk       models.BulkIngestResponse
	readings   []models.Reading
	stats      models.ReadingStats
	err        error
	lastIn     models.ReadingIn
	lastRows   []models.ReadingIn
	lastBatch  int
	lastFarm   *int
	lastLimit  int
	csvPayload string
}

func (f *fakeIngest) Ingest(_ context.Context, in models.ReadingIn) (models.IngestResponse, error) {
	f.lastIn = in
	return f.single, f.err
}

func (f *fakeIngest) BulkIngest(_ context.Context, rows []models.ReadingIn, batchSize int) (models.BulkIngestResponse, error) {
	f.lastRows, f.lastBatch = rows, batchSize
	return f.bulk, f.err
}

func (f *fakeIngest) ImportCSV(_ context.Context, r io.Reader, batchSize int, farmID *int) (models.BulkIngestResponse, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return models.BulkIngestResponse{}, err
	}
	f.csvPayload, f.lastBatch, f.lastFarm = string(b), batchSize, farmID
	return f.bulk, f.err
}

func (f *fakeIngest) ListReadings(_ context.Context, farmID *int, limit int) ([]models.Reading, error) {
	f.lastFarm, f.lastLimit = farmID, limit
	return f.readings, f.err
}

func (f *fakeIngest) ExportCSV(_ context.Context, w io.Writer, farmID *int) error {
	f.lastFarm = farmID
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "id,ts\n1,2026-01-01T00:00:00Z\n")
	return err
}

func (f *fakeIngest) Stats(context.Context) (models.ReadingStats, error) {
	return f.stats, f.err
}

type fakeFarms struct {
	farms []models.Farm
	err   error
}

func (f *fakeFarms) List(context.Context) ([]models.Farm, error) { return f.farms, f.err }

func (f *fakeFarms) Create(_ context.Context, req models.CreateFarmRequest) (models.Farm, error) {
	if req.Name == "" {
		return models.Farm{}, services.AsInvalidRequest("name is required")
	}
	farm := models.Farm{ID: len(f.farms) + 1, Name: req.Name}
	f.farms = append(f.farms, farm)
	return farm, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
