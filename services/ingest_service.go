// backend/services/ingest_service.go
package services

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/smartagri/cropadvisor/backend/database"
	"github.com/smartagri/cropadvisor/backend/metrics"
	"github.com/smartagri/cropadvisor/backend/models"
	"github.com/smartagri/cropadvisor/backend/scraper"
)

// ReadingStore persists and queries readings.
type ReadingStore interface {
	LatestReadingSource
	InsertReading(ctx context.Context, in models.ReadingIn) (models.Reading, error)
	InsertReadingBatch(ctx context.Context, rows []models.ReadingIn) error
	ListReadings(ctx context.Context, f database.ReadingFilter) ([]models.Reading, error)
	ReadingStats(ctx context.Context) (models.ReadingStats, error)
}

// IngestService writes readings, one at a time or in chunks.
type IngestService struct {
	store        ReadingStore
	batchSize    int
	maxBatchSize int
}

func NewIngestService(store ReadingStore, batchSize, maxBatchSize int) *IngestService {
	if batchSize <= 0 {
		batchSize = 500
	}
	if maxBatchSize < batchSize {
		maxBatchSize = batchSize
	}
	return &IngestService{store: store, batchSize: batchSize, maxBatchSize: maxBatchSize}
}

// Ingest stores a single reading.
func (s *IngestService) Ingest(ctx context.Context, in models.ReadingIn) (models.IngestResponse, error) {
	r, err := s.store.InsertReading(ctx, in)
	if err != nil {
		metrics.IngestedRows.WithLabelValues("failed").Inc()
		return models.IngestResponse{}, err
	}
	metrics.IngestedRows.WithLabelValues("ok").Inc()
	return models.IngestResponse{ID: r.ID, Ts: r.Ts.Format(time.RFC3339Nano)}, nil
}

// BulkIngest splits rows into chunks of batchSize and inserts each chunk in
// its own transaction. A failing chunk is rolled back and reported; the
// following chunks are still attempted.
func (s *IngestService) BulkIngest(ctx context.Context, rows []models.ReadingIn, batchSize int) (models.BulkIngestResponse, error) {
	start := time.Now()
	if len(rows) == 0 {
		return models.BulkIngestResponse{}, AsInvalidRequest("No readings supplied")
	}
	switch {
	case batchSize <= 0:
		batchSize = s.batchSize
	case batchSize > s.maxBatchSize:
		batchSize = s.maxBatchSize
	}

	resp := models.BulkIngestResponse{
		TotalRows: len(rows),
		Errors:    []models.BatchError{},
	}
	for i, lo := 0, 0; lo < len(rows); i, lo = i+1, lo+batchSize {
		hi := lo + batchSize
		if hi > len(rows) {
			hi = len(rows)
		}
		chunk := rows[lo:hi]
		resp.Batches++

		if err := s.store.InsertReadingBatch(ctx, chunk); err != nil {
			resp.FailedRows += len(chunk)
			resp.Errors = append(resp.Errors, models.BatchError{
				BatchIndex: i,
				Rows:       len(chunk),
				Error:      err.Error(),
			})
			log.WithError(err).WithField("batch_index", i).Warnf("Service: bulk chunk of %d rows failed", len(chunk))
			if ctx.Err() != nil {
				// Remaining chunks would fail the same way.
				resp.FailedRows += len(rows) - hi
				break
			}
			continue
		}
		resp.SuccessfulRows += len(chunk)
	}

	metrics.IngestedRows.WithLabelValues("ok").Add(float64(resp.SuccessfulRows))
	metrics.IngestedRows.WithLabelValues("failed").Add(float64(resp.FailedRows))
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	log.WithFields(log.Fields{
		"total":   resp.TotalRows,
		"ok":      resp.SuccessfulRows,
		"failed":  resp.FailedRows,
		"batches": resp.Batches,
	}).Info("Service: bulk ingest done")
	return resp, nil
}

// ImportCSV parses an uploaded CSV and bulk ingests it. farmID, when set,
// overrides every row's farm.
func (s *IngestService) ImportCSV(ctx context.Context, r io.Reader, batchSize int, farmID *int) (models.BulkIngestResponse, error) {
	rows, err := scraper.ParseReadingsCSV(r)
	if err != nil {
		return models.BulkIngestResponse{}, errors.Wrap(ErrInvalidRequest, err.Error())
	}
	if farmID != nil {
		for i := range rows {
			rows[i].FarmID.SetValid(int64(*farmID))
		}
	}
	return s.BulkIngest(ctx, rows, batchSize)
}

// ListReadings returns the newest readings, optionally for one farm.
func (s *IngestService) ListReadings(ctx context.Context, farmID *int, limit int) ([]models.Reading, error) {
	return s.store.ListReadings(ctx, database.ReadingFilter{FarmID: farmID, Limit: ClampLimit(limit)})
}

// ExportCSV writes every reading (or every reading of one farm) as CSV.
func (s *IngestService) ExportCSV(ctx context.Context, w io.Writer, farmID *int) error {
	readings, err := s.store.ListReadings(ctx, database.ReadingFilter{FarmID: farmID})
	if err != nil {
		return err
	}
	return scraper.WriteReadingsCSV(w, readings)
}

func (s *IngestService) Stats(ctx context.Context) (models.ReadingStats, error) {
	return s.store.ReadingStats(ctx)
}
