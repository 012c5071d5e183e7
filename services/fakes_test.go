package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/smartagri/cropadvisor/backend/database"
	"github.com/smartagri/cropadvisor/backend/ml"
	"github.com/smartagri/cropadvisor/backend/models"
)

type fakeReadingStore struct {
	mu        sync.Mutex
	latest    map[int]*models.Reading
	latestErr error
	calls     int
	failCalls map[int]bool // InsertReadingBatch call index -> fail
	stored    []models.ReadingIn
	chunks    []int // len of every InsertReadingBatch call
	listed    []database.ReadingFilter
}

func (f *fakeReadingStore) LatestReadingForFarm(_ context.Context, farmID int) (*models.Reading, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest[farmID], nil
}

func (f *fakeReadingStore) InsertReading(_ context.Context, in models.ReadingIn) (models.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, in)
	return models.Reading{ID: int64(len(f.stored)), Ts: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeReadingStore) InsertReadingBatch(_ context.Context, rows []models.ReadingIn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	f.chunks = append(f.chunks, len(rows))
	if f.failCalls[idx] {
		return errors.New("Duplicate entry")
	}
	f.stored = append(f.stored, rows...)
	return nil
}

func (f *fakeReadingStore) ListReadings(_ context.Context, filter database.ReadingFilter) ([]models.Reading, error) {
	f.listed = append(f.listed, filter)
	return []models.Reading{}, nil
}

func (f *fakeReadingStore) ReadingStats(context.Context) (models.ReadingStats, error) {
	return models.ReadingStats{TotalReadings: int64(len(f.stored))}, nil
}

// fakeModelStore mimics the transactional registry in memory.
type fakeModelStore struct {
	mu      sync.Mutex
	records []models.ModelRecord
	err     error
}

func (f *fakeModelStore) InsertModel(_ context.Context, rec models.ModelRecord) (models.ModelRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.ModelRecord{}, f.err
	}
	rec.ID = len(f.records) + 1
	rec.CreatedAt = time.Date(2025, 1, 1, 0, 0, rec.ID, 0, time.UTC)
	if rec.Active {
		for i := range f.records {
			f.records[i].Active = false
		}
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeModelStore) ActiveModel(context.Context) (*models.ModelRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].Active {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeModelStore) ListModels(_ context.Context, limit int) ([]models.ModelRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.ModelRecord(nil), f.records...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type staticResolver struct {
	model  ml.Model
	source string
}

func (s staticResolver) Resolve(context.Context) (*ResolvedModel, bool) {
	if s.model == nil {
		return nil, false
	}
	return &ResolvedModel{Model: s.model, Source: s.source, Path: "/models/test.json"}, true
}

type fixedProbModel struct {
	classes []string
	probs   []float64
	err     error
}

func (m fixedProbModel) Name() string      { return "fixed" }
func (m fixedProbModel) Version() string   { return "1" }
func (m fixedProbModel) Classes() []string { return m.classes }
func (m fixedProbModel) PredictProba(ml.Vector) ([]float64, error) {
	return m.probs, m.err
}

type labelModel struct{ label string }

func (m labelModel) Name() string      { return "label" }
func (m labelModel) Version() string   { return "" }
func (m labelModel) Classes() []string { return []string{m.label} }
func (m labelModel) PredictLabel(ml.Vector) (string, error) {
	return m.label, nil
}

// recordingModel remembers the last vector it scored.
type recordingModel struct {
	last *ml.Vector
}

func (m recordingModel) Name() string      { return "rec" }
func (m recordingModel) Version() string   { return "" }
func (m recordingModel) Classes() []string { return []string{"A"} }
func (m recordingModel) PredictProba(x ml.Vector) ([]float64, error) {
	*m.last = x
	return []float64{1}, nil
}
