package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/smartagri/cropadvisor/backend/models"
)

var (
	readingCols = []string{"id", "ts", "sensor_id", "farm_id", "temperature", "humidity", "ph", "rainfall", "n", "p", "k"}
	modelCols   = []string{"id", "name", "path", "version", "accuracy", "metadata", "active", "created_at"}
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestInsertReading(t *testing.T) {
	store, mock := newMockStore(t)
	ts := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO readings`).
		WithArgs(nil, "s-1", int64(2), 24.5, nil, nil, nil, int64(90), nil, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`FROM readings WHERE id = \?`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(readingCols).
			AddRow(11, ts, "s-1", 2, 24.5, nil, nil, nil, 90, nil, nil))

	got, err := store.InsertReading(context.Background(), models.ReadingIn{
		SensorID:    null.StringFrom("s-1"),
		FarmID:      null.IntFrom(2),
		Temperature: null.FloatFrom(24.5),
		N:           null.IntFrom(90),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, ts, got.Ts)
	assert.Equal(t, int64(90), got.N.Int64)
	assert.False(t, got.Humidity.Valid)
}

func TestInsertReadingBatchCommits(t *testing.T) {
	store, mock := newMockStore(t)
	rows := []models.ReadingIn{
		{FarmID: null.IntFrom(1), N: null.IntFrom(10)},
		{FarmID: null.IntFrom(1), N: null.IntFrom(20)},
		{FarmID: null.IntFrom(2), N: null.IntFrom(30)},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO readings`)
	for i := range rows {
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	require.NoError(t, store.InsertReadingBatch(context.Background(), rows))
}

func TestInsertReadingBatchRollsBackOnRowFailure(t *testing.T) {
	store, mock := newMockStore(t)
	rows := []models.ReadingIn{{FarmID: null.IntFrom(1)}, {FarmID: null.IntFrom(1)}, {FarmID: null.IntFrom(1)}}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO readings`)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnError(errors.New("Data too long for column 'sensor_id'"))
	mock.ExpectRollback()

	err := store.InsertReadingBatch(context.Background(), rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading 2 of 3")
}

func TestInsertReadingBatchEmpty(t *testing.T) {
	store, _ := newMockStore(t)
	require.NoError(t, store.InsertReadingBatch(context.Background(), nil))
}

func TestLatestReadingForFarm(t *testing.T) {
	store, mock := newMockStore(t)
	ts := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE farm_id = \?\s+ORDER BY ts DESC, id DESC\s+LIMIT 1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(readingCols).
			AddRow(40, ts, "s-9", 3, 21.0, 80.0, 6.5, 200.0, 90, 42, 43))

	r, err := store.LatestReadingForFarm(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, int64(40), r.ID)
	assert.Equal(t, 6.5, r.PH.Float64)
}

func TestLatestReadingForFarmNone(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`WHERE farm_id = \?`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(readingCols))

	r, err := store.LatestReadingForFarm(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestListReadingsFilters(t *testing.T) {
	store, mock := newMockStore(t)
	farm := 4
	mock.ExpectQuery(`FROM readings WHERE farm_id = \? ORDER BY ts DESC, id DESC LIMIT \?`).
		WithArgs(4, 10).
		WillReturnRows(sqlmock.NewRows(readingCols).
			AddRow(2, time.Now(), nil, 4, nil, nil, nil, nil, nil, nil, nil).
			AddRow(1, time.Now(), nil, 4, nil, nil, nil, nil, nil, nil, nil))

	got, err := store.ListReadings(context.Background(), ReadingFilter{FarmID: &farm, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReadingStats(t *testing.T) {
	store, mock := newMockStore(t)
	latest := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`COUNT\(DISTINCT farm_id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"total_readings", "unique_farms", "unique_sensors", "latest_reading_at"}).
			AddRow(1200, 5, 3, latest))

	stats, err := store.ReadingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1200), stats.TotalReadings)
	assert.Equal(t, int64(5), stats.UniqueFarms)
	assert.Equal(t, int64(3), stats.UniqueSensors)
	assert.Equal(t, latest, stats.LatestReadingAt.Time)
}

func TestInsertModelActivatesAtomically(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO models`).
		WithArgs("crop_rf", "/models/rf_v2.json", "2.0", 0.93, sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`UPDATE models SET active = FALSE WHERE active = TRUE AND id <> \?`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM models WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(modelCols).
			AddRow(7, "crop_rf", "/models/rf_v2.json", "2.0", 0.93, []byte(`{"trees":10}`), true, created))
	mock.ExpectCommit()

	rec, err := store.InsertModel(context.Background(), models.ModelRecord{
		Name:     "crop_rf",
		Path:     "/models/rf_v2.json",
		Version:  null.StringFrom("2.0"),
		Accuracy: null.FloatFrom(0.93),
		Metadata: models.JSONObj{"trees": 10},
		Active:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, rec.ID)
	assert.True(t, rec.Active)
	assert.Equal(t, float64(10), rec.Metadata["trees"])
}

func TestInsertModelInactiveSkipsDeactivation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO models`).
		WithArgs("crop_rf", "/models/rf_v3.json", nil, nil, nil, false).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery(`FROM models WHERE id = \?`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(modelCols).
			AddRow(8, "crop_rf", "/models/rf_v3.json", nil, nil, nil, false, time.Now()))
	mock.ExpectCommit()

	rec, err := store.InsertModel(context.Background(), models.ModelRecord{Name: "crop_rf", Path: "/models/rf_v3.json"})
	require.NoError(t, err)
	assert.False(t, rec.Active)
	assert.Nil(t, rec.Metadata)
}

func TestInsertModelRollsBackWhenDeactivationFails(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO models`).WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(`UPDATE models SET active = FALSE`).WillReturnError(errors.New("Deadlock found when trying to get lock"))
	mock.ExpectRollback()

	_, err := store.InsertModel(context.Background(), models.ModelRecord{Name: "m", Path: "p", Active: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deactivate previous models")
}

func TestActiveModel(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`WHERE active = TRUE\s+ORDER BY created_at DESC, id DESC\s+LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(modelCols).
			AddRow(3, "crop_rf", "/models/rf.json", "1.0", nil, nil, true, time.Now()))

	rec, err := store.ActiveModel(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "/models/rf.json", rec.Path)
}

func TestActiveModelNone(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`WHERE active = TRUE`).WillReturnRows(sqlmock.NewRows(modelCols))

	rec, err := store.ActiveModel(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestListModels(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM models\s+ORDER BY created_at DESC, id DESC\s+LIMIT \?`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(modelCols).
			AddRow(5, "b", "/b.json", nil, nil, nil, true, time.Now()).
			AddRow(4, "a", "/a.json", nil, nil, nil, false, time.Now().Add(-time.Hour)))

	recs, err := store.ListModels(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 5, recs[0].ID)
}

func TestFarms(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO farms`).
		WithArgs("North field", "Punjab").
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectQuery(`SELECT id, name, location FROM farms`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location"}).AddRow(6, "North field", "Punjab"))

	f, err := store.InsertFarm(context.Background(), models.Farm{Name: "North field", Location: null.StringFrom("Punjab")})
	require.NoError(t, err)
	assert.Equal(t, 6, f.ID)

	farms, err := store.ListFarms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Farm{f}, farms)
}
