// backend/database/reading_store.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/smartagri/cropadvisor/backend/models"
)

const readingColumns = `id, ts, sensor_id, farm_id, temperature, humidity, ph, rainfall, n, p, k`

// A NULL ts falls back to the server clock.
const insertReadingSQL = `
	INSERT INTO readings (
		ts, sensor_id, farm_id, temperature, humidity, ph, rainfall, n, p, k
	) VALUES (COALESCE(?, CURRENT_TIMESTAMP(6)), ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func readingArgs(r models.ReadingIn) []interface{} {
	return []interface{}{
		r.Ts, r.SensorID, r.FarmID,
		r.Temperature, r.Humidity, r.PH, r.Rainfall,
		r.N, r.P, r.K,
	}
}

// ReadingFilter narrows ListReadings. Limit <= 0 means no limit.
type ReadingFilter struct {
	FarmID *int
	Limit  int
}

// InsertReading stores one reading and returns it as persisted.
func (s *Store) InsertReading(ctx context.Context, in models.ReadingIn) (models.Reading, error) {
	var out models.Reading
	res, err := s.db.ExecContext(ctx, insertReadingSQL, readingArgs(in)...)
	if err != nil {
		return out, fmt.Errorf("failed to insert reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return out, fmt.Errorf("failed to read id of inserted reading: %w", err)
	}
	err = s.db.GetContext(ctx, &out, `SELECT `+readingColumns+` FROM readings WHERE id = ?`, id)
	if err != nil {
		return out, fmt.Errorf("failed to load inserted reading %d: %w", id, err)
	}
	return out, nil
}

// InsertReadingBatch stores rows in a single transaction: all of them or
// none.
func (s *Store) InsertReadingBatch(ctx context.Context, rows []models.ReadingIn) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for readings: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, insertReadingSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare reading insert statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, readingArgs(r)...); err != nil {
			return fmt.Errorf("failed to insert reading %d of %d: %w", i+1, len(rows), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for readings: %w", err)
	}
	log.Debugf("Database: inserted %d readings", len(rows))
	return nil
}

// LatestReadingForFarm returns the newest reading for the farm, or nil when
// the farm has none.
func (s *Store) LatestReadingForFarm(ctx context.Context, farmID int) (*models.Reading, error) {
	var r models.Reading
	err := s.db.GetContext(ctx, &r, `
		SELECT `+readingColumns+`
		FROM readings
		WHERE farm_id = ?
		ORDER BY ts DESC, id DESC
		LIMIT 1`, farmID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error, just no result
		}
		return nil, fmt.Errorf("failed to query latest reading for farm %d: %w", farmID, err)
	}
	return &r, nil
}

// ListReadings returns readings newest first.
func (s *Store) ListReadings(ctx context.Context, f ReadingFilter) ([]models.Reading, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`SELECT ` + readingColumns + ` FROM readings`)
	if f.FarmID != nil {
		sb.WriteString(` WHERE farm_id = ?`)
		args = append(args, *f.FarmID)
	}
	sb.WriteString(` ORDER BY ts DESC, id DESC`)
	if f.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	readings := []models.Reading{}
	if err := s.db.SelectContext(ctx, &readings, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return readings, nil
}

// ReadingStats aggregates counts over the whole readings table.
func (s *Store) ReadingStats(ctx context.Context) (models.ReadingStats, error) {
	var stats models.ReadingStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) AS total_readings,
			COUNT(DISTINCT farm_id) AS unique_farms,
			COUNT(DISTINCT sensor_id) AS unique_sensors,
			MAX(ts) AS latest_reading_at
		FROM readings`)
	if err != nil {
		return stats, fmt.Errorf("failed to compute reading stats: %w", err)
	}
	return stats, nil
}
