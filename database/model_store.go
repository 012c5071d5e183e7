// backend/database/model_store.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/smartagri/cropadvisor/backend/models"
)

const modelColumns = `id, name, path, version, accuracy, metadata, active, created_at`

// InsertModel appends a registry row. When rec.Active is set, every other
// row is deactivated inside the same transaction, so readers see either the
// previous active model or the new one and never two.
//
// The deactivation runs after the insert and excludes the new id. Both
// statements take InnoDB row locks, so two concurrent activations
// serialize and the later commit wins.
func (s *Store) InsertModel(ctx context.Context, rec models.ModelRecord) (models.ModelRecord, error) {
	var out models.ModelRecord

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return out, fmt.Errorf("failed to begin transaction for model registration: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO models (name, path, version, accuracy, metadata, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP(6))`,
		rec.Name, rec.Path, rec.Version, rec.Accuracy, rec.Metadata, rec.Active,
	)
	if err != nil {
		return out, fmt.Errorf("failed to insert model %q: %w", rec.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return out, fmt.Errorf("failed to read id of model %q: %w", rec.Name, err)
	}

	if rec.Active {
		res, err := tx.ExecContext(ctx,
			`UPDATE models SET active = FALSE WHERE active = TRUE AND id <> ?`, id)
		if err != nil {
			return out, fmt.Errorf("failed to deactivate previous models: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			log.WithField("model_id", id).Infof("Database: deactivated %d previous model(s)", n)
		}
	}

	if err := tx.GetContext(ctx, &out, `SELECT `+modelColumns+` FROM models WHERE id = ?`, id); err != nil {
		return out, fmt.Errorf("failed to load registered model %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return out, fmt.Errorf("failed to commit model registration: %w", err)
	}
	return out, nil
}

// ActiveModel returns the newest active row, or nil when none is active.
func (s *Store) ActiveModel(ctx context.Context) (*models.ModelRecord, error) {
	var rec models.ModelRecord
	err := s.db.GetContext(ctx, &rec, `
		SELECT `+modelColumns+`
		FROM models
		WHERE active = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query active model: %w", err)
	}
	return &rec, nil
}

// ListModels returns registry rows newest first.
func (s *Store) ListModels(ctx context.Context, limit int) ([]models.ModelRecord, error) {
	recs := []models.ModelRecord{}
	err := s.db.SelectContext(ctx, &recs, `
		SELECT `+modelColumns+`
		FROM models
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return recs, nil
}
