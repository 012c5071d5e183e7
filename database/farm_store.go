// backend/database/farm_store.go
package database

import (
	"context"
	"fmt"

	"github.com/smartagri/cropadvisor/backend/models"
)

func (s *Store) ListFarms(ctx context.Context) ([]models.Farm, error) {
	farms := []models.Farm{}
	if err := s.db.SelectContext(ctx, &farms, `SELECT id, name, location FROM farms ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	return farms, nil
}

func (s *Store) InsertFarm(ctx context.Context, f models.Farm) (models.Farm, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO farms (name, location) VALUES (?, ?)`, f.Name, f.Location)
	if err != nil {
		return f, fmt.Errorf("failed to insert farm %q: %w", f.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return f, fmt.Errorf("failed to read id of farm %q: %w", f.Name, err)
	}
	f.ID = int(id)
	return f, nil
}
