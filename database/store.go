// backend/database/store.go
package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Store runs the queries for every table against one pool.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open pool. Tests pass a sqlmock-backed *sqlx.DB.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Ping is used by the health check.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
