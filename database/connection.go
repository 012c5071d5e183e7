// backend/database/connection.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql" // MySQL/MariaDB driver
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/smartagri/cropadvisor/backend/config"
)

var DB *sqlx.DB

// InitDB opens the connection pool and waits for the server to answer a
// ping, retrying with exponential backoff up to cfg.ConnectTimeout.
func InitDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = cfg.ConnectTimeout
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = 30 * time.Second
	}
	ping := func() error {
		return db.PingContext(ctx)
	}
	notify := func(err error, wait time.Duration) {
		log.WithError(err).Warnf("Database: ping failed, retrying in %s", wait)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	log.Info("Successfully connected to the database!")
	return db, nil
}

// CloseDB closes the connection pool opened by InitDB.
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Info("Database connection closed.")
	}
}

// EnsureSchema creates any missing table.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range AllTables() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	log.Infof("Database: schema ready (%d tables)", len(AllTables()))
	return nil
}
