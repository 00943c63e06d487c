package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keno-analytics/internal/config"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id               BIGSERIAL PRIMARY KEY,
	drawn_numbers    INTEGER[] NOT NULL,
	selected_numbers INTEGER[] NOT NULL DEFAULT '{}',
	wager            NUMERIC(20, 8) NOT NULL DEFAULT 0,
	payout           NUMERIC(20, 8) NOT NULL DEFAULT 0,
	played_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (played_at);
`

// Initialize creates a database connection pool and makes sure the round table exists
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"component": "database",
			"host":      cfg.Database.Host,
			"database":  cfg.Database.Name,
			"table":     db.TableName(),
		}).Info("Round history store ready")
	}
	return db, nil
}

// EnsureSchema creates the round table and its timestamp index when missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	index := db.table + "_played_at_idx"
	stmt := fmt.Sprintf(schemaTemplate, db.Table(), pgx.Identifier{index}.Sanitize())
	if _, err := db.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create round table %s: %w", db.table, err)
	}
	return nil
}
