package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/keno-analytics/internal/config"
)

// TestConfigEnv names the config file used by integration tests.
const TestConfigEnv = "KENO_ENGINE_TEST_CONFIG"

// SetupTestDB connects to the database named by the test configuration and
// creates the round table. Tests are skipped when no database is configured
// or reachable.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("integration test - set %s to a config with database.enabled", TestConfigEnv)
	}
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	if !cfg.Database.Enabled {
		t.Skip("integration test - database disabled in test config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("integration test - database unreachable: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

// TeardownTestDB empties the round table and closes the connection pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.pool.Exec(ctx, "TRUNCATE "+db.Table()); err != nil {
		t.Logf("warning: failed to truncate test table: %v", err)
	}
	db.Close()
}
