package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDSNEnv names the variable holding a throwaway database for integration tests
const TestDSNEnv = "POOL_EDGE_TEST_DATABASE_DSN"

// SetupTestDB connects to the integration database, skipping the test when
// none is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("Integration test - set %s to run", TestDSNEnv)
	}

	// Create context for connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDBFromDSN(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to prepare test schema: %v", err)
	}

	return db
}

// TeardownTestDB removes test rows and closes the connection cleanly
func TeardownTestDB(t *testing.T, db *DB, season int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, table := range []string{"player_picks", "simulation_results"} {
		if _, err := db.pool.Exec(ctx, "DELETE FROM "+table+" WHERE season = $1", season); err != nil {
			t.Logf("warning: failed to clean %s: %v", table, err)
		}
	}
	db.Close()
}
