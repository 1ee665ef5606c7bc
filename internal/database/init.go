package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS player_picks (
		season            INTEGER NOT NULL,
		week_number       INTEGER NOT NULL,
		player_name       TEXT    NOT NULL,
		team              TEXT    NOT NULL,
		opponent_team     TEXT    NOT NULL DEFAULT '',
		confidence_points INTEGER NOT NULL,
		is_correct        BOOLEAN,
		PRIMARY KEY (season, week_number, player_name, team)
	)`,
	`CREATE TABLE IF NOT EXISTS simulation_results (
		id                    UUID PRIMARY KEY,
		season                INTEGER          NOT NULL,
		week                  INTEGER          NOT NULL,
		strategy              TEXT             NOT NULL,
		trials                INTEGER          NOT NULL,
		expected_total_points DOUBLE PRECISION NOT NULL,
		expected_wins         DOUBLE PRECISION NOT NULL,
		p_wins_bonus          DOUBLE PRECISION NOT NULL,
		p_points_bonus        DOUBLE PRECISION NOT NULL,
		stdev_total_points    DOUBLE PRECISION NOT NULL,
		full_results          JSONB,
		created_at            TIMESTAMPTZ      NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_simulation_results_week ON simulation_results (season, week)`,
}

// Initialize creates a database connection pool and makes sure the pool tables exist
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	var pickCount int
	if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM player_picks WHERE season = $1", cfg.Pool.Season).Scan(&pickCount); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to count player picks: %w", err)
	}
	if pickCount == 0 {
		logger.OrDiscard(log).WithField("season", cfg.Pool.Season).Warn("No player picks loaded for season")
	}

	return db, nil
}

// EnsureSchema creates the pool tables when missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	return db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
