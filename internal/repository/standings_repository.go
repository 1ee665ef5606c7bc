package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pool-edge/internal/database"
	"github.com/yourusername/pool-edge/internal/models"
)

// PostgresStandingsRepository implements StandingsRepository for PostgreSQL
type PostgresStandingsRepository struct {
	db *database.DB
}

// NewPostgresStandingsRepository creates a new standings repository
func NewPostgresStandingsRepository(db *database.DB) StandingsRepository {
	return &PostgresStandingsRepository{db: db}
}

// GetWeekPicks retrieves every player's picks for a week
func (r *PostgresStandingsRepository) GetWeekPicks(ctx context.Context, season, week int) ([]models.PlayerPick, error) {
	query := `
		SELECT season, week_number, player_name, team, opponent_team, confidence_points, is_correct
		FROM player_picks
		WHERE season = $1 AND week_number = $2
		ORDER BY player_name, confidence_points DESC
	`
	rows, err := r.db.Querier(ctx).Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query player picks: %w", err)
	}

	picks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PlayerPick])
	if err != nil {
		return nil, fmt.Errorf("failed to scan player picks: %w", err)
	}
	return picks, nil
}

// GetLatestWeek returns the highest week with picks in a season
func (r *PostgresStandingsRepository) GetLatestWeek(ctx context.Context, season int) (int, error) {
	var week *int
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT MAX(week_number) FROM player_picks WHERE season = $1`, season,
	).Scan(&week)
	if err != nil {
		return 0, fmt.Errorf("failed to query latest week: %w", err)
	}
	if week == nil {
		return 0, models.ErrNotFound
	}
	return *week, nil
}
