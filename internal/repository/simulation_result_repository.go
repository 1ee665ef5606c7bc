package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pool-edge/internal/database"
	"github.com/yourusername/pool-edge/internal/models"
)

// PostgresSimulationResultRepository implements SimulationResultRepository for PostgreSQL
type PostgresSimulationResultRepository struct {
	db *database.DB
}

// NewPostgresSimulationResultRepository creates a new simulation result repository
func NewPostgresSimulationResultRepository(db *database.DB) SimulationResultRepository {
	return &PostgresSimulationResultRepository{db: db}
}

// Save inserts a simulation result, assigning an ID and timestamp when unset
func (r *PostgresSimulationResultRepository) Save(ctx context.Context, result *models.SimulationResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO simulation_results (
			id, season, week, strategy, trials,
			expected_total_points, expected_wins, p_wins_bonus, p_points_bonus, stdev_total_points,
			full_results, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := r.db.Querier(ctx).Exec(ctx, query,
		result.ID, result.Season, result.Week, result.Strategy, result.Trials,
		result.ExpectedTotalPoints, result.ExpectedWins, result.PWinsBonus, result.PPointsBonus, result.StdDevTotalPoints,
		result.FullResults, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save simulation result: %w", err)
	}
	return nil
}

// SaveAll inserts every result in one transaction
func (r *PostgresSimulationResultRepository) SaveAll(ctx context.Context, results []*models.SimulationResult) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		for _, result := range results {
			if err := r.Save(ctx, result); err != nil {
				return fmt.Errorf("%s: %w", result.Strategy, err)
			}
		}
		return nil
	})
}

// GetByWeek retrieves results for a week, best expected total first
func (r *PostgresSimulationResultRepository) GetByWeek(ctx context.Context, season, week int) ([]*models.SimulationResult, error) {
	query := `
		SELECT id, season, week, strategy, trials, expected_total_points, expected_wins,
			p_wins_bonus, p_points_bonus, stdev_total_points, full_results, created_at
		FROM simulation_results WHERE season = $1 AND week = $2
		ORDER BY created_at DESC, expected_total_points DESC
	`
	rows, err := r.db.Querier(ctx).Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation results: %w", err)
	}
	defer rows.Close()

	var results []*models.SimulationResult
	for rows.Next() {
		result := &models.SimulationResult{}
		if err := rows.Scan(
			&result.ID, &result.Season, &result.Week, &result.Strategy, &result.Trials,
			&result.ExpectedTotalPoints, &result.ExpectedWins, &result.PWinsBonus, &result.PPointsBonus,
			&result.StdDevTotalPoints, &result.FullResults, &result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan simulation result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
