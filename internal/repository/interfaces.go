package repository

import (
	"context"

	"github.com/yourusername/pool-edge/internal/models"
)

// StandingsRepository defines the interface for weekly pick data access
type StandingsRepository interface {
	GetWeekPicks(ctx context.Context, season, week int) ([]models.PlayerPick, error)
	GetLatestWeek(ctx context.Context, season int) (int, error)
}

// SimulationResultRepository defines simulation summary persistence
type SimulationResultRepository interface {
	Save(ctx context.Context, result *models.SimulationResult) error
	SaveAll(ctx context.Context, results []*models.SimulationResult) error
	GetByWeek(ctx context.Context, season, week int) ([]*models.SimulationResult, error)
}
