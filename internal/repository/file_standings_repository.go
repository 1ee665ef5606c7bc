package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/yourusername/pool-edge/internal/models"
)

// FileStandingsRepository reads picks from a JSON array of player pick rows.
// Rows without a season match every season.
type FileStandingsRepository struct {
	path string
}

// NewFileStandingsRepository creates a file-backed standings repository
func NewFileStandingsRepository(path string) StandingsRepository {
	return &FileStandingsRepository{path: path}
}

func (r *FileStandingsRepository) load(ctx context.Context) ([]models.PlayerPick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("standings file %s: %w", r.path, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read standings file: %w", err)
	}
	var picks []models.PlayerPick
	if err := json.Unmarshal(data, &picks); err != nil {
		return nil, fmt.Errorf("failed to parse standings file %s: %w", r.path, err)
	}
	return picks, nil
}

// GetWeekPicks retrieves every player's picks for a week
func (r *FileStandingsRepository) GetWeekPicks(ctx context.Context, season, week int) ([]models.PlayerPick, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	var picks []models.PlayerPick
	for _, p := range all {
		if p.Week != week || (p.Season != 0 && p.Season != season) {
			continue
		}
		picks = append(picks, p)
	}
	return picks, nil
}

// GetLatestWeek returns the highest week with picks in a season
func (r *FileStandingsRepository) GetLatestWeek(ctx context.Context, season int) (int, error) {
	all, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	latest := 0
	for _, p := range all {
		if p.Season != 0 && p.Season != season {
			continue
		}
		latest = max(latest, p.Week)
	}
	if latest == 0 {
		return 0, models.ErrNotFound
	}
	return latest, nil
}
