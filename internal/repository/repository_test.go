package repository

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/database"
	"github.com/yourusername/pool-edge/internal/models"
)

const testSeason = 2099

func TestFileStandingsRepositoryGetWeekPicks(t *testing.T) {
	repo := NewFileStandingsRepository("testdata/standings.json")

	picks, err := repo.GetWeekPicks(context.Background(), 2025, 5)
	require.NoError(t, err)
	require.Len(t, picks, 4)

	standings := models.BuildStandings(picks)
	assert.Equal(t, 16, standings["alice"].LockedPoints)
	assert.Equal(t, 0, standings["bob"].LockedPoints)
	require.Len(t, standings["alice"].Pending, 1)
	assert.Equal(t, "KC", standings["alice"].Pending[0].Team)
	assert.Equal(t, "JAX", standings["alice"].Pending[0].Opponent)
}

func TestFileStandingsRepositoryLatestWeek(t *testing.T) {
	repo := NewFileStandingsRepository("testdata/standings.json")

	week, err := repo.GetLatestWeek(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 5, week)

	_, err = repo.GetLatestWeek(context.Background(), 2023)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFileStandingsRepositoryMissingFile(t *testing.T) {
	repo := NewFileStandingsRepository(filepath.Join(t.TempDir(), "nope.json"))

	_, err := repo.GetWeekPicks(context.Background(), 2025, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNewRepositories(t *testing.T) {
	cfg := &config.Config{Pool: config.PoolConfig{StandingsSource: "file", StandingsFile: "testdata/standings.json"}}

	repos, err := NewRepositories(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStandingsRepository{}, repos.Standings)
	assert.Nil(t, repos.SimulationResults)

	cfg.Pool.StandingsSource = "postgres"
	_, err = NewRepositories(cfg, nil)
	assert.Error(t, err)
}

func TestPostgresStandingsRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db, testSeason)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.Querier(ctx).Exec(ctx, `
		INSERT INTO player_picks (season, week_number, player_name, team, opponent_team, confidence_points, is_correct)
		VALUES ($1, 3, 'alice', 'SEA', 'LAR', 2, NULL), ($1, 3, 'alice', 'KC', 'BUF', 1, TRUE)
	`, testSeason)
	require.NoError(t, err)

	repo := NewPostgresStandingsRepository(db)
	picks, err := repo.GetWeekPicks(ctx, testSeason, 3)
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, "SEA", picks[0].Team)
	assert.Nil(t, picks[0].IsCorrect)
	require.NotNil(t, picks[1].IsCorrect)
	assert.True(t, *picks[1].IsCorrect)

	week, err := repo.GetLatestWeek(ctx, testSeason)
	require.NoError(t, err)
	assert.Equal(t, 3, week)
}

func TestPostgresSimulationResultRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db, testSeason)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo := NewPostgresSimulationResultRepository(db)
	result := &models.SimulationResult{
		Season:              testSeason,
		Week:                3,
		Strategy:            "Chalk-MaxPoints",
		Trials:              1000,
		ExpectedTotalPoints: 101.5,
		FullResults:         json.RawMessage(`{"p50": 100}`),
	}
	require.NoError(t, repo.Save(ctx, result))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.ID.String())

	results, err := repo.GetByWeek(ctx, testSeason, 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, result.ID, results[0].ID)
	assert.InDelta(t, 101.5, results[0].ExpectedTotalPoints, 1e-9)
}

func TestPostgresSimulationResultSaveAll(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db, testSeason)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo := NewPostgresSimulationResultRepository(db)
	batch := []*models.SimulationResult{
		{Season: testSeason, Week: 4, Strategy: "Chalk-MaxPoints", Trials: 100, ExpectedTotalPoints: 90},
		{Season: testSeason, Week: 4, Strategy: "Slight-Contrarian", Trials: 100, ExpectedTotalPoints: 88},
	}
	require.NoError(t, repo.SaveAll(ctx, batch))

	results, err := repo.GetByWeek(ctx, testSeason, 4)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	dup := []*models.SimulationResult{
		{Season: testSeason, Week: 5, Strategy: "Chalk-MaxPoints", Trials: 100},
		{ID: batch[0].ID, Season: testSeason, Week: 5, Strategy: "Chalk-MaxPoints", Trials: 100},
	}
	assert.Error(t, repo.SaveAll(ctx, dup))
	results, err = repo.GetByWeek(ctx, testSeason, 5)
	require.NoError(t, err)
	assert.Empty(t, results, "failed batch must roll back")
}
