package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/picks"
	"github.com/yourusername/pool-edge/internal/report"
	"github.com/yourusername/pool-edge/internal/repository"
	"github.com/yourusername/pool-edge/internal/scenario"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{Name: "pool-edge", Environment: "development", LogLevel: "info"},
		Pool: config.PoolConfig{
			Season:          2025,
			SeasonStart:     "2025-09-02",
			LeagueSize:      4,
			WinsBonus:       5,
			PointsBonus:     10,
			BonusPolicy:     "full",
			SlateMinGames:   1,
			SlateMaxGames:   18,
			SharpWeight:     2,
			StandingsSource: "file",
		},
		Simulation: config.SimulationConfig{
			Trials:           200,
			Workers:          2,
			Seed:             7,
			Field:            map[string]int{"chalk": 2, "slight": 1},
			FallbackNumGames: 16,
			FallbackSeed:     42,
		},
		Scenario: config.ScenarioConfig{
			MaxPendingGames:  24,
			WarnPendingGames: 20,
			Workers:          2,
			CombinationLimit: 5,
		},
		Output: config.OutputConfig{
			Directory:         t.TempDir(),
			ExportCSV:         true,
			ExportPredictions: true,
		},
	}
}

type stubSource struct {
	quotes   []models.GameQuotes
	err      error
	from, to time.Time
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchQuotes(ctx context.Context, from, to time.Time) ([]models.GameQuotes, error) {
	s.from, s.to = from, to
	return s.quotes, s.err
}

func twoGameQuotes() []models.GameQuotes {
	return []models.GameQuotes{
		{
			ID: "g1", HomeTeam: "Kansas City Chiefs", AwayTeam: "Denver Broncos",
			Books: []models.BookQuote{{Title: "DraftKings", HomePrice: models.IntPtr(-200), AwayPrice: models.IntPtr(170)}},
		},
		{
			ID: "g2", HomeTeam: "New York Giants", AwayTeam: "Dallas Cowboys",
			Books: []models.BookQuote{{Title: "FanDuel", HomePrice: models.IntPtr(-110), AwayPrice: models.IntPtr(-110)}},
		},
	}
}

type memoryResults struct {
	saved []*models.SimulationResult
}

func (m *memoryResults) Save(ctx context.Context, r *models.SimulationResult) error {
	m.saved = append(m.saved, r)
	return nil
}

func (m *memoryResults) SaveAll(ctx context.Context, rs []*models.SimulationResult) error {
	for _, r := range rs {
		if err := m.Save(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryResults) GetByWeek(ctx context.Context, season, week int) ([]*models.SimulationResult, error) {
	return m.saved, nil
}

func TestLoadSlateFromSource(t *testing.T) {
	svc := NewSimulationService(testConfig(t), &stubSource{quotes: twoGameQuotes()}, nil, nil)
	res, err := svc.LoadSlate(context.Background(), 3)
	require.NoError(t, err)

	assert.False(t, res.Synthetic)
	assert.Equal(t, "stub", res.Source)
	require.Equal(t, 2, res.Slate.Len())
	assert.Equal(t, 3, res.Slate.Week)
	assert.Equal(t, "Kansas City Chiefs", res.Slate.Games[0].Favorite)
	assert.Empty(t, res.Warnings)
}

func TestLoadSlateUsesRequestedWeekWindow(t *testing.T) {
	now := time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		week int
		from time.Time
	}{
		{"current week", 3, time.Date(2025, 9, 16, 5, 0, 0, 0, time.UTC)},
		{"later week", 5, time.Date(2025, 9, 30, 5, 0, 0, 0, time.UTC)},
		{"earlier week", 1, time.Date(2025, 9, 2, 5, 0, 0, 0, time.UTC)},
		{"no week", 0, time.Date(2025, 9, 16, 5, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubSource{quotes: twoGameQuotes()}
			svc := NewSimulationService(testConfig(t), src, nil, nil)
			svc.now = func() time.Time { return now }

			_, err := svc.LoadSlate(context.Background(), tt.week)
			require.NoError(t, err)
			assert.Equal(t, tt.from, src.from)
			assert.Equal(t, tt.from.Add(7*24*time.Hour-time.Minute), src.to)
		})
	}
}

func TestLoadSlateWithoutSeasonStartUsesCurrentWindow(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pool.SeasonStart = ""
	src := &stubSource{quotes: twoGameQuotes()}
	svc := NewSimulationService(cfg, src, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC) }

	_, err := svc.LoadSlate(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 16, 5, 0, 0, 0, time.UTC), src.from)
}

func TestLoadSlateFallsBackToSynthetic(t *testing.T) {
	cases := map[string]*SimulationService{
		"no source":    NewSimulationService(testConfig(t), nil, nil, nil),
		"source error": NewSimulationService(testConfig(t), &stubSource{err: errors.New("boom")}, nil, nil),
		"no games":     NewSimulationService(testConfig(t), &stubSource{}, nil, nil),
	}
	for name, svc := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := svc.LoadSlate(context.Background(), 2)
			require.NoError(t, err)
			assert.True(t, res.Synthetic)
			assert.Equal(t, "synthetic", res.Source)
			assert.Equal(t, 16, res.Slate.Len())
		})
	}
}

func TestLoadSlateWarnsOnShortSlate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pool.SlateMinGames = 12
	svc := NewSimulationService(cfg, &stubSource{quotes: twoGameQuotes()}, nil, nil)
	res, err := svc.LoadSlate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "only 2 games")
}

func TestSimulationRunWithUserPicks(t *testing.T) {
	cfg := testConfig(t)
	results := &memoryResults{}
	svc := NewSimulationService(cfg, &stubSource{quotes: twoGameQuotes()}, results, nil)

	outcome, err := svc.Run(context.Background(), SimulationRequest{
		Week:  4,
		Picks: []string{"Chiefs", "Cowboys"},
		Label: "alice",
	})
	require.NoError(t, err)

	require.Len(t, outcome.Summaries, 5)
	names := make([]string, 0, len(outcome.Summaries))
	for _, s := range outcome.Summaries {
		names = append(names, s.Strategy)
		assert.Equal(t, 200, s.Trials)
	}
	assert.Contains(t, names, "alice")
	assert.Contains(t, names, "Chalk-MaxPoints")

	require.NotNil(t, outcome.UserEntry)
	assert.Equal(t, []bool{true, false}, outcome.UserEntry.Picks)
	assert.Equal(t, []int{2, 1}, outcome.UserEntry.Confidence)
	require.NotNil(t, outcome.UserAnalysis)
	assert.Equal(t, 1, outcome.UserAnalysis.ContrarianCount)

	assert.Contains(t, outcome.Entries, "chalk")
	assert.Contains(t, outcome.Entries, "user")

	assert.Len(t, outcome.Files, 6)
	for _, f := range outcome.Files {
		_, err := os.Stat(f)
		assert.NoError(t, err)
	}
	assert.FileExists(t, filepath.Join(cfg.Output.Directory, "week_4_strategy_summary.csv"))
	assert.FileExists(t, filepath.Join(cfg.Output.Directory, "week_4_predictions_user.json"))

	assert.Len(t, results.saved, 5)
	assert.Equal(t, 2025, results.saved[0].Season)
	assert.Equal(t, 4, results.saved[0].Week)
	assert.NotEmpty(t, results.saved[0].FullResults)
}

func TestSimulationRunRejectsBadPicks(t *testing.T) {
	svc := NewSimulationService(testConfig(t), &stubSource{quotes: twoGameQuotes()}, nil, nil)
	_, err := svc.Run(context.Background(), SimulationRequest{Week: 4, Picks: []string{"Chiefs", "Chiefs"}})

	var verr *picks.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Problems)
}

func TestSimulationRunInvalidField(t *testing.T) {
	cfg := testConfig(t)
	cfg.Simulation.Field = map[string]int{"chalk": 1}
	svc := NewSimulationService(cfg, nil, nil, nil)
	_, err := svc.Run(context.Background(), SimulationRequest{Week: 1})
	assert.Error(t, err)
}

type memoryStandings struct {
	weeks map[int][]models.PlayerPick
	err   error
}

func (m *memoryStandings) GetWeekPicks(ctx context.Context, season, week int) ([]models.PlayerPick, error) {
	if m.err != nil {
		return nil, m.err
	}
	rows, ok := m.weeks[week]
	if !ok {
		return nil, models.ErrNotFound
	}
	return rows, nil
}

func (m *memoryStandings) GetLatestWeek(ctx context.Context, season int) (int, error) {
	return len(m.weeks), nil
}

// pastWeeks has alice always with the room, bob against it in half his
// games, and the user (me) alongside alice.
func pastWeeks() *memoryStandings {
	pick := func(week int, player, team, opp string) models.PlayerPick {
		return models.PlayerPick{Season: 2025, Week: week, Player: player, Team: team, Opponent: opp, Confidence: 1}
	}
	return &memoryStandings{weeks: map[int][]models.PlayerPick{
		1: {
			pick(1, "alice", "KC", "DEN"), pick(1, "me", "KC", "DEN"), pick(1, "bob", "DEN", "KC"),
			pick(1, "alice", "BUF", "NE"), pick(1, "me", "BUF", "NE"), pick(1, "bob", "BUF", "NE"),
		},
		2: {
			pick(2, "alice", "SF", "LA"), pick(2, "me", "SF", "LA"), pick(2, "bob", "LA", "SF"),
			pick(2, "alice", "PHI", "DAL"), pick(2, "me", "PHI", "DAL"), pick(2, "bob", "PHI", "DAL"),
		},
	}}
}

func historyConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.Pool.UserName = "Me"
	cfg.Simulation.FieldSource = "history"
	cfg.Output.ExportCSV = false
	cfg.Output.ExportPredictions = false
	return cfg
}

func TestSimulationRunFieldFromHistory(t *testing.T) {
	svc := NewSimulationService(historyConfig(t), &stubSource{quotes: twoGameQuotes()}, nil, nil).
		WithStandings(pastWeeks())

	outcome, err := svc.Run(context.Background(), SimulationRequest{Week: 3})
	require.NoError(t, err)

	assert.Equal(t, "history", outcome.FieldSource)
	assert.Equal(t, 3, outcome.Field.Size())
	assert.Equal(t, map[string]int{
		"Chalk-MaxPoints":       2,
		"Slight-Contrarian":     0,
		"Aggressive-Contrarian": 1,
	}, outcome.Field.Names())

	require.Len(t, outcome.Profiles, 2)
	assert.Equal(t, "alice", outcome.Profiles[0].Player)
	assert.Equal(t, "Chalk-MaxPoints", outcome.Profiles[0].Strategy)
	assert.Equal(t, "bob", outcome.Profiles[1].Player)
	assert.InDelta(t, 0.5, outcome.Profiles[1].ContrarianRate, 1e-9)
	assert.Equal(t, "Aggressive-Contrarian", outcome.Profiles[1].Strategy)
}

func TestHistoricalFieldWindow(t *testing.T) {
	cfg := historyConfig(t)
	cfg.Simulation.HistoryWeeks = 1
	svc := NewSimulationService(cfg, nil, nil, nil).WithStandings(pastWeeks())

	// Only week 2 is read, so bob is one contrarian pick in two.
	_, profiles, err := svc.HistoricalField(context.Background(), 3, 3)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, 1, profiles[1].Weeks)
	assert.Equal(t, 2, profiles[1].Picks)
}

func TestSimulationRunFieldFallsBackToConfigured(t *testing.T) {
	tests := []struct {
		name      string
		standings repository.StandingsRepository
	}{
		{"no repository", nil},
		{"no past weeks", &memoryStandings{weeks: map[int][]models.PlayerPick{}}},
		{"read error", &memoryStandings{err: errors.New("disk gone")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSimulationService(historyConfig(t), &stubSource{quotes: twoGameQuotes()}, nil, nil)
			if tt.standings != nil {
				svc.WithStandings(tt.standings)
			}

			outcome, err := svc.Run(context.Background(), SimulationRequest{Week: 3})
			require.NoError(t, err)
			assert.Equal(t, "configured", outcome.FieldSource)
			assert.Empty(t, outcome.Profiles)
			assert.Equal(t, map[string]int{"Chalk-MaxPoints": 2, "Slight-Contrarian": 1}, outcome.Field.Names())
		})
	}
}

func TestCurrentWeek(t *testing.T) {
	svc := NewSimulationService(testConfig(t), nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, 3, svc.CurrentWeek())
}

const standingsJSON = `[
  {"season": 2025, "week": 4, "player": "alice", "team": "SEA", "opponent": "ARI", "confidence": 3, "is_correct": true},
  {"season": 2025, "week": 5, "player": "alice", "team": "BUF", "opponent": "NE", "confidence": 10, "is_correct": true},
  {"season": 2025, "week": 5, "player": "alice", "team": "KC", "opponent": "JAX", "confidence": 15, "is_correct": null},
  {"season": 2025, "week": 5, "player": "bob", "team": "MIA", "opponent": "NYJ", "confidence": 20, "is_correct": true},
  {"season": 2025, "week": 5, "player": "bob", "team": "JAX", "opponent": "KC", "confidence": 15, "is_correct": null}
]`

func newScenarioService(t *testing.T, cfg *config.Config) *ScenarioService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "standings.json")
	require.NoError(t, os.WriteFile(path, []byte(standingsJSON), 0o644))
	return NewScenarioService(cfg, repository.NewFileStandingsRepository(path), nil)
}

func TestScenarioAnalyzeLatestWeek(t *testing.T) {
	svc := newScenarioService(t, testConfig(t))
	r, err := svc.Analyze(context.Background(), AnalyzeRequest{Player: "alice"})
	require.NoError(t, err)

	assert.Equal(t, 5, r.Week)
	assert.Equal(t, 2025, r.Season)
	assert.Equal(t, 10, r.CurrentPoints)
	assert.Equal(t, uint64(2), r.TotalScenarios)
	assert.Equal(t, uint64(1), r.WinningScenarios)
	assert.InDelta(t, 0.5, r.WinProbability, 1e-9)
	assert.False(t, r.UsingProbabilities)
	assert.InDelta(t, 0.5, testutil.ToFloat64(metrics.PlayerWinProbability.WithLabelValues("alice")), 1e-9)
}

func TestScenarioAnalyzeUsesPredictions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scenario.UseProbabilities = true
	slate := models.Slate{Week: 5, Games: []models.Game{
		{ID: "g1", HomeTeam: "KC", AwayTeam: "JAX", Favorite: "KC", Underdog: "JAX", PFav: 0.8},
	}}
	p, err := report.BuildPredictions("Chalk-MaxPoints", slate, models.Entry{Picks: []bool{true}, Confidence: []int{1}}, time.Now())
	require.NoError(t, err)
	_, err = report.SavePredictions(cfg.Output.Directory, "chalk", p)
	require.NoError(t, err)

	svc := newScenarioService(t, cfg)
	r, err := svc.Analyze(context.Background(), AnalyzeRequest{Week: 5, Player: "alice", Detailed: true})
	require.NoError(t, err)

	assert.True(t, r.UsingProbabilities)
	assert.InDelta(t, 0.8, r.WeightedWinProbability, 1e-9)
	assert.InDelta(t, 0.5, r.NaiveWinProbability, 1e-9)
	require.NotNil(t, r.Meta)
	require.Len(t, r.Meta.AlwaysWin, 1)
}

func TestScenarioAnalyzeWithoutPredictionsFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scenario.UseProbabilities = true
	svc := newScenarioService(t, cfg)
	r, err := svc.Analyze(context.Background(), AnalyzeRequest{Week: 5, Player: "bob"})
	require.NoError(t, err)
	assert.False(t, r.UsingProbabilities)
	assert.InDelta(t, 0.5, r.WinProbability, 1e-9)
}

func TestScenarioAnalyzeErrors(t *testing.T) {
	svc := newScenarioService(t, testConfig(t))

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{Week: 5, Player: "carol"})
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)

	_, err = svc.Analyze(context.Background(), AnalyzeRequest{Week: 9, Player: "alice"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestScenarioLeaderboard(t *testing.T) {
	svc := newScenarioService(t, testConfig(t))
	board, err := svc.Leaderboard(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 5, board.Week)
	assert.Equal(t, 2025, board.Season)
	assert.Equal(t, 1, board.PendingGames)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "alice", board.Entries[0].Player)
	assert.Equal(t, "bob", board.Entries[1].Player)
	assert.InDelta(t, 0.5, board.Entries[1].WinProbability, 1e-9)
}

func TestScenarioTerminalWeek(t *testing.T) {
	svc := newScenarioService(t, testConfig(t))
	r, err := svc.Analyze(context.Background(), AnalyzeRequest{Week: 4, Player: "alice"})
	require.NoError(t, err)
	assert.Equal(t, scenario.StatusComplete, r.Status)
	assert.InDelta(t, 1.0, r.WinProbability, 1e-9)
}
