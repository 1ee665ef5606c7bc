package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/scoring"
	"github.com/yourusername/pool-edge/internal/strategy"
)

func testConfig(trials, league int) Config {
	return Config{
		Trials:     trials,
		LeagueSize: league,
		Workers:    3,
		Seed:       20251018,
		Scoring:    scoring.DefaultConfig(),
	}
}

func TestRunChalkExpectedWins(t *testing.T) {
	sim := NewSimulator(testConfig(10000, 4), nil)
	p := models.ProbabilityVector{0.7, 0.6}

	summary, err := sim.Run(context.Background(), p, strategy.NewChalk(), FieldComposition{strategy.KindChalk: 3})
	require.NoError(t, err)

	assert.Equal(t, 10000, summary.Trials)
	assert.InDelta(t, 1.3, summary.ExpectedWins, 0.15)

	// Identical cards tie every week, so the target always shares both bonuses.
	assert.Equal(t, 1.0, summary.PWinsBonus)
	assert.Equal(t, 1.0, summary.PPointsBonus)
	assert.InDelta(t, 15.0, summary.ExpectedBonusPoints, 1e-9)
	assert.InDelta(t, summary.ExpectedBasePoints+15, summary.ExpectedTotal, 1e-9)
	assert.Equal(t, "100.00%", summary.PWinsBonusPct)

	assert.LessOrEqual(t, summary.P10, summary.P50)
	assert.LessOrEqual(t, summary.P50, summary.P90)
	assert.Greater(t, summary.StdDevTotal, 0.0)
}

func TestRunIsReproducible(t *testing.T) {
	p := models.ProbabilityVector{0.82, 0.51, 0.65, 0.55, 0.79, 0.60, 0.53, 0.70, 0.62, 0.52, 0.84, 0.57}
	field := FieldComposition{strategy.KindChalk: 4, strategy.KindRandomMidShuffle: 3}

	a, err := NewSimulator(testConfig(2000, 8), nil).Run(context.Background(), p, strategy.NewSlightContrarian(), field)
	require.NoError(t, err)
	b, err := NewSimulator(testConfig(2000, 8), nil).Run(context.Background(), p, strategy.NewSlightContrarian(), field)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRunSplitBonusExpectation(t *testing.T) {
	cfg := testConfig(500, 4)
	cfg.Scoring.Policy = scoring.SplitAmongTied
	sim := NewSimulator(cfg, nil)

	summary, err := sim.Run(context.Background(), models.ProbabilityVector{0.7, 0.6}, strategy.NewChalk(), FieldComposition{strategy.KindChalk: 3})
	require.NoError(t, err)

	// Four-way ties split each bonus, so realized totals carry a quarter share.
	assert.InDelta(t, summary.ExpectedBasePoints+15.0/4, summary.ExpectedTotal, 1e-9)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := NewSimulator(testConfig(1000, 4), nil)
	_, err := sim.Run(ctx, models.ProbabilityVector{0.7, 0.6}, strategy.NewChalk(), FieldComposition{strategy.KindChalk: 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunValidation(t *testing.T) {
	sim := NewSimulator(testConfig(100, 4), nil)
	p := models.ProbabilityVector{0.7, 0.6}

	_, err := sim.Run(context.Background(), p, strategy.NewChalk(), FieldComposition{})
	assert.ErrorIs(t, err, models.ErrEmptyField)

	_, err = sim.Run(context.Background(), p, strategy.NewChalk(), FieldComposition{strategy.KindChalk: 2})
	assert.Error(t, err)

	_, err = sim.Run(context.Background(), nil, strategy.NewChalk(), FieldComposition{strategy.KindChalk: 3})
	assert.ErrorIs(t, err, models.ErrNoGames)

	bad := strategy.NewCustom(models.Entry{Picks: []bool{true}, Confidence: []int{1}})
	_, err = sim.Run(context.Background(), p, bad, FieldComposition{strategy.KindChalk: 3})
	assert.ErrorIs(t, err, models.ErrInvalidConfidence)
}

func TestRunAllSorted(t *testing.T) {
	sim := NewSimulator(testConfig(300, 6), nil)
	p := models.ProbabilityVector{0.8, 0.55, 0.65, 0.52, 0.75, 0.6}
	custom := strategy.NewCustom(models.Entry{
		Picks:      []bool{true, false, true, true, true, false},
		Confidence: []int{6, 1, 4, 2, 5, 3},
	})

	summaries, err := sim.RunAll(context.Background(), p, FieldComposition{strategy.KindChalk: 3, strategy.KindSlightContrarian: 2}, custom)
	require.NoError(t, err)
	require.Len(t, summaries, 5)

	for i := 1; i < len(summaries); i++ {
		assert.GreaterOrEqual(t, summaries[i-1].ExpectedTotal, summaries[i].ExpectedTotal)
	}
}

func TestParseFieldAndPlayers(t *testing.T) {
	field, err := ParseField(map[string]int{"chalk-maxpoints": 2, "slight": 1})
	require.NoError(t, err)
	assert.Equal(t, 3, field.Size())

	players, err := field.Players()
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, strategy.KindChalk, players[0].Kind())
	assert.Equal(t, strategy.KindSlightContrarian, players[2].Kind())

	_, err = ParseField(map[string]int{"martingale": 1})
	assert.Error(t, err)

	assert.Equal(t, 31, DefaultField().Size())
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Pool: config.PoolConfig{
			LeagueSize:  4,
			WinsBonus:   5,
			PointsBonus: 10,
			BonusPolicy: "split",
		},
		Simulation: config.SimulationConfig{
			Trials: 100,
			Seed:   9,
			Field:  map[string]int{"chalk": 3},
		},
	}

	sc, field, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, scoring.SplitAmongTied, sc.Scoring.Policy)
	assert.Equal(t, 3, field[strategy.KindChalk])

	cfg.Pool.LeagueSize = 10
	_, _, err = FromConfig(cfg)
	assert.Error(t, err)
}

func TestSummarizePercentilesInterpolateBetweenRanks(t *testing.T) {
	records := []trialRecord{{total: 4}, {total: 1}, {total: 3}, {total: 2}}

	s := summarize("Chalk-MaxPoints", records, scoring.DefaultConfig())
	assert.InDelta(t, 1.3, s.P10, 1e-9)
	assert.InDelta(t, 2.5, s.P50, 1e-9)
	assert.InDelta(t, 3.7, s.P90, 1e-9)
	assert.InDelta(t, 2.5, s.ExpectedTotal, 1e-9)
}

func TestPercentileEdges(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []float64{7}, 0.9, 7},
		{"odd median", []float64{1, 5, 9}, 0.5, 5},
		{"max", []float64{1, 2, 3}, 1, 3},
		{"min", []float64{1, 2, 3}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentile(tt.sorted, tt.p), 1e-9)
		})
	}
}
