// Package scenario enumerates every outcome of a week's undecided games and
// reports how often, and how likely, a player finishes alone in first.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/models"
)

// Options controls a single analysis.
type Options struct {
	Detailed          bool
	UseProbabilities  bool
	AllowOverCapacity bool
	Probabilities     GameProbabilities
}

func (o Options) weighted() bool {
	return o.UseProbabilities && len(o.Probabilities) > 0
}

func (o Options) mode() string {
	if o.Detailed {
		return "detailed"
	}
	return "summary"
}

// Analyzer runs exact scenario enumeration over standings snapshots.
type Analyzer struct {
	cfg    Config
	logger *logger.EngineLogger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(cfg Config, log *logrus.Logger) *Analyzer {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.MaxPendingGames <= 0 {
		cfg.MaxPendingGames = DefaultConfig().MaxPendingGames
	}
	cfg.MaxPendingGames = min(cfg.MaxPendingGames, HardMaxPendingGames)
	if cfg.CombinationLimit < 0 {
		cfg.CombinationLimit = 0
	}
	return &Analyzer{cfg: cfg, logger: logger.NewEngineLogger(log)}
}

// Config returns the analyzer's limits.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze computes target's chance of finishing strictly ahead of every other
// player once the pending games are decided.
func (a *Analyzer) Analyze(ctx context.Context, standings models.Standings, target string, opts Options) (*Report, error) {
	start := time.Now()
	report, err := a.analyze(ctx, standings, target, opts)

	status := "success"
	var capErr *models.CapacityError
	switch {
	case errors.As(err, &capErr):
		status = "capacity"
		metrics.RecordCapacityRejection()
	case err != nil && ctx.Err() != nil:
		status = "cancelled"
	case err != nil:
		status = "failure"
	case report.Status == StatusComplete:
		status = "terminal"
	}
	var enumerated uint64
	if report != nil {
		enumerated = report.TotalScenarios
	}
	metrics.RecordScenarioAnalysis(opts.mode(), status, enumerated, time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	a.logger.LogScenarioAnalysis(report.Player, report.PendingGames, report.TotalScenarios,
		report.WinningScenarios, report.WinProbability, opts.Detailed)
	return report, nil
}

func (a *Analyzer) analyze(ctx context.Context, standings models.Standings, target string, opts Options) (*Report, error) {
	st, ok := standings[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrPlayerNotFound, target)
	}

	games := pendingGames(standings)
	if len(games) == 0 {
		return terminalReport(standings, st), nil
	}
	if err := a.checkCapacity(target, len(games), opts.AllowOverCapacity); err != nil {
		return nil, err
	}

	probs := opts.Probabilities
	if !opts.UseProbabilities {
		probs = nil
	}
	pr := compile(standings, target, games, probs)

	t, err := pr.count(ctx, a.cfg.Workers)
	if err != nil {
		return nil, err
	}

	total := pr.scenarioCount()
	naive := float64(t.wins) / float64(total)
	report := &Report{
		Player:                 target,
		CurrentPoints:          st.LockedPoints,
		PendingGames:           len(games),
		PendingPicks:           len(pr.target.picks),
		PendingGamesFormatted:  formatPendingGames(games, pr.target),
		TotalScenarios:         total,
		WinningScenarios:       t.wins,
		NaiveWinProbability:    naive,
		NaiveWinPercentage:     FormatPercent(naive),
		WeightedWinProbability: t.weighted,
		WeightedWinPercentage:  FormatPercent(t.weighted),
		UsingProbabilities:     opts.weighted(),
		Status:                 StatusInProgress,
	}
	report.WinProbability = naive
	if report.UsingProbabilities {
		report.WinProbability = t.weighted
	}
	report.WinPercentage = FormatPercent(report.WinProbability)

	if opts.Detailed && t.wins > 0 {
		d, err := pr.detail(ctx, a.cfg.Workers, a.cfg.CombinationLimit)
		if err != nil {
			return nil, err
		}
		report.Meta = pr.classify(d)
		report.Combinations = d.combinations
		report.CombinationsNote = combinationsNote(len(d.combinations), t.wins)
	}
	return report, nil
}

// checkCapacity refuses enumerations above the configured ceiling unless the
// caller opts in. Nothing above HardMaxPendingGames is ever enumerated.
func (a *Analyzer) checkCapacity(player string, pending int, allow bool) error {
	if pending > HardMaxPendingGames {
		return &models.CapacityError{Pending: pending, Limit: HardMaxPendingGames}
	}
	if pending > a.cfg.MaxPendingGames {
		if !allow {
			a.logger.LogCapacityWarning(player, pending, a.cfg.MaxPendingGames, false)
			return &models.CapacityError{Pending: pending, Limit: a.cfg.MaxPendingGames}
		}
		a.logger.LogCapacityWarning(player, pending, a.cfg.MaxPendingGames, true)
		return nil
	}
	if a.cfg.WarnPendingGames > 0 && pending > a.cfg.WarnPendingGames {
		a.logger.LogCapacityWarning(player, pending, a.cfg.MaxPendingGames, true)
	}
	return nil
}

// terminalReport handles a week with nothing left to play.
func terminalReport(standings models.Standings, st *models.PlayerStanding) *Report {
	best := 0
	first := true
	for _, other := range standings {
		if first || other.LockedPoints > best {
			best = other.LockedPoints
			first = false
		}
	}
	var leaders []string
	for _, name := range standings.Players() {
		if standings[name].LockedPoints == best {
			leaders = append(leaders, name)
		}
	}

	wins := uint64(1)
	for name, other := range standings {
		if name != st.Player && other.LockedPoints >= st.LockedPoints {
			wins = 0
			break
		}
	}
	p := float64(wins)
	return &Report{
		Player:                 st.Player,
		CurrentPoints:          st.LockedPoints,
		TotalScenarios:         1,
		WinningScenarios:       wins,
		WinProbability:         p,
		WinPercentage:          FormatPercent(p),
		NaiveWinProbability:    p,
		NaiveWinPercentage:     FormatPercent(p),
		WeightedWinProbability: p,
		WeightedWinPercentage:  FormatPercent(p),
		Status:                 StatusComplete,
		CurrentLeaders:         leaders,
	}
}

func formatPendingGames(games []models.PendingGame, target compiledPlayer) []string {
	out := make([]string, 0, len(games))
	for g, game := range games {
		label := anyLabel(game.TeamA, game.TeamB)
		for _, r := range target.picks {
			if r.game == g {
				label = r.label
				break
			}
		}
		out = append(out, label)
	}
	return out
}
