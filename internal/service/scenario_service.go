package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/report"
	"github.com/yourusername/pool-edge/internal/repository"
	"github.com/yourusername/pool-edge/internal/scenario"
)

// AnalyzeRequest asks for one player's win scenarios. Week 0 means the
// latest week with picks.
type AnalyzeRequest struct {
	Week              int
	Player            string
	Detailed          bool
	AllowOverCapacity bool
}

// ScenarioService answers "what has to happen for me to win this week"
type ScenarioService struct {
	cfg       *config.Config
	standings repository.StandingsRepository
	analyzer  *scenario.Analyzer
	logger    *logrus.Logger
}

// NewScenarioService creates a scenario service
func NewScenarioService(cfg *config.Config, standings repository.StandingsRepository, log *logrus.Logger) *ScenarioService {
	log = logger.OrDiscard(log)
	return &ScenarioService{
		cfg:       cfg,
		standings: standings,
		analyzer:  scenario.NewAnalyzer(scenario.FromConfig(&cfg.Scenario), log),
		logger:    log,
	}
}

// ResolveWeek maps week 0 to the latest week with picks.
func (s *ScenarioService) ResolveWeek(ctx context.Context, week int) (int, error) {
	if week > 0 {
		return week, nil
	}
	latest, err := s.standings.GetLatestWeek(ctx, s.cfg.Pool.Season)
	if err != nil {
		return 0, fmt.Errorf("failed to find latest week: %w", err)
	}
	return latest, nil
}

// LoadStandings fetches the week's picks and builds standings from them
func (s *ScenarioService) LoadStandings(ctx context.Context, week int) (models.Standings, error) {
	rows, err := s.standings.GetWeekPicks(ctx, s.cfg.Pool.Season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load week %d picks: %w", week, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("week %d of season %d: %w", week, s.cfg.Pool.Season, models.ErrNotFound)
	}
	return models.BuildStandings(rows), nil
}

// options reads game probabilities from the latest chalk predictions when
// enabled. Missing predictions leave every game at 50/50.
func (s *ScenarioService) options(week int) scenario.Options {
	opts := scenario.Options{UseProbabilities: s.cfg.Scenario.UseProbabilities}
	if !opts.UseProbabilities {
		return opts
	}
	probs, source, err := report.LoadGameProbabilities(s.cfg.Output.Directory, week)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load game probabilities, assuming 50/50")
		return opts
	}
	if source == "" {
		s.logger.WithField("week", week).Info("No predictions file found, assuming 50/50")
		return opts
	}
	s.logger.WithFields(logrus.Fields{"week": week, "file": source}).Debug("Loaded game probabilities")
	opts.Probabilities = probs
	return opts
}

// Analyze runs the exact scenario analysis for one player
func (s *ScenarioService) Analyze(ctx context.Context, req AnalyzeRequest) (*scenario.Report, error) {
	week, err := s.ResolveWeek(ctx, req.Week)
	if err != nil {
		return nil, err
	}
	standings, err := s.LoadStandings(ctx, week)
	if err != nil {
		return nil, err
	}

	opts := s.options(week)
	opts.Detailed = req.Detailed
	opts.AllowOverCapacity = req.AllowOverCapacity

	r, err := s.analyzer.Analyze(ctx, standings, req.Player, opts)
	if err != nil {
		return nil, err
	}
	r.Week = week
	r.Season = s.cfg.Pool.Season
	metrics.UpdatePlayerWinProbability(r.Player, r.WinProbability)
	return r, nil
}

// Leaderboard ranks every player for the week and publishes each player's
// win probability gauge.
func (s *ScenarioService) Leaderboard(ctx context.Context, week int) (*scenario.Leaderboard, error) {
	week, err := s.ResolveWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	standings, err := s.LoadStandings(ctx, week)
	if err != nil {
		return nil, err
	}

	board, err := s.analyzer.Leaderboard(ctx, standings, s.options(week))
	if err != nil {
		return nil, err
	}
	board.Week = week
	board.Season = s.cfg.Pool.Season
	for _, e := range board.Entries {
		metrics.UpdatePlayerWinProbability(e.Player, e.WinProbability)
	}

	s.logger.WithFields(logrus.Fields{
		"week":          week,
		"players":       board.TotalPlayers,
		"pending_games": board.PendingGames,
	}).Info("Leaderboard refreshed")
	return board, nil
}
