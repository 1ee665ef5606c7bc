// Package service orchestrates the engine: it loads odds and standings,
// runs the simulator and analyzer, and exports the results.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/datasource"
	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/odds"
	"github.com/yourusername/pool-edge/internal/picks"
	"github.com/yourusername/pool-edge/internal/report"
	"github.com/yourusername/pool-edge/internal/repository"
	"github.com/yourusername/pool-edge/internal/simulator"
	"github.com/yourusername/pool-edge/internal/strategy"
)

// SlateResult is a week's slate and where it came from.
type SlateResult struct {
	Slate     models.Slate
	Source    string
	Synthetic bool
	Warnings  []string
}

// SimulationRequest asks for one week's strategy comparison. Picks, when
// present, are team names from most to least confident.
type SimulationRequest struct {
	Week  int
	Picks []string
	Label string
}

// SimulationOutcome is everything produced by a simulation run.
type SimulationOutcome struct {
	Slate        SlateResult
	Summaries    []*simulator.Summary
	Entries      map[string]models.Entry
	UserEntry    *models.Entry
	UserAnalysis *picks.Analysis
	Field        simulator.FieldComposition
	FieldSource  string
	Profiles     []simulator.PlayerProfile
	Files        []string
}

// SimulationService runs the weekly strategy comparison
type SimulationService struct {
	cfg        *config.Config
	source     datasource.OddsSource
	aggregator *odds.Aggregator
	results    repository.SimulationResultRepository
	standings  repository.StandingsRepository
	logger     *logrus.Logger
	now        func() time.Time
}

// NewSimulationService creates a simulation service. source and results may
// be nil: without a source the synthetic slate is used, and without results
// nothing is persisted.
func NewSimulationService(
	cfg *config.Config,
	source datasource.OddsSource,
	results repository.SimulationResultRepository,
	log *logrus.Logger,
) *SimulationService {
	log = logger.OrDiscard(log)
	return &SimulationService{
		cfg:    cfg,
		source: source,
		aggregator: odds.NewAggregator(odds.AggregatorConfig{
			SharpBooks:  cfg.Pool.SharpBooks,
			SharpWeight: cfg.Pool.SharpWeight,
		}, log),
		results: results,
		logger:  log,
		now:     time.Now,
	}
}

// WithStandings gives the service past picks to classify the field from
// when simulation.field_source is "history".
func (s *SimulationService) WithStandings(standings repository.StandingsRepository) *SimulationService {
	s.standings = standings
	return s
}

// CurrentWeek returns the season week for today
func (s *SimulationService) CurrentWeek() int {
	start, err := s.cfg.SeasonStartDate()
	if err != nil {
		return 1
	}
	return odds.CurrentWeek(start, s.now())
}

// LoadSlate builds the week's slate from the odds source, falling back to the
// synthetic slate when the source is missing, fails or has no usable games.
func (s *SimulationService) LoadSlate(ctx context.Context, week int) (SlateResult, error) {
	if s.source != nil {
		from, to := s.window(week)
		quotes, err := s.source.FetchQuotes(ctx, from, to)
		if err == nil {
			slate, buildErr := s.aggregator.BuildSlate(week, quotes)
			if buildErr == nil {
				return s.checked(SlateResult{Slate: slate, Source: s.source.Name()})
			}
			err = buildErr
		}
		if ctx.Err() != nil {
			return SlateResult{}, ctx.Err()
		}
		s.logger.WithError(err).WithField("source", s.source.Name()).Warn("Odds unavailable, using synthetic slate")
	}

	slate := odds.SyntheticSlate(week, s.cfg.Simulation.FallbackNumGames, s.cfg.Simulation.FallbackSeed)
	return s.checked(SlateResult{Slate: slate, Source: "synthetic", Synthetic: true})
}

// window is the odds window of week. Without a usable season start it falls
// back to the current wall-clock week.
func (s *SimulationService) window(week int) (time.Time, time.Time) {
	start, err := s.cfg.SeasonStartDate()
	if err != nil || week < 1 {
		return odds.WeekWindow(s.now())
	}
	if current := odds.CurrentWeek(start, s.now()); current != week {
		s.logger.WithFields(logrus.Fields{
			"week":         week,
			"current_week": current,
		}).Warn("Requested week is not the current week; odds may have moved or not be posted yet")
	}
	return odds.SeasonWeekWindow(start, week)
}

func (s *SimulationService) checked(res SlateResult) (SlateResult, error) {
	warnings, err := odds.ValidateSlate(res.Slate, s.cfg.Pool.SlateMinGames, s.cfg.Pool.SlateMaxGames)
	if err != nil {
		return res, err
	}
	el := logger.NewEngineLogger(s.logger)
	for _, w := range warnings {
		el.LogSlateWarning(res.Slate.Week, w)
	}
	res.Warnings = warnings
	return res, nil
}

// Run loads the slate, simulates every strategy and exports the results
func (s *SimulationService) Run(ctx context.Context, req SimulationRequest) (*SimulationOutcome, error) {
	simCfg, field, err := simulator.FromConfig(s.cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	slate, err := s.LoadSlate(ctx, req.Week)
	if err != nil {
		return nil, err
	}
	outcome := &SimulationOutcome{Slate: slate, Entries: make(map[string]models.Entry), FieldSource: "configured"}

	if s.cfg.FieldFromHistory() {
		observed, profiles, err := s.HistoricalField(ctx, slate.Slate.Week, simCfg.LeagueSize-1)
		switch {
		case err == nil:
			field = observed
			outcome.FieldSource = "history"
			outcome.Profiles = profiles
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			s.logger.WithError(err).Warn("Historical field unavailable, using configured field")
		}
	}
	outcome.Field = field

	var custom strategy.Strategy
	if len(req.Picks) > 0 {
		entry, _, err := picks.Parse(req.Picks, slate.Slate)
		if err != nil {
			return nil, err
		}
		analysis := picks.Analyze(entry, slate.Slate)
		outcome.UserEntry = &entry
		outcome.UserAnalysis = &analysis
		custom = strategy.NewCustom(entry).WithLabel(req.Label)
	}

	sim := simulator.NewSimulator(simCfg, s.logger)
	p := slate.Slate.Probabilities()
	outcome.Summaries, err = sim.RunAll(ctx, p, field, custom)
	if err != nil {
		return nil, err
	}

	targets := strategy.Builtins()
	if custom != nil {
		targets = append(targets, custom)
	}
	rng := rand.New(rand.NewSource(simCfg.Seed))
	for _, target := range targets {
		entry, err := strategy.Apply(target, p, rng)
		if err != nil {
			return nil, err
		}
		outcome.Entries[target.Kind().Code()] = entry
	}

	if err := s.export(slate.Slate, targets, outcome); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, slate.Slate.Week, outcome.Summaries); err != nil {
		s.logger.WithError(err).Warn("Failed to persist simulation results")
	}
	return outcome, nil
}

// HistoricalField classifies every opponent from the picks of the weeks
// before week (the last simulation.history_weeks of them, or all when zero)
// and scales the observed mix to opponents players.
func (s *SimulationService) HistoricalField(ctx context.Context, week, opponents int) (simulator.FieldComposition, []simulator.PlayerProfile, error) {
	if s.standings == nil {
		return nil, nil, errors.New("no standings repository configured")
	}
	first := 1
	if n := s.cfg.Simulation.HistoryWeeks; n > 0 {
		first = max(1, week-n)
	}

	var rows []models.PlayerPick
	for w := first; w < week; w++ {
		weekRows, err := s.standings.GetWeekPicks(ctx, s.cfg.Pool.Season, w)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, nil, fmt.Errorf("load week %d picks: %w", w, err)
		}
		rows = append(rows, weekRows...)
	}

	observed, profiles := simulator.FieldFromHistory(rows, s.cfg.Pool.UserName)
	field, err := observed.Scale(opponents)
	if err != nil {
		return nil, nil, fmt.Errorf("no picks before week %d: %w", week, err)
	}
	s.logger.WithFields(logrus.Fields{
		"week":      week,
		"from_week": first,
		"players":   len(profiles),
		"observed":  observed.Names(),
		"field":     field.Names(),
	}).Info("Classified field from past picks")
	return field, profiles, nil
}

func (s *SimulationService) export(slate models.Slate, targets []strategy.Strategy, outcome *SimulationOutcome) error {
	dir := s.cfg.Output.Directory
	if s.cfg.Output.ExportCSV {
		path := filepath.Join(dir, report.SummaryCSVName(slate.Week))
		if err := report.WriteSummaryCSV(path, outcome.Summaries); err != nil {
			return fmt.Errorf("failed to export summary: %w", err)
		}
		outcome.Files = append(outcome.Files, path)
	}
	if !s.cfg.Output.ExportPredictions {
		return nil
	}
	now := s.now()
	for _, target := range targets {
		code := target.Kind().Code()
		pred, err := report.BuildPredictions(target.Name(), slate, outcome.Entries[code], now)
		if err != nil {
			return err
		}
		path, err := report.SavePredictions(dir, code, pred)
		if err != nil {
			return err
		}
		outcome.Files = append(outcome.Files, path)
	}
	s.logger.WithFields(logrus.Fields{
		"week":  slate.Week,
		"files": len(outcome.Files),
		"dir":   dir,
	}).Info("Exported simulation results")
	return nil
}

func (s *SimulationService) persist(ctx context.Context, week int, summaries []*simulator.Summary) error {
	if s.results == nil {
		return nil
	}
	results := make([]*models.SimulationResult, 0, len(summaries))
	for _, sum := range summaries {
		full, err := json.Marshal(sum)
		if err != nil {
			return fmt.Errorf("encode %s: %w", sum.Strategy, err)
		}
		results = append(results, &models.SimulationResult{
			Season:              s.cfg.Pool.Season,
			Week:                week,
			Strategy:            sum.Strategy,
			Trials:              sum.Trials,
			ExpectedTotalPoints: sum.ExpectedTotal,
			ExpectedWins:        sum.ExpectedWins,
			PWinsBonus:          sum.PWinsBonus,
			PPointsBonus:        sum.PPointsBonus,
			StdDevTotalPoints:   sum.StdDevTotal,
			FullResults:         full,
		})
	}
	if err := s.results.SaveAll(ctx, results); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"week": week, "results": len(results)}).Debug("Persisted simulation results")
	return nil
}
