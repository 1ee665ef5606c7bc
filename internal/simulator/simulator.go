// Package simulator runs Monte Carlo weeks to estimate how a picking strategy
// scores against a field of opponents under the pool's bonus rules.
package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/scoring"
	"github.com/yourusername/pool-edge/internal/strategy"
)

const cancelCheckInterval = 256

// Simulator scores a target strategy against a simulated field.
type Simulator struct {
	cfg    Config
	kernel *scoring.Kernel
	logger *logger.EngineLogger
}

// NewSimulator creates a simulator. A non-positive worker count uses every CPU.
func NewSimulator(cfg Config, log *logrus.Logger) *Simulator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Simulator{
		cfg:    cfg,
		kernel: scoring.NewKernel(cfg.Scoring),
		logger: logger.NewEngineLogger(log),
	}
}

// trialRecord is what one simulated week contributes for the target.
type trialRecord struct {
	wins        int
	base        int
	total       float64
	winsBonus   bool
	pointsBonus bool
}

// Run simulates cfg.Trials weeks with the target in seat zero and field in
// the remaining seats.
func (s *Simulator) Run(ctx context.Context, p models.ProbabilityVector, target strategy.Strategy, field FieldComposition) (*Summary, error) {
	start := time.Now()
	summary, err := s.run(ctx, p, target, field)

	status := "success"
	switch {
	case err == ctx.Err() && err != nil:
		status = "cancelled"
	case err != nil:
		status = "failure"
	}
	trials := 0
	if summary != nil {
		trials = summary.Trials
	}
	name := "unknown"
	if target != nil {
		name = target.Name()
	}
	metrics.RecordSimulationRun(name, status, trials, time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	s.logger.LogSimulationCompleted(summary.Strategy, summary.Trials, len(p), summary.ExpectedTotal,
		summary.PWinsBonus, summary.PPointsBonus, float64(time.Since(start).Milliseconds()))
	return summary, nil
}

func (s *Simulator) run(ctx context.Context, p models.ProbabilityVector, target strategy.Strategy, field FieldComposition) (*Summary, error) {
	if target == nil {
		return nil, fmt.Errorf("target strategy is required")
	}
	if len(p) == 0 {
		return nil, models.ErrNoGames
	}
	if err := s.cfg.Validate(field); err != nil {
		return nil, err
	}
	opponents, err := field.Players()
	if err != nil {
		return nil, err
	}
	// a custom card of the wrong shape fails here rather than inside a worker
	if _, err := strategy.Apply(target, p, rand.New(rand.NewSource(s.seed()))); err != nil {
		return nil, err
	}

	records := make([]trialRecord, s.cfg.Trials)
	workers := min(s.cfg.Workers, s.cfg.Trials)
	chunk := s.cfg.Trials / workers
	extra := s.cfg.Trials % workers
	seed := s.seed()

	g, gctx := errgroup.WithContext(ctx)
	offset := 0
	for w := 0; w < workers; w++ {
		n := chunk
		if w < extra {
			n++
		}
		part := records[offset : offset+n]
		offset += n
		outcomeRNG := rand.New(rand.NewSource(seed + int64(2*w)))
		strategyRNG := rand.New(rand.NewSource(seed + int64(2*w+1)))

		g.Go(func() error {
			return s.simulateChunk(gctx, p, target, opponents, part, outcomeRNG, strategyRNG)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(target.Name(), records, s.cfg.Scoring), nil
}

func (s *Simulator) seed() int64 {
	if s.cfg.Seed != 0 {
		return s.cfg.Seed
	}
	return time.Now().UnixNano()
}

// simulateChunk fills out with independent weeks. Opponent order is shuffled
// per trial and every strategy gets fresh randomness from strategyRNG.
func (s *Simulator) simulateChunk(ctx context.Context, p models.ProbabilityVector, target strategy.Strategy, opponents []strategy.Strategy,
	out []trialRecord, outcomeRNG, strategyRNG *rand.Rand) error {
	field := append([]strategy.Strategy(nil), opponents...)
	outcomes := make([]bool, len(p))
	entries := make([]models.Entry, len(field)+1)
	scored := make([]scoring.ScoredPlayer, len(field)+1)

	for t := range out {
		if t%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		for g := range p {
			outcomes[g] = outcomeRNG.Float64() < p[g]
		}
		strategyRNG.Shuffle(len(field), func(i, j int) { field[i], field[j] = field[j], field[i] })

		entries[0] = target.Evaluate(p, strategyRNG)
		for j, opp := range field {
			entries[j+1] = opp.Evaluate(p, strategyRNG)
		}
		s.kernel.ScoreInto(scored, outcomes, entries)

		me := scored[0]
		out[t] = trialRecord{
			wins:        me.Wins,
			base:        me.BasePoints,
			total:       me.Total,
			winsBonus:   me.GotWinsBonus,
			pointsBonus: me.GotPointsBonus,
		}
	}
	return nil
}

// RunAll simulates every built-in strategy, plus custom when non-nil, against
// the same field and returns the summaries by expected total, best first.
func (s *Simulator) RunAll(ctx context.Context, p models.ProbabilityVector, field FieldComposition, custom strategy.Strategy) ([]*Summary, error) {
	targets := strategy.Builtins()
	if custom != nil {
		targets = append(targets, custom)
	}

	summaries := make([]*Summary, 0, len(targets))
	for _, target := range targets {
		summary, err := s.Run(ctx, p, target, field)
		if err != nil {
			return nil, fmt.Errorf("simulate %s: %w", target.Name(), err)
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].ExpectedTotal > summaries[j].ExpectedTotal
	})
	return summaries, nil
}
