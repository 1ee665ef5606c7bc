package simulator

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/scoring"
	"github.com/yourusername/pool-edge/internal/strategy"
)

// Config configures a strategy simulation.
type Config struct {
	Trials     int
	LeagueSize int
	Workers    int
	Seed       int64
	Scoring    scoring.Config
}

// DefaultConfig returns a 32-player league with 20,000 trials.
func DefaultConfig() Config {
	return Config{
		Trials:     20000,
		LeagueSize: 32,
		Workers:    runtime.NumCPU(),
		Scoring:    scoring.DefaultConfig(),
	}
}

// FromConfig converts app config to simulator config
func FromConfig(cfg *config.Config) (Config, FieldComposition, error) {
	if cfg == nil {
		return Config{}, nil, fmt.Errorf("config is required")
	}
	policy, err := scoring.ParseBonusPolicy(cfg.Pool.BonusPolicy)
	if err != nil {
		return Config{}, nil, err
	}
	field, err := ParseField(cfg.Simulation.Field)
	if err != nil {
		return Config{}, nil, err
	}

	sc := Config{
		Trials:     cfg.Simulation.Trials,
		LeagueSize: cfg.Pool.LeagueSize,
		Workers:    cfg.Simulation.Workers,
		Seed:       cfg.Simulation.Seed,
		Scoring: scoring.Config{
			WinsBonus:   cfg.Pool.WinsBonus,
			PointsBonus: cfg.Pool.PointsBonus,
			Policy:      policy,
		},
	}
	return sc, field, sc.Validate(field)
}

// Validate validates simulation parameters against a field.
func (c Config) Validate(field FieldComposition) error {
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive")
	}
	if c.LeagueSize < 2 {
		return fmt.Errorf("league size must be at least 2")
	}
	if field.Size() == 0 {
		return models.ErrEmptyField
	}
	if field.Size() != c.LeagueSize-1 {
		return fmt.Errorf("field has %d players, league of %d needs %d", field.Size(), c.LeagueSize, c.LeagueSize-1)
	}
	return nil
}

// FieldComposition is the number of opponents playing each strategy.
type FieldComposition map[strategy.Kind]int

// DefaultField is the assumed mix of a 32-player league.
func DefaultField() FieldComposition {
	return FieldComposition{
		strategy.KindChalk:                16,
		strategy.KindSlightContrarian:     10,
		strategy.KindAggressiveContrarian: 5,
	}
}

// ParseField converts strategy names or codes to a composition.
func ParseField(raw map[string]int) (FieldComposition, error) {
	field := make(FieldComposition, len(raw))
	for name, count := range raw {
		kind, err := strategy.ParseKind(name)
		if err != nil {
			return nil, err
		}
		if count < 0 {
			return nil, fmt.Errorf("negative count for %s", kind)
		}
		field[kind] += count
	}
	return field, nil
}

// Size returns the number of opponents.
func (f FieldComposition) Size() int {
	n := 0
	for _, count := range f {
		n += count
	}
	return n
}

// Names keys the composition by strategy display name.
func (f FieldComposition) Names() map[string]int {
	names := make(map[string]int, len(f))
	for k, count := range f {
		names[k.String()] = count
	}
	return names
}

// Players expands the composition into one strategy per opponent, grouped
// by kind in a fixed order.
func (f FieldComposition) Players() ([]strategy.Strategy, error) {
	kinds := make([]strategy.Kind, 0, len(f))
	for k := range f {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	players := make([]strategy.Strategy, 0, f.Size())
	for _, k := range kinds {
		if f[k] == 0 {
			continue
		}
		s, err := strategy.New(k)
		if err != nil {
			return nil, err
		}
		for i := 0; i < f[k]; i++ {
			players = append(players, s)
		}
	}
	return players, nil
}
