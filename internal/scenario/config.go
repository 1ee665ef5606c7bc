package scenario

import (
	"runtime"

	"github.com/yourusername/pool-edge/internal/config"
)

// HardMaxPendingGames is the most games a 64-bit scenario mask can enumerate
// with room for the scenario count.
const HardMaxPendingGames = 62

// Config bounds the exact enumeration.
type Config struct {
	MaxPendingGames  int
	WarnPendingGames int
	Workers          int
	CombinationLimit int
}

// DefaultConfig allows up to 24 pending games and warns above 20.
func DefaultConfig() Config {
	return Config{
		MaxPendingGames:  24,
		WarnPendingGames: 20,
		Workers:          runtime.NumCPU(),
		CombinationLimit: 20,
	}
}

// FromConfig converts app config to analyzer config
func FromConfig(cfg *config.ScenarioConfig) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if cfg.MaxPendingGames > 0 {
		c.MaxPendingGames = cfg.MaxPendingGames
	}
	if cfg.WarnPendingGames > 0 {
		c.WarnPendingGames = cfg.WarnPendingGames
	}
	if cfg.Workers > 0 {
		c.Workers = cfg.Workers
	}
	c.CombinationLimit = cfg.CombinationLimit
	return c
}
