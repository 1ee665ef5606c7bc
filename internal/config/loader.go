package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "config/config.yaml"
	envPrefix         = "POOL_EDGE"
)

// defaults mirrors the values the engine ran with before it was configurable.
var defaults = map[string]interface{}{
	"app.environment":                "development",
	"app.log_level":                  "info",
	"metrics.enabled":                true,
	"metrics.port":                   9090,
	"metrics.path":                   "/metrics",
	"odds_api.base_url":              "https://api.the-odds-api.com/v4",
	"odds_api.sport":                 "americanfootball_nfl",
	"odds_api.regions":               "us",
	"odds_api.markets":               "h2h",
	"odds_api.odds_format":           "american",
	"odds_api.timeout_seconds":       20,
	"odds_api.retry_attempts":        3,
	"odds_api.rate_limit_per_second": 1.0,
	"odds_api.burst":                 1,
	"odds_api.cache_ttl_seconds":     600,
	"pool.league_size":               32,
	"pool.wins_bonus":                5.0,
	"pool.points_bonus":              10.0,
	"pool.bonus_policy":              "full",
	"pool.slate_min_games":           12,
	"pool.slate_max_games":           18,
	"pool.sharp_books":               []string{"Pinnacle", "Circa"},
	"pool.sharp_weight":              2,
	"pool.standings_source":          "file",
	"simulation.trials":              20000,
	"simulation.field": map[string]int{
		"Chalk-MaxPoints":       16,
		"Slight-Contrarian":     10,
		"Aggressive-Contrarian": 5,
	},
	"simulation.field_source":       "configured",
	"simulation.history_weeks":      0,
	"simulation.fallback_num_games": 16,
	"simulation.fallback_seed":      42,
	"scenario.max_pending_games":    24,
	"scenario.warn_pending_games":   20,
	"scenario.combination_limit":    20,
	"scenario.use_probabilities":    true,
	"schedule.leaderboard_refresh":  "*/15 * * * *",
	"output.directory":              "out",
	"output.export_csv":             true,
	"output.export_predictions":     true,
}

// newViper returns a YAML viper instance bound to POOL_EDGE_* variables,
// e.g. POOL_EDGE_POOL_LEAGUE_SIZE overrides pool.league_size.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// readExpanded feeds the file at path into v after ${VAR} expansion.
func readExpanded(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := v.ReadConfig(bytes.NewReader([]byte(os.ExpandEnv(string(data))))); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// Load reads the YAML file at configPath strictly: the file must exist and
// no defaults are applied. ${VAR} placeholders are expanded from the
// environment before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	if err := readExpanded(v, configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, err
	}
	return decode(v)
}

// LoadWithDefaults is Load with the built-in defaults underneath. A missing
// file is not an error; defaults and environment variables are used instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := readExpanded(v, configPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return decode(v)
}
