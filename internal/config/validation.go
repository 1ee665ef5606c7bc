package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/yourusername/pool-edge/internal/scoring"
	"github.com/yourusername/pool-edge/internal/strategy"
)

var placeholderKey = regexp.MustCompile(`(?i)test|demo|example|placeholder|your_`)

// rules are the custom tags used in Config struct tags.
var rules = map[string]validator.Func{
	"environment": oneOf("development", "staging", "production"),
	"loglevel":    oneOf("debug", "info", "warn", "error"),
	"bonuspolicy": func(fl validator.FieldLevel) bool {
		_, err := scoring.ParseBonusPolicy(fl.Field().String())
		return err == nil
	},
	// Custom-User is only ever the simulated entry, never a field opponent.
	"strategyname": func(fl validator.FieldLevel) bool {
		kind, err := strategy.ParseKind(fl.Field().String())
		return err == nil && kind != strategy.KindCustom
	},
}

var ruleMessages = map[string]string{
	"required":     "is required",
	"environment":  "must be one of: development, staging, production",
	"loglevel":     "must be one of: debug, info, warn, error",
	"bonuspolicy":  "must be one of: full, split",
	"strategyname": "has unknown strategy '%v'",
	"oneof":        "has invalid value '%v'",
	"url":          "must be a valid URL, got '%v'",
}

func oneOf(allowed ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		got := fl.Field().String()
		for _, a := range allowed {
			if got == a {
				return true
			}
		}
		return false
	}
}

// ConfigValidator runs struct-tag rules followed by cross-field checks.
type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator registers the custom rules on a fresh validator.
func NewValidator() *ConfigValidator {
	v := validator.New()
	for tag, fn := range rules {
		_ = v.RegisterValidation(tag, fn)
	}
	return &ConfigValidator{validate: v}
}

// Validate checks cfg with a fresh ConfigValidator.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate reports every failing struct tag at once; cross-field checks run
// only once the tags pass.
func (cv *ConfigValidator) Validate(cfg *Config) error {
	if err := cv.validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return describe(fieldErrs)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return checkCrossField(cfg)
}

func checkCrossField(cfg *Config) error {
	if _, err := cfg.SeasonStartDate(); err != nil {
		return fmt.Errorf("invalid pool season_start format: %w", err)
	}
	if cfg.Pool.SlateMinGames > cfg.Pool.SlateMaxGames {
		return fmt.Errorf("slate_min_games cannot exceed slate_max_games")
	}

	fieldSize := 0
	for _, count := range cfg.Simulation.Field {
		fieldSize += count
	}
	if want := cfg.Pool.LeagueSize - 1; fieldSize != want {
		return fmt.Errorf("simulation field has %d players, league_size %d requires %d",
			fieldSize, cfg.Pool.LeagueSize, want)
	}

	if cfg.Scenario.WarnPendingGames > cfg.Scenario.MaxPendingGames {
		return fmt.Errorf("warn_pending_games cannot exceed max_pending_games")
	}

	switch {
	case cfg.Pool.StandingsSource == "file" && cfg.Pool.StandingsFile == "":
		return fmt.Errorf("standings_file is required when standings_source is 'file'")
	case cfg.UsesDatabase():
		db := cfg.Database
		if db.Host == "" || db.Name == "" || db.User == "" {
			return fmt.Errorf("database host, name and user are required when standings_source is 'postgres'")
		}
		if db.MaxIdleConnections > db.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
		if cfg.IsProduction() && db.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	if cfg.Schedule.Enabled {
		if _, err := cron.ParseStandard(cfg.Schedule.LeaderboardRefresh); err != nil {
			return fmt.Errorf("invalid leaderboard_refresh schedule: %w", err)
		}
	}
	return nil
}

// describe renders one line per failing field, naming the Go struct field.
func describe(fieldErrs validator.ValidationErrors) error {
	var b strings.Builder
	for _, fe := range fieldErrs {
		msg, ok := ruleMessages[fe.Tag()]
		switch {
		case ok && strings.Contains(msg, "%v"):
			msg = fmt.Sprintf(msg, fe.Value())
		case !ok:
			msg = fmt.Sprintf("failed the %s=%s constraint", fe.Tag(), fe.Param())
		}
		fmt.Fprintf(&b, "- Field '%s' %s\n", fe.StructField(), msg)
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}

// ValidateEnvironment applies rules that depend on app.environment.
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() && placeholderKey.MatchString(cfg.OddsAPI.APIKey) {
		return fmt.Errorf("production environment should not use a placeholder odds API key")
	}
	if cfg.IsDevelopment() && cfg.Simulation.Trials > 1_000_000 {
		return fmt.Errorf("simulation trials above 1,000,000 are not allowed in development mode")
	}
	return nil
}
