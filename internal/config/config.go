// Package config provides configuration management for the pool-edge application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	OddsAPI    OddsAPIConfig    `mapstructure:"odds_api" validate:"required"`
	Pool       PoolConfig       `mapstructure:"pool" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Scenario   ScenarioConfig   `mapstructure:"scenario" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Output     OutputConfig     `mapstructure:"output" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the standings database connection. Only required
// when the standings source is postgres.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// OddsAPIConfig represents the money-line odds source configuration
type OddsAPIConfig struct {
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	APIKey             string  `mapstructure:"api_key"`
	Sport              string  `mapstructure:"sport" validate:"required"`
	Regions            string  `mapstructure:"regions" validate:"required"`
	Markets            string  `mapstructure:"markets" validate:"required"`
	OddsFormat         string  `mapstructure:"odds_format" validate:"required,oneof=american"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts      int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	Burst              int     `mapstructure:"burst" validate:"required,gt=0"`
	CacheTTLSeconds    int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	SnapshotFile       string  `mapstructure:"snapshot_file"`
}

// PoolConfig represents the pool's rules and standings source
type PoolConfig struct {
	Season          int      `mapstructure:"season" validate:"required,gt=0"`
	SeasonStart     string   `mapstructure:"season_start" validate:"required,datetime=2006-01-02"`
	LeagueSize      int      `mapstructure:"league_size" validate:"required,gt=1"`
	WinsBonus       float64  `mapstructure:"wins_bonus" validate:"gte=0"`
	PointsBonus     float64  `mapstructure:"points_bonus" validate:"gte=0"`
	BonusPolicy     string   `mapstructure:"bonus_policy" validate:"required,bonuspolicy"`
	SlateMinGames   int      `mapstructure:"slate_min_games" validate:"required,gt=0"`
	SlateMaxGames   int      `mapstructure:"slate_max_games" validate:"required,gt=0"`
	SharpBooks      []string `mapstructure:"sharp_books"`
	SharpWeight     int      `mapstructure:"sharp_weight" validate:"required,gte=1"`
	StandingsSource string   `mapstructure:"standings_source" validate:"required,oneof=postgres file"`
	StandingsFile   string   `mapstructure:"standings_file"`
	UserName        string   `mapstructure:"user_name"`
}

// SimulationConfig represents Monte Carlo strategy simulation settings
type SimulationConfig struct {
	Trials           int            `mapstructure:"trials" validate:"required,gt=0"`
	Workers          int            `mapstructure:"workers" validate:"gte=0"`
	Seed             int64          `mapstructure:"seed"`
	Field            map[string]int `mapstructure:"field" validate:"required,min=1,dive,keys,strategyname,endkeys,gte=0"`
	FieldSource      string         `mapstructure:"field_source" validate:"omitempty,oneof=configured history"`
	HistoryWeeks     int            `mapstructure:"history_weeks" validate:"gte=0"`
	FallbackNumGames int            `mapstructure:"fallback_num_games" validate:"required,gt=0"`
	FallbackSeed     int64          `mapstructure:"fallback_seed"`
}

// ScenarioConfig represents exact win-scenario enumeration limits
type ScenarioConfig struct {
	MaxPendingGames  int  `mapstructure:"max_pending_games" validate:"required,gt=0,lte=62"`
	WarnPendingGames int  `mapstructure:"warn_pending_games" validate:"required,gt=0"`
	Workers          int  `mapstructure:"workers" validate:"gte=0"`
	CombinationLimit int  `mapstructure:"combination_limit" validate:"gte=0"`
	UseProbabilities bool `mapstructure:"use_probabilities"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig represents periodic leaderboard refresh scheduling
type ScheduleConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	LeaderboardRefresh string `mapstructure:"leaderboard_refresh"`
}

// OutputConfig represents report output settings
type OutputConfig struct {
	Directory         string `mapstructure:"directory" validate:"required"`
	ExportCSV         bool   `mapstructure:"export_csv"`
	ExportPredictions bool   `mapstructure:"export_predictions"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesDatabase reports whether standings are read from postgres.
func (c *Config) UsesDatabase() bool {
	return c.Pool.StandingsSource == "postgres"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SeasonStartDate parses pool.season_start.
func (c *Config) SeasonStartDate() (time.Time, error) {
	return time.Parse("2006-01-02", c.Pool.SeasonStart)
}

// FieldFromHistory reports whether the simulated field is classified from
// past weeks' picks instead of simulation.field.
func (c *Config) FieldFromHistory() bool {
	return c.Simulation.FieldSource == "history"
}
