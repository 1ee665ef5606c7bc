package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/database"
	"github.com/yourusername/pool-edge/internal/datasource"
	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	week       int
	jsonOutput bool

	log   *logrus.Logger
	cfg   *config.Config
	db    *database.DB
	repos *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().IntVarP(&week, "week", "w", 0, "Week number (0 = current or latest week)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(slateCmd, simulateCmd, analyzeCmd, leaderboardCmd, watchCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "poolctl",
	Short: "Confidence pool strategy simulator and win-scenario analyzer",
	Long: `poolctl turns market odds into fair win probabilities, compares weekly
confidence-pool strategies by Monte Carlo simulation, and enumerates every
outcome of the undecided games to find each player's chance of winning the week.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("poolctl %s (%s)\n", Version, GitCommit)
	},
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := config.LoadSecretsFromAWS(ctx, cfg, config.SecretsSettingsFromEnv()); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return err
	}

	log = logger.NewLoggerFor(cfg.App.LogLevel, cfg.App.Environment, os.Stderr)
	metrics.InitRegistry()
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// setupRepositories connects to postgres only when the standings live there.
func setupRepositories(ctx context.Context) error {
	if repos != nil {
		return nil
	}
	if cfg.UsesDatabase() {
		var err error
		db, err = database.Initialize(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}
	var err error
	repos, err = repository.NewRepositories(cfg, db)
	return err
}

// oddsSource returns nil when no source can be built, which makes the
// simulation fall back to the synthetic slate.
func oddsSource() datasource.OddsSource {
	source, err := datasource.NewFactory(cfg, log).NewOddsSource()
	if err != nil {
		log.WithError(err).Warn("Odds source unavailable")
		return nil
	}
	return source
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
