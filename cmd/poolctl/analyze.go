package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/report"
	"github.com/yourusername/pool-edge/internal/service"
)

var (
	playerName        string
	detailed          bool
	allowOverCapacity bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&playerName, "player", "p", "", "Player to analyze (default: pool.user_name)")
	analyzeCmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Include the must-win breakdown and sample winning combinations")
	analyzeCmd.Flags().BoolVar(&allowOverCapacity, "force", false, "Enumerate even above scenario.max_pending_games")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Enumerate the remaining games to find a player's chance of winning the week",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		player := playerName
		if player == "" {
			player = cfg.Pool.UserName
		}
		if player == "" {
			return fmt.Errorf("--player is required when pool.user_name is not set")
		}

		if err := setupRepositories(ctx); err != nil {
			return err
		}
		svc := service.NewScenarioService(cfg, repos.Standings, log)

		r, err := svc.Analyze(ctx, service.AnalyzeRequest{
			Week:              week,
			Player:            player,
			Detailed:          detailed,
			AllowOverCapacity: allowOverCapacity,
		})
		var capErr *models.CapacityError
		if errors.As(err, &capErr) {
			return fmt.Errorf("%w (rerun with --force to enumerate anyway)", err)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(r)
		}
		fmt.Print(report.ScenarioReport(r))
		return nil
	},
}
