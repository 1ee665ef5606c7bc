package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/pool-edge/internal/report"
	"github.com/yourusername/pool-edge/internal/service"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank every player by chance of winning the week",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		if err := setupRepositories(ctx); err != nil {
			return err
		}
		board, err := service.NewScenarioService(cfg, repos.Standings, log).Leaderboard(ctx, week)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(board)
		}
		fmt.Print(report.LeaderboardTable(board))
		return nil
	},
}
