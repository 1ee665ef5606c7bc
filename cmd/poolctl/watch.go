package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/pool-edge/internal/health"
	"github.com/yourusername/pool-edge/internal/report"
	"github.com/yourusername/pool-edge/internal/scenario"
	"github.com/yourusername/pool-edge/internal/scheduler"
	"github.com/yourusername/pool-edge/internal/service"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the leaderboard on a schedule and serve health and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		if cfg.Schedule.LeaderboardRefresh == "" {
			return fmt.Errorf("schedule.leaderboard_refresh is required for watch")
		}
		if err := setupRepositories(ctx); err != nil {
			return err
		}
		svc := service.NewScenarioService(cfg, repos.Standings, log)

		hcfg := health.Config{
			ServiceName: "poolctl",
			Version:     Version,
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			Logger:      log,
		}
		if db != nil {
			hcfg.DB = db
		}
		server := health.NewServer(hcfg)
		if err := server.Start(ctx); err != nil {
			return err
		}

		sched := scheduler.NewScheduler(svc, log)
		sched.OnRefresh(func(board *scenario.Leaderboard) {
			server.RecordRefresh(board)
			if !jsonOutput {
				fmt.Print(report.LeaderboardTable(board))
			}
		})
		if _, err := sched.ScheduleLeaderboardRefresh(cfg.Schedule.LeaderboardRefresh, week); err != nil {
			return err
		}

		if board, err := svc.Leaderboard(ctx, week); err != nil {
			log.WithError(err).Warn("Initial leaderboard refresh failed")
		} else {
			server.RecordRefresh(board)
			fmt.Print(report.LeaderboardTable(board))
		}

		if err := sched.Start(); err != nil {
			return err
		}
		server.SetReady(true)
		log.WithField("next_run", sched.GetNextRun()).Info("Watching leaderboard")

		<-ctx.Done()
		server.SetReady(false)
		return sched.Stop()
	},
}
