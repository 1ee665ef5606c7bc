package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/pool-edge/internal/picks"
	"github.com/yourusername/pool-edge/internal/report"
	"github.com/yourusername/pool-edge/internal/repository"
	"github.com/yourusername/pool-edge/internal/service"
	"github.com/yourusername/pool-edge/internal/simulator"
	"github.com/yourusername/pool-edge/internal/strategy"
)

var (
	userPicks   string
	pickLabel   string
	fieldSource string
)

func init() {
	simulateCmd.Flags().StringVarP(&userPicks, "picks", "p", "", "Your picks, most to least confident, comma or newline separated")
	simulateCmd.Flags().StringVar(&pickLabel, "label", "", "Name shown for your picks (default: pool.user_name)")
	simulateCmd.Flags().StringVar(&fieldSource, "field-source", "", "Opponent mix: configured or history (default: simulation.field_source)")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Compare picking strategies by Monte Carlo simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		switch fieldSource {
		case "":
		case "configured", "history":
			cfg.Simulation.FieldSource = fieldSource
		default:
			return fmt.Errorf("--field-source must be configured or history, got %q", fieldSource)
		}

		var results repository.SimulationResultRepository
		if cfg.UsesDatabase() || cfg.FieldFromHistory() {
			if err := setupRepositories(ctx); err != nil {
				return err
			}
			results = repos.SimulationResults
		}
		svc := service.NewSimulationService(cfg, oddsSource(), results, log)
		if cfg.FieldFromHistory() {
			svc.WithStandings(repos.Standings)
		}

		w := week
		if w == 0 {
			w = svc.CurrentWeek()
		}
		label := pickLabel
		if label == "" {
			label = cfg.Pool.UserName
		}

		outcome, err := svc.Run(ctx, service.SimulationRequest{
			Week:  w,
			Picks: picks.SplitInput(userPicks),
			Label: label,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(outcome.Summaries)
		}

		if outcome.Slate.Synthetic {
			fmt.Println("No odds available: simulating a synthetic slate.")
		}
		if len(outcome.Profiles) > 0 {
			fmt.Print(report.FieldTable(outcome.Field, outcome.Profiles))
		}
		fmt.Print(report.SimulationTable(outcome.Summaries, outcome.UserEntry != nil))

		if best, ok := bestBuiltin(outcome.Summaries); ok {
			fmt.Print(report.Recommendations(best.String(), outcome.Slate.Slate, outcome.Entries[best.Code()]))
		}
		if outcome.UserAnalysis != nil {
			fmt.Print(report.PickAnalysis(*outcome.UserAnalysis))
		}
		if len(outcome.Files) > 0 {
			fmt.Printf("\nWrote %s\n", strings.Join(outcome.Files, ", "))
		}
		return nil
	},
}

// bestBuiltin returns the highest-ranked strategy other than the user's own.
// Summaries arrive sorted best first.
func bestBuiltin(summaries []*simulator.Summary) (strategy.Kind, bool) {
	for _, s := range summaries {
		kind, err := strategy.ParseKind(s.Strategy)
		if err == nil && kind != strategy.KindCustom {
			return kind, true
		}
	}
	return 0, false
}
