package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/pool-edge/internal/report"
	"github.com/yourusername/pool-edge/internal/service"
)

var slateCmd = &cobra.Command{
	Use:   "slate",
	Short: "Show the week's games with consensus fair probabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		svc := service.NewSimulationService(cfg, oddsSource(), nil, log)
		w := week
		if w == 0 {
			w = svc.CurrentWeek()
		}
		res, err := svc.LoadSlate(ctx, w)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res.Slate)
		}

		fmt.Print(report.SlateTable(res.Slate))
		if res.Synthetic {
			fmt.Println("\nNo odds available: showing a synthetic slate.")
		}
		for _, warning := range res.Warnings {
			fmt.Printf("warning: %s\n", warning)
		}
		return nil
	},
}
