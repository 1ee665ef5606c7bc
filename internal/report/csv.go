package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yourusername/pool-edge/internal/simulator"
)

var summaryHeader = []string{
	"strategy", "expected_base_points", "expected_wins",
	"P(get_Most_Wins_bonus)", "P(get_Most_Points_bonus)", "expected_bonus_points",
	"expected_total_points", "stdev_total_points",
	"p10_total_points", "p50_total_points", "p90_total_points",
}

// SummaryCSVName is the file name of a week's strategy summary
func SummaryCSVName(week int) string {
	return fmt.Sprintf("week_%d_strategy_summary.csv", week)
}

// WriteSummaryCSV exports strategy summaries for spreadsheets
func WriteSummaryCSV(path string, summaries []*simulator.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	for _, s := range summaries {
		row := []string{
			s.Strategy, num(s.ExpectedBasePoints), num(s.ExpectedWins),
			num(s.PWinsBonus), num(s.PPointsBonus), num(s.ExpectedBonusPoints),
			num(s.ExpectedTotal), num(s.StdDevTotal),
			num(s.P10), num(s.P50), num(s.P90),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
