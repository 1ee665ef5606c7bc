package simulator

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/pool-edge/internal/scoring"
)

// Summary describes the target's score distribution over all trials.
type Summary struct {
	Strategy            string  `json:"strategy"`
	Trials              int     `json:"trials"`
	ExpectedBasePoints  float64 `json:"expected_base_points"`
	ExpectedWins        float64 `json:"expected_wins"`
	PWinsBonus          float64 `json:"p_wins_bonus"`
	PPointsBonus        float64 `json:"p_points_bonus"`
	ExpectedBonusPoints float64 `json:"expected_bonus_points"`
	ExpectedTotal       float64 `json:"expected_total_points"`
	StdDevTotal         float64 `json:"stdev_total_points"`
	P10                 float64 `json:"p10_total_points"`
	P50                 float64 `json:"p50_total_points"`
	P90                 float64 `json:"p90_total_points"`
	PWinsBonusPct       string  `json:"p_wins_bonus_pct"`
	PPointsBonusPct     string  `json:"p_points_bonus_pct"`
}

func summarize(name string, records []trialRecord, rules scoring.Config) *Summary {
	n := len(records)
	totals := make([]float64, n)
	wins := make([]float64, n)
	base := make([]float64, n)
	winsBonus := make([]float64, n)
	pointsBonus := make([]float64, n)
	for i, r := range records {
		totals[i] = r.total
		wins[i] = float64(r.wins)
		base[i] = float64(r.base)
		winsBonus[i] = indicator(r.winsBonus)
		pointsBonus[i] = indicator(r.pointsBonus)
	}

	pWins := stat.Mean(winsBonus, nil)
	pPoints := stat.Mean(pointsBonus, nil)

	summary := &Summary{
		Strategy:            name,
		Trials:              n,
		ExpectedBasePoints:  stat.Mean(base, nil),
		ExpectedWins:        stat.Mean(wins, nil),
		PWinsBonus:          pWins,
		PPointsBonus:        pPoints,
		ExpectedBonusPoints: rules.WinsBonus*pWins + rules.PointsBonus*pPoints,
		ExpectedTotal:       stat.Mean(totals, nil),
		PWinsBonusPct:       formatPercent(pWins),
		PPointsBonusPct:     formatPercent(pPoints),
	}
	if n > 1 {
		summary.StdDevTotal = stat.StdDev(totals, nil)
	}

	sort.Float64s(totals)
	summary.P10 = percentile(totals, 0.10)
	summary.P50 = percentile(totals, 0.50)
	summary.P90 = percentile(totals, 0.90)
	return summary
}

// percentile interpolates linearly between the sorted values at ranks
// floor(h) and ceil(h), h = (n-1)p. The median of an even sample is the
// mean of the middle pair.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := min(lo+1, n-1)
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}
