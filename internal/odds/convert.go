// Package odds turns sportsbook money-line quotes into fair win probabilities
// and assembles them into a weekly slate.
package odds

import (
	"math"
	"sort"
)

// AmericanToImplied converts an American money line to its implied probability.
// Negative odds: -ml / (-ml + 100); positive odds: 100 / (ml + 100).
func AmericanToImplied(ml int) float64 {
	if ml < 0 {
		return float64(-ml) / float64(-ml+100)
	}
	return 100 / float64(ml+100)
}

// DevigTwoWay normalizes a two-outcome implied probability pair so it sums to 1.
// ok is false when the pair is degenerate and must not contribute.
func DevigTwoWay(pA, pB float64) (float64, float64, bool) {
	if !isFinite(pA) || !isFinite(pB) {
		return 0, 0, false
	}
	total := pA + pB
	if total <= 0 {
		return 0, 0, false
	}
	return pA / total, pB / total, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
