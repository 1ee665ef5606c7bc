package strategy

import (
	"math"
	"math/rand"
	"sort"

	"github.com/yourusername/pool-edge/internal/models"
)

// BaseStrategy provides the shared ranking and contrarian selection helpers.
type BaseStrategy struct {
	CoinflipMargin float64
	ModerateMin    float64
	ModerateMax    float64
}

// DefaultBase returns the standard game classification bands.
func DefaultBase() BaseStrategy {
	return BaseStrategy{
		CoinflipMargin: 0.06,
		ModerateMin:    0.58,
		ModerateMax:    0.66,
	}
}

// IsCoinflip reports |p - 0.5| <= margin.
func (b BaseStrategy) IsCoinflip(p float64) bool {
	return math.Abs(p-0.5) <= b.CoinflipMargin
}

// IsModerate reports ModerateMin < p <= ModerateMax.
func (b BaseStrategy) IsModerate(p float64) bool {
	return p > b.ModerateMin && p <= b.ModerateMax
}

// FlipContrarians picks every favorite, then flips up to numCoinflip random
// coin-flip games and up to numModerate random moderate games to the underdog.
// It returns the picks and the flipped indices in slate order.
func (b BaseStrategy) FlipContrarians(p models.ProbabilityVector, numCoinflip, numModerate int, rng *rand.Rand) ([]bool, []int) {
	picks := AllFavorites(len(p))

	var coinflip, moderate []int
	for i, x := range p {
		if b.IsCoinflip(x) {
			coinflip = append(coinflip, i)
		}
		if b.IsModerate(x) {
			moderate = append(moderate, i)
		}
	}
	rng.Shuffle(len(coinflip), func(i, j int) { coinflip[i], coinflip[j] = coinflip[j], coinflip[i] })
	rng.Shuffle(len(moderate), func(i, j int) { moderate[i], moderate[j] = moderate[j], moderate[i] })

	for _, i := range coinflip[:min(numCoinflip, len(coinflip))] {
		picks[i] = false
	}
	for _, i := range moderate[:min(numModerate, len(moderate))] {
		picks[i] = false
	}

	var flipped []int
	for i, pick := range picks {
		if !pick {
			flipped = append(flipped, i)
		}
	}
	return picks, flipped
}

// AllFavorites returns n favorite picks.
func AllFavorites(n int) []bool {
	picks := make([]bool, n)
	for i := range picks {
		picks[i] = true
	}
	return picks
}

// OrderByProbability returns game indices by descending probability. Equal
// probabilities keep slate order.
func OrderByProbability(p models.ProbabilityVector) []int {
	order := make([]int, len(p))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return p[order[a]] > p[order[b]]
	})
	return order
}

// AssignConfidence gives the game at rank r the value N - r.
func AssignConfidence(order []int, n int) []int {
	conf := make([]int, n)
	for rank, idx := range order {
		conf[idx] = n - rank
	}
	return conf
}

// ReorderWithMidBoost removes the boosted games from order and re-inserts each
// at its target rank. Targets are clamped to the current order length, and a rank
// already taken by an earlier boost moves one step later.
func ReorderWithMidBoost(order, boost, targets []int) []int {
	boosted := make(map[int]bool, len(boost))
	for _, idx := range boost {
		boosted[idx] = true
	}
	out := make([]int, 0, len(order))
	for _, idx := range order {
		if !boosted[idx] {
			out = append(out, idx)
		}
	}

	used := make(map[int]bool, len(boost))
	for i := 0; i < len(boost) && i < len(targets); i++ {
		pos := max(0, min(len(out), targets[i]))
		for used[pos] {
			pos++
		}
		used[pos] = true

		at := min(pos, len(out))
		out = append(out, 0)
		copy(out[at+1:], out[at:])
		out[at] = boost[i]
	}
	return out
}

func percentileRank(n int, fraction float64) int {
	return int(float64(n) * fraction)
}
