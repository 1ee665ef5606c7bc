package strategy

import (
	"math/rand"

	"github.com/yourusername/pool-edge/internal/models"
)

// ContrarianStrategy picks favorites except for a few random underdogs in
// close games, then moves some of those underdogs to mid-confidence ranks.
type ContrarianStrategy struct {
	BaseStrategy
	kind             Kind
	CoinflipDogs     int
	ModerateDogs     int
	BoostPercentiles []float64
}

// NewSlightContrarian flips up to two coin-flip games and boosts the first
// flip to the 55th percentile rank.
func NewSlightContrarian() *ContrarianStrategy {
	return &ContrarianStrategy{
		BaseStrategy:     DefaultBase(),
		kind:             KindSlightContrarian,
		CoinflipDogs:     2,
		ModerateDogs:     0,
		BoostPercentiles: []float64{0.55},
	}
}

// NewAggressiveContrarian flips up to three coin-flip and two moderate games
// and boosts the first two flips to the 65th and 50th percentile ranks.
func NewAggressiveContrarian() *ContrarianStrategy {
	return &ContrarianStrategy{
		BaseStrategy:     DefaultBase(),
		kind:             KindAggressiveContrarian,
		CoinflipDogs:     3,
		ModerateDogs:     2,
		BoostPercentiles: []float64{0.65, 0.50},
	}
}

func (s *ContrarianStrategy) Name() string { return s.kind.String() }
func (s *ContrarianStrategy) Kind() Kind   { return s.kind }

func (s *ContrarianStrategy) Evaluate(p models.ProbabilityVector, rng *rand.Rand) models.Entry {
	n := len(p)
	picks, flipped := s.FlipContrarians(p, s.CoinflipDogs, s.ModerateDogs, rng)
	order := OrderByProbability(p)

	boost := flipped[:min(len(flipped), len(s.BoostPercentiles))]
	if len(boost) > 0 {
		targets := make([]int, len(boost))
		for i := range boost {
			targets[i] = percentileRank(n, s.BoostPercentiles[i])
		}
		order = ReorderWithMidBoost(order, boost, targets)
	}

	return models.Entry{
		Picks:      picks,
		Confidence: AssignConfidence(order, n),
	}
}

func (s *ContrarianStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"coinflip_margin":   s.CoinflipMargin,
		"moderate_min":      s.ModerateMin,
		"moderate_max":      s.ModerateMax,
		"coinflip_dogs":     s.CoinflipDogs,
		"moderate_dogs":     s.ModerateDogs,
		"boost_percentiles": s.BoostPercentiles,
	}
}
