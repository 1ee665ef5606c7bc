package strategy

import (
	"math/rand"

	"github.com/yourusername/pool-edge/internal/models"
)

// RandomMidShuffleStrategy picks every favorite, ranks by probability and
// then shuffles the middle band of ranks to decorrelate from the field.
type RandomMidShuffleStrategy struct {
	BandLow  float64
	BandHigh float64
}

// NewRandomMidShuffle shuffles ranks [30%, 75%) of the ordering.
func NewRandomMidShuffle() *RandomMidShuffleStrategy {
	return &RandomMidShuffleStrategy{BandLow: 0.30, BandHigh: 0.75}
}

func (s *RandomMidShuffleStrategy) Name() string { return KindRandomMidShuffle.String() }
func (s *RandomMidShuffleStrategy) Kind() Kind   { return KindRandomMidShuffle }

func (s *RandomMidShuffleStrategy) Evaluate(p models.ProbabilityVector, rng *rand.Rand) models.Entry {
	n := len(p)
	order := OrderByProbability(p)
	lo, hi := percentileRank(n, s.BandLow), percentileRank(n, s.BandHigh)
	if hi > lo {
		mid := order[lo:hi]
		rng.Shuffle(len(mid), func(i, j int) { mid[i], mid[j] = mid[j], mid[i] })
	}
	return models.Entry{
		Picks:      AllFavorites(n),
		Confidence: AssignConfidence(order, n),
	}
}

func (s *RandomMidShuffleStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"band_low":  s.BandLow,
		"band_high": s.BandHigh,
	}
}
