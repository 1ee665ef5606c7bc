package strategy

import (
	"math/rand"

	"github.com/yourusername/pool-edge/internal/models"
)

// ChalkStrategy picks every favorite and ranks games by win probability.
// It maximizes expected base points with the least variance.
type ChalkStrategy struct{}

// NewChalk creates the all-favorites strategy.
func NewChalk() *ChalkStrategy {
	return &ChalkStrategy{}
}

func (s *ChalkStrategy) Name() string { return KindChalk.String() }
func (s *ChalkStrategy) Kind() Kind   { return KindChalk }

// Evaluate ignores rng.
func (s *ChalkStrategy) Evaluate(p models.ProbabilityVector, _ *rand.Rand) models.Entry {
	return models.Entry{
		Picks:      AllFavorites(len(p)),
		Confidence: AssignConfidence(OrderByProbability(p), len(p)),
	}
}

func (s *ChalkStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"ordering": "probability_desc",
	}
}
