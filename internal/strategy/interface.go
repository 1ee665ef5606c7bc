package strategy

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/pool-edge/internal/models"
)

// Strategy maps a week's favorite probabilities to a card of picks and
// confidence values. Implementations hold no state between calls; every
// random choice is drawn from rng.
type Strategy interface {
	Name() string
	Kind() Kind
	Evaluate(p models.ProbabilityVector, rng *rand.Rand) models.Entry
	GetParameters() map[string]interface{}
}

// Apply evaluates s and rejects any card that is not a valid permutation of 1..N.
func Apply(s Strategy, p models.ProbabilityVector, rng *rand.Rand) (models.Entry, error) {
	entry := s.Evaluate(p, rng)
	if err := models.ValidateEntry(entry, len(p)); err != nil {
		return models.Entry{}, fmt.Errorf("strategy %s: %w", s.Name(), err)
	}
	return entry, nil
}

// StrategyMetadata describes a strategy for reports and exports
type StrategyMetadata struct {
	Name       string                 `json:"name"`
	Code       string                 `json:"code"`
	Parameters map[string]interface{} `json:"parameters"`
}

// Describe builds the metadata record for s.
func Describe(s Strategy) StrategyMetadata {
	return StrategyMetadata{
		Name:       s.Name(),
		Code:       s.Kind().Code(),
		Parameters: s.GetParameters(),
	}
}
