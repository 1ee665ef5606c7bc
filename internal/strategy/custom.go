package strategy

import (
	"math/rand"

	"github.com/yourusername/pool-edge/internal/models"
)

// CustomStrategy replays a fixed user card regardless of probabilities.
type CustomStrategy struct {
	entry models.Entry
	label string
}

// NewCustom wraps entry as a constant strategy.
func NewCustom(entry models.Entry) *CustomStrategy {
	return &CustomStrategy{entry: entry.Clone(), label: KindCustom.String()}
}

// WithLabel overrides the display name, e.g. with the player's name.
func (s *CustomStrategy) WithLabel(label string) *CustomStrategy {
	if label != "" {
		s.label = label
	}
	return s
}

func (s *CustomStrategy) Name() string { return s.label }
func (s *CustomStrategy) Kind() Kind   { return KindCustom }

// Evaluate returns a copy of the wrapped card; p and rng are ignored.
func (s *CustomStrategy) Evaluate(_ models.ProbabilityVector, _ *rand.Rand) models.Entry {
	return s.entry.Clone()
}

func (s *CustomStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"games": len(s.entry.Picks),
	}
}
