package odds

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/pool-edge/internal/models"
)

// Slate size defaults for a regular NFL week.
const (
	DefaultSlateMinGames     = 12
	DefaultSlateMaxGames     = 18
	DefaultSyntheticNumGames = 16
	DefaultSyntheticSeed     = 42
)

// ValidateSlate sanity checks a slate's size. An empty slate is an error;
// a short or long slate only yields warnings.
func ValidateSlate(slate models.Slate, minGames, maxGames int) ([]string, error) {
	n := slate.Len()
	if n == 0 {
		return nil, models.ErrNoGames
	}

	var warnings []string
	if n < minGames {
		warnings = append(warnings, fmt.Sprintf("only %d games on slate (expected at least %d)", n, minGames))
	}
	if n > maxGames {
		warnings = append(warnings, fmt.Sprintf("%d games on slate (expected at most %d)", n, maxGames))
	}
	for _, g := range slate.Games {
		if g.PFav < 0.5 || g.PFav >= 1 {
			warnings = append(warnings, fmt.Sprintf("game %s has favorite probability %.4f outside [0.5, 1)", g.ID, g.PFav))
		}
	}
	return warnings, nil
}

// SyntheticSlate builds a reproducible stand-in slate for when no odds are
// available: four heavy favorites, six moderate, four close games and the rest
// near pick'em, shuffled. The home team is always the favorite.
func SyntheticSlate(week, numGames int, seed int64) models.Slate {
	rng := rand.New(rand.NewSource(seed))
	uniform := func(lo, hi float64, count int) []float64 {
		out := make([]float64, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, lo+rng.Float64()*(hi-lo))
		}
		return out
	}

	var probs []float64
	probs = append(probs, uniform(0.78, 0.85, 4)...)
	probs = append(probs, uniform(0.62, 0.70, 6)...)
	probs = append(probs, uniform(0.54, 0.58, 4)...)
	probs = append(probs, uniform(0.50, 0.52, max(0, numGames-14))...)
	if len(probs) > numGames {
		probs = probs[:max(numGames, 0)]
	}
	rng.Shuffle(len(probs), func(i, j int) { probs[i], probs[j] = probs[j], probs[i] })

	slate := models.Slate{Week: week, Games: make([]models.Game, len(probs))}
	for i, p := range probs {
		home := fmt.Sprintf("HOME%d", i+1)
		away := fmt.Sprintf("AWAY%d", i+1)
		slate.Games[i] = models.Game{
			ID:       fmt.Sprintf("synthetic-%d", i+1),
			HomeTeam: home,
			AwayTeam: away,
			Favorite: home,
			Underdog: away,
			PFav:     p,
			PHome:    p,
			PAway:    1 - p,
		}
	}
	return slate
}
