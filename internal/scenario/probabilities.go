package scenario

import "github.com/yourusername/pool-edge/internal/models"

// Matchup is an ordered (team, opponent) pair.
type Matchup struct {
	Team     string
	Opponent string
}

// GameProbabilities holds P(team beats opponent) keyed by ordered matchup.
type GameProbabilities map[Matchup]float64

// Set records p for team and 1-p for opponent.
func (g GameProbabilities) Set(team, opponent string, p float64) {
	g[Matchup{Team: team, Opponent: opponent}] = p
	g[Matchup{Team: opponent, Opponent: team}] = 1 - p
}

// Get returns P(team beats opponent), or 0.5 when unknown.
func (g GameProbabilities) Get(team, opponent string) float64 {
	if p, ok := g[Matchup{Team: team, Opponent: opponent}]; ok {
		return p
	}
	return 0.5
}

// FromSlate builds probabilities for both sides of every game on the slate.
func FromSlate(slate models.Slate) GameProbabilities {
	probs := make(GameProbabilities, len(slate.Games)*2)
	for _, g := range slate.Games {
		if g.Favorite == "" || g.Underdog == "" {
			continue
		}
		probs.Set(g.Favorite, g.Underdog, g.PFav)
	}
	return probs
}
