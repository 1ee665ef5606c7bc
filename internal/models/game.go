package models

import (
	"sort"
	"time"
)

// Game is one matchup of a week's slate with its fair favorite probability.
type Game struct {
	ID           string    `json:"id"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
	Favorite     string    `json:"favorite"`
	Underdog     string    `json:"dog"`
	PFav         float64   `json:"p_fav"`
	PHome        float64   `json:"p_home"`
	PAway        float64   `json:"p_away"`
	BookCount    int       `json:"book_count"`
}

// PickTeam returns the team chosen by a favorite/underdog pick.
func (g Game) PickTeam(pickFavorite bool) string {
	if pickFavorite {
		return g.Favorite
	}
	return g.Underdog
}

// Involves reports whether team plays in this game.
func (g Game) Involves(team string) bool {
	return g.HomeTeam == team || g.AwayTeam == team
}

// Slate is the ordered list of games for one week.
type Slate struct {
	Week  int    `json:"week"`
	Games []Game `json:"games"`
}

// ProbabilityVector holds p_fav per game; the index is the only link to picks.
type ProbabilityVector []float64

// Len returns the slate size.
func (s Slate) Len() int {
	return len(s.Games)
}

// Probabilities extracts the favorite probabilities in slate order.
func (s Slate) Probabilities() ProbabilityVector {
	p := make(ProbabilityVector, len(s.Games))
	for i, g := range s.Games {
		p[i] = g.PFav
	}
	return p
}

// Teams returns every team on the slate, sorted.
func (s Slate) Teams() []string {
	teams := make([]string, 0, len(s.Games)*2)
	for _, g := range s.Games {
		teams = append(teams, g.HomeTeam, g.AwayTeam)
	}
	sort.Strings(teams)
	return teams
}
