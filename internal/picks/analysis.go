package picks

import (
	"fmt"

	"github.com/yourusername/pool-edge/internal/models"
)

// RiskLevel summarizes how far a card strays from the favorites.
type RiskLevel int

const (
	RiskConservative RiskLevel = iota
	RiskModerate
	RiskAggressive
)

func (r RiskLevel) String() string {
	switch r {
	case RiskConservative:
		return "Conservative (no contrarian picks)"
	case RiskModerate:
		return "Moderate (limited contrarian picks)"
	default:
		return "Aggressive (multiple contrarian picks)"
	}
}

const lowConfidenceMax = 4

// PickDetail describes one game of a card.
type PickDetail struct {
	Game         string  `json:"game"`
	Pick         string  `json:"pick"`
	Confidence   int     `json:"confidence"`
	IsContrarian bool    `json:"is_contrarian"`
	FavoriteProb float64 `json:"favorite_prob"`
	PickProb     float64 `json:"pick_prob"`
}

// Analysis is a quick read on a user's card before it is simulated.
type Analysis struct {
	TotalGames      int          `json:"total_games"`
	ContrarianPicks []PickDetail `json:"contrarian_picks"`
	HighConfidence  []PickDetail `json:"high_confidence_games"`
	LowConfidence   []PickDetail `json:"low_confidence_games"`
	ContrarianCount int          `json:"contrarian_count"`
	ExpectedWins    float64      `json:"expected_wins"`
	Risk            RiskLevel    `json:"-"`
	RiskAssessment  string       `json:"risk_assessment"`
}

// Analyze flags contrarian and extreme-confidence picks. The top four
// confidence slots count as high confidence and 1 through 4 as low.
func Analyze(entry models.Entry, slate models.Slate) Analysis {
	n := slate.Len()
	a := Analysis{TotalGames: n}
	highMin := n - 3

	for i, game := range slate.Games {
		if i >= len(entry.Picks) || i >= len(entry.Confidence) {
			break
		}
		fav := entry.Picks[i]
		pickProb := game.PFav
		if !fav {
			pickProb = 1 - game.PFav
		}
		d := PickDetail{
			Game:         fmt.Sprintf("%s at %s", game.AwayTeam, game.HomeTeam),
			Pick:         game.PickTeam(fav),
			Confidence:   entry.Confidence[i],
			IsContrarian: !fav,
			FavoriteProb: game.PFav,
			PickProb:     pickProb,
		}
		if !fav {
			a.ContrarianCount++
			a.ContrarianPicks = append(a.ContrarianPicks, d)
		}
		switch {
		case d.Confidence >= highMin && d.Confidence > lowConfidenceMax:
			a.HighConfidence = append(a.HighConfidence, d)
		case d.Confidence <= lowConfidenceMax:
			a.LowConfidence = append(a.LowConfidence, d)
		}
		a.ExpectedWins += pickProb
	}

	switch {
	case a.ContrarianCount == 0:
		a.Risk = RiskConservative
	case a.ContrarianCount <= 2:
		a.Risk = RiskModerate
	default:
		a.Risk = RiskAggressive
	}
	a.RiskAssessment = a.Risk.String()
	return a
}
