// Package scoring scores confidence pool cards against realized outcomes and
// allocates the weekly most-wins and most-points bonuses.
package scoring

import (
	"fmt"
	"strings"

	"github.com/yourusername/pool-edge/internal/models"
)

// BonusPolicy decides how a bonus is shared when several players tie for it.
type BonusPolicy int

const (
	// FullToAllTied gives the full bonus to every tied player.
	FullToAllTied BonusPolicy = iota
	// SplitAmongTied divides the bonus evenly among tied players.
	SplitAmongTied
)

func (p BonusPolicy) String() string {
	switch p {
	case FullToAllTied:
		return "full"
	case SplitAmongTied:
		return "split"
	default:
		return fmt.Sprintf("BonusPolicy(%d)", int(p))
	}
}

// ParseBonusPolicy parses "full" or "split".
func ParseBonusPolicy(s string) (BonusPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "full_to_all_tied", "":
		return FullToAllTied, nil
	case "split", "split_among_tied":
		return SplitAmongTied, nil
	default:
		return 0, fmt.Errorf("unknown bonus policy %q", s)
	}
}

// Config holds the week-level scoring rules.
type Config struct {
	WinsBonus   float64
	PointsBonus float64
	Policy      BonusPolicy
}

// DefaultConfig returns the standard pool rules: 5 for most wins, 10 for most
// points, full bonus to every tied player.
func DefaultConfig() Config {
	return Config{
		WinsBonus:   5,
		PointsBonus: 10,
		Policy:      FullToAllTied,
	}
}

// ScoredPlayer is one player's result for a realized week.
type ScoredPlayer struct {
	Wins           int     `json:"wins"`
	BasePoints     int     `json:"base_points"`
	GotWinsBonus   bool    `json:"got_wins_bonus"`
	GotPointsBonus bool    `json:"got_points_bonus"`
	WinsBonus      float64 `json:"wins_bonus"`
	PointsBonus    float64 `json:"points_bonus"`
	Total          float64 `json:"total"`
}

// Kernel scores cards under a fixed Config.
type Kernel struct {
	cfg Config
}

// NewKernel creates a kernel.
func NewKernel(cfg Config) *Kernel {
	return &Kernel{cfg: cfg}
}

// Config returns the kernel's rules.
func (k *Kernel) Config() Config {
	return k.cfg
}

// Score scores every entry against outcomes, where outcomes[i] is true when
// the favorite of game i won.
func (k *Kernel) Score(outcomes []bool, entries []models.Entry) ([]ScoredPlayer, error) {
	for i, e := range entries {
		if len(e.Picks) != len(outcomes) || len(e.Confidence) != len(outcomes) {
			return nil, fmt.Errorf("entry %d covers %d games, outcomes cover %d: %w",
				i, len(e.Picks), len(outcomes), models.ErrInvalidConfidence)
		}
	}
	out := make([]ScoredPlayer, len(entries))
	k.ScoreInto(out, outcomes, entries)
	return out, nil
}

// ScoreInto scores into dst without validating lengths. dst must be at least
// len(entries) long.
func (k *Kernel) ScoreInto(dst []ScoredPlayer, outcomes []bool, entries []models.Entry) {
	if len(entries) == 0 {
		return
	}
	maxWins, maxPoints := -1, -1
	for j, e := range entries {
		wins, points := 0, 0
		for g, outcome := range outcomes {
			if e.Picks[g] == outcome {
				wins++
				points += e.Confidence[g]
			}
		}
		dst[j] = ScoredPlayer{Wins: wins, BasePoints: points}
		maxWins = max(maxWins, wins)
		maxPoints = max(maxPoints, points)
	}

	tiedWins, tiedPoints := 0, 0
	for j := range entries {
		if dst[j].Wins == maxWins {
			tiedWins++
		}
		if dst[j].BasePoints == maxPoints {
			tiedPoints++
		}
	}

	winsShare, pointsShare := k.cfg.WinsBonus, k.cfg.PointsBonus
	if k.cfg.Policy == SplitAmongTied {
		winsShare /= float64(tiedWins)
		pointsShare /= float64(tiedPoints)
	}

	for j := range entries {
		sp := &dst[j]
		if sp.Wins == maxWins {
			sp.GotWinsBonus = true
			sp.WinsBonus = winsShare
		}
		if sp.BasePoints == maxPoints {
			sp.GotPointsBonus = true
			sp.PointsBonus = pointsShare
		}
		sp.Total = float64(sp.BasePoints) + sp.WinsBonus + sp.PointsBonus
	}
}
