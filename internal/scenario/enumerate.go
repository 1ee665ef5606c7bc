package scenario

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/pool-edge/internal/models"
)

const cancelCheckInterval = 4096

// pickRef is a pending pick compiled against the game index. The pick scores
// when bit game of the mask equals wantA.
type pickRef struct {
	game       int
	wantA      bool
	confidence int
	label      string
}

type compiledPlayer struct {
	name   string
	locked int
	picks  []pickRef
}

func (c *compiledPlayer) total(mask uint64) int {
	t := c.locked
	for _, r := range c.picks {
		if (mask>>uint(r.game)&1 == 1) == r.wantA {
			t += r.confidence
		}
	}
	return t
}

// problem is a week compiled for repeated evaluation of one target.
type problem struct {
	games  []models.PendingGame
	pA     []float64
	pB     []float64
	target compiledPlayer
	others []compiledPlayer
}

type teamSlot struct {
	game  int
	isA   bool
	valid bool
}

// pendingGames collects every undecided matchup named by any player's pending
// picks. Picks without an opponent do not define a game.
func pendingGames(standings models.Standings) []models.PendingGame {
	seen := make(map[models.PendingGame]struct{})
	for _, st := range standings {
		for _, p := range st.Pending {
			if p.Opponent == "" {
				continue
			}
			seen[models.NewPendingGame(p.Team, p.Opponent)] = struct{}{}
		}
	}
	games := make([]models.PendingGame, 0, len(seen))
	for g := range seen {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool {
		if games[i].TeamA != games[j].TeamA {
			return games[i].TeamA < games[j].TeamA
		}
		return games[i].TeamB < games[j].TeamB
	})
	return games
}

func indexTeams(games []models.PendingGame) map[string]teamSlot {
	index := make(map[string]teamSlot, len(games)*2)
	for g, game := range games {
		index[game.TeamA] = teamSlot{game: g, isA: true, valid: true}
		index[game.TeamB] = teamSlot{game: g, isA: false, valid: true}
	}
	return index
}

func compilePlayer(st *models.PlayerStanding, games []models.PendingGame, index map[string]teamSlot) compiledPlayer {
	c := compiledPlayer{name: st.Player, locked: st.LockedPoints}
	for _, p := range st.Pending {
		slot := index[p.Team]
		if !slot.valid {
			continue
		}
		game := games[slot.game]
		c.picks = append(c.picks, pickRef{
			game:       slot.game,
			wantA:      slot.isA,
			confidence: p.Confidence,
			label:      pickLabel(game.TeamA, game.TeamB, p.Team, p.Confidence),
		})
	}
	return c
}

func compile(standings models.Standings, target string, games []models.PendingGame, probs GameProbabilities) *problem {
	index := indexTeams(games)
	pr := &problem{
		games: games,
		pA:    make([]float64, len(games)),
		pB:    make([]float64, len(games)),
	}
	for g, game := range games {
		pr.pA[g] = probs.Get(game.TeamA, game.TeamB)
		pr.pB[g] = probs.Get(game.TeamB, game.TeamA)
	}
	for _, name := range standings.Players() {
		c := compilePlayer(standings[name], games, index)
		if name == target {
			pr.target = c
			continue
		}
		pr.others = append(pr.others, c)
	}
	return pr
}

// targetWins reports whether the target finishes strictly ahead of every
// other player under mask.
func (pr *problem) targetWins(mask uint64) bool {
	t := pr.target.total(mask)
	for i := range pr.others {
		if pr.others[i].total(mask) >= t {
			return false
		}
	}
	return true
}

func (pr *problem) maxOther(mask uint64) int {
	best := 0
	for i := range pr.others {
		if t := pr.others[i].total(mask); i == 0 || t > best {
			best = t
		}
	}
	return best
}

func (pr *problem) mass(mask uint64) float64 {
	m := 1.0
	for g := range pr.games {
		if mask>>uint(g)&1 == 1 {
			m *= pr.pA[g]
		} else {
			m *= pr.pB[g]
		}
	}
	return m
}

func (pr *problem) scenarioCount() uint64 {
	return uint64(1) << uint(len(pr.games))
}

type tally struct {
	wins     uint64
	weighted float64
}

// span is a half-open mask range [lo, hi).
type span struct {
	lo, hi uint64
}

func partition(total uint64, workers int) []span {
	w := uint64(max(workers, 1))
	if w > total {
		w = total
	}
	size := (total + w - 1) / w
	spans := make([]span, 0, w)
	for lo := uint64(0); lo < total; lo += size {
		spans = append(spans, span{lo: lo, hi: min(lo+size, total)})
	}
	return spans
}

// count enumerates every scenario, splitting the mask range across workers.
func (pr *problem) count(ctx context.Context, workers int) (tally, error) {
	spans := partition(pr.scenarioCount(), workers)
	partials := make([]tally, len(spans))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range spans {
		g.Go(func() error {
			var t tally
			for mask := s.lo; mask < s.hi; mask++ {
				if (mask-s.lo)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if pr.targetWins(mask) {
					t.wins++
					t.weighted += pr.mass(mask)
				}
			}
			partials[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tally{}, err
	}

	var out tally
	for _, t := range partials {
		out.wins += t.wins
		out.weighted += t.weighted
	}
	return out, nil
}
