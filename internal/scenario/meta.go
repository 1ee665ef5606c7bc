package scenario

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// detailTally accumulates per-pick counts over winning scenarios.
type detailTally struct {
	wins         uint64
	mustWin      []uint64
	mustLose     []uint64
	combinations []Combination
}

// detail walks the winning scenarios a second time, counting how each of the
// target's pending picks resolved and keeping the first limit combinations in
// mask order.
func (pr *problem) detail(ctx context.Context, workers, limit int) (*detailTally, error) {
	spans := partition(pr.scenarioCount(), workers)
	partials := make([]*detailTally, len(spans))
	picked := pr.pickedGames()

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range spans {
		g.Go(func() error {
			t := &detailTally{
				mustWin:  make([]uint64, len(pr.target.picks)),
				mustLose: make([]uint64, len(pr.target.picks)),
			}
			for mask := s.lo; mask < s.hi; mask++ {
				if (mask-s.lo)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if !pr.targetWins(mask) {
					continue
				}
				t.wins++
				for j, r := range pr.target.picks {
					if (mask>>uint(r.game)&1 == 1) == r.wantA {
						t.mustWin[j]++
					} else {
						t.mustLose[j]++
					}
				}
				if len(t.combinations) < limit {
					t.combinations = append(t.combinations, pr.combination(mask, picked))
				}
			}
			partials[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &detailTally{
		mustWin:  make([]uint64, len(pr.target.picks)),
		mustLose: make([]uint64, len(pr.target.picks)),
	}
	for _, t := range partials {
		out.wins += t.wins
		for j := range t.mustWin {
			out.mustWin[j] += t.mustWin[j]
			out.mustLose[j] += t.mustLose[j]
		}
		for _, c := range t.combinations {
			if len(out.combinations) < limit {
				out.combinations = append(out.combinations, c)
			}
		}
	}
	return out, nil
}

func (pr *problem) pickedGames() []bool {
	picked := make([]bool, len(pr.games))
	for _, r := range pr.target.picks {
		picked[r.game] = true
	}
	return picked
}

func (pr *problem) combination(mask uint64, picked []bool) Combination {
	c := Combination{
		TargetTotal:      pr.target.total(mask),
		MaxOpponentTotal: pr.maxOther(mask),
		Probability:      pr.mass(mask),
		MustWin:          []string{},
		MustLose:         []string{},
		AnyOutcome:       []string{},
	}
	for _, r := range pr.target.picks {
		if (mask>>uint(r.game)&1 == 1) == r.wantA {
			c.MustWin = append(c.MustWin, r.label)
		} else {
			c.MustLose = append(c.MustLose, r.label)
		}
	}
	for g, game := range pr.games {
		if !picked[g] {
			c.AnyOutcome = append(c.AnyOutcome, anyLabel(game.TeamA, game.TeamB))
		}
	}
	sort.Strings(c.MustWin)
	sort.Strings(c.MustLose)
	sort.Strings(c.AnyOutcome)
	return c
}

// classify buckets the tallied picks. Games the target did not pick are
// irrelevant to every winning scenario and land in AlwaysAny.
func (pr *problem) classify(t *detailTally) *MetaAnalysis {
	meta := &MetaAnalysis{}
	if t.wins == 0 {
		return meta
	}
	total := t.wins
	pct := func(n uint64) float64 { return float64(n) / float64(total) * 100 }

	for j, r := range pr.target.picks {
		stat := GameStat{
			Game:       r.label,
			WinPct:     pct(t.mustWin[j]),
			LosePct:    pct(t.mustLose[j]),
			Confidence: r.confidence,
		}
		switch w := t.mustWin[j]; {
		case w == total:
			meta.AlwaysWin = append(meta.AlwaysWin, stat)
		case 4*w >= 3*total:
			meta.UsuallyWin = append(meta.UsuallyWin, stat)
		case 4*w >= total:
			meta.SometimesWin = append(meta.SometimesWin, stat)
		case w > 0:
			meta.RarelyWin = append(meta.RarelyWin, stat)
		}
		switch l := t.mustLose[j]; {
		case l == total:
			meta.AlwaysLose = append(meta.AlwaysLose, stat)
		case 4*l >= 3*total:
			meta.UsuallyLose = append(meta.UsuallyLose, stat)
		case 4*l >= total:
			meta.SometimesLose = append(meta.SometimesLose, stat)
		case l > 0:
			meta.RarelyLose = append(meta.RarelyLose, stat)
		}
	}

	picked := pr.pickedGames()
	for g, game := range pr.games {
		if picked[g] {
			continue
		}
		meta.AlwaysAny = append(meta.AlwaysAny, GameStat{
			Game:   anyLabel(game.TeamA, game.TeamB),
			AnyPct: 100,
		})
	}

	for _, bucket := range []*[]GameStat{
		&meta.AlwaysWin, &meta.UsuallyWin, &meta.SometimesWin, &meta.RarelyWin,
		&meta.AlwaysLose, &meta.UsuallyLose, &meta.SometimesLose, &meta.RarelyLose,
		&meta.AlwaysAny,
	} {
		b := *bucket
		sort.SliceStable(b, func(i, j int) bool { return b[i].Confidence > b[j].Confidence })
	}
	return meta
}

func combinationsNote(shown int, winning uint64) string {
	if uint64(shown) >= winning {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d winning combinations", shown, winning)
}
