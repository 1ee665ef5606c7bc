package scenario

import (
	"context"
	"sort"

	"github.com/yourusername/pool-edge/internal/models"
)

// Leaderboard analyzes every player and ranks them by win probability,
// breaking ties by name.
func (a *Analyzer) Leaderboard(ctx context.Context, standings models.Standings, opts Options) (*Leaderboard, error) {
	opts.Detailed = false
	players := standings.Players()
	board := &Leaderboard{
		PendingGames: len(pendingGames(standings)),
		TotalPlayers: len(players),
		Entries:      make([]LeaderboardEntry, 0, len(players)),
	}

	for _, name := range players {
		r, err := a.Analyze(ctx, standings, name, opts)
		if err != nil {
			return nil, err
		}
		board.Entries = append(board.Entries, LeaderboardEntry{
			Player:           r.Player,
			CurrentPoints:    r.CurrentPoints,
			PendingPicks:     r.PendingPicks,
			TotalScenarios:   r.TotalScenarios,
			WinningScenarios: r.WinningScenarios,
			WinProbability:   r.WinProbability,
			WinPercentage:    r.WinPercentage,
		})
	}

	sort.SliceStable(board.Entries, func(i, j int) bool {
		return board.Entries[i].WinProbability > board.Entries[j].WinProbability
	})
	return board, nil
}
