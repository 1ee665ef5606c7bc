package models

import "sort"

// PlayerPick is one row from the standings store. IsCorrect is nil while the
// game is undecided.
type PlayerPick struct {
	Season     int    `db:"season" json:"season"`
	Week       int    `db:"week_number" json:"week"`
	Player     string `db:"player_name" json:"player"`
	Team       string `db:"team" json:"team"`
	Opponent   string `db:"opponent_team" json:"opponent"`
	Confidence int    `db:"confidence_points" json:"confidence"`
	IsCorrect  *bool  `db:"is_correct" json:"is_correct"`
}

// PendingPick is a pick whose game has not finished.
type PendingPick struct {
	Team       string `json:"team"`
	Opponent   string `json:"opponent"`
	Confidence int    `json:"confidence"`
}

// PlayerStanding is a read-only snapshot of one player's week so far.
type PlayerStanding struct {
	Player       string        `json:"player"`
	LockedPoints int           `json:"locked_points"`
	Pending      []PendingPick `json:"pending"`
}

// Standings maps player name to standing.
type Standings map[string]*PlayerStanding

// Players returns the player names sorted.
func (s Standings) Players() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildStandings partitions raw picks into locked points and pending picks.
// Incorrect picks contribute nothing.
func BuildStandings(picks []PlayerPick) Standings {
	standings := make(Standings)
	for _, pick := range picks {
		st, ok := standings[pick.Player]
		if !ok {
			st = &PlayerStanding{Player: pick.Player}
			standings[pick.Player] = st
		}
		switch {
		case pick.IsCorrect == nil:
			st.Pending = append(st.Pending, PendingPick{
				Team:       pick.Team,
				Opponent:   pick.Opponent,
				Confidence: pick.Confidence,
			})
		case *pick.IsCorrect:
			st.LockedPoints += pick.Confidence
		}
	}
	return standings
}

// PendingGame is an undecided matchup. TeamA sorts before TeamB.
type PendingGame struct {
	TeamA string `json:"team_a"`
	TeamB string `json:"team_b"`
}

// NewPendingGame orders the pair so that either argument order yields the same game.
func NewPendingGame(team, opponent string) PendingGame {
	if opponent < team {
		team, opponent = opponent, team
	}
	return PendingGame{TeamA: team, TeamB: opponent}
}

// BoolPtr is a helper for building standings rows in code and tests.
func BoolPtr(v bool) *bool {
	return &v
}
