package scenario

import "fmt"

// Status values reported by the analyzer.
const (
	StatusComplete   = "Week is complete"
	StatusInProgress = "Games pending"
)

// Report is the outcome of analyzing one player's week.
type Report struct {
	Week                   int           `json:"week,omitempty"`
	Season                 int           `json:"season,omitempty"`
	Player                 string        `json:"player"`
	CurrentPoints          int           `json:"current_points"`
	PendingGames           int           `json:"pending_games"`
	PendingPicks           int           `json:"pending_picks"`
	PendingGamesFormatted  []string      `json:"pending_games_formatted,omitempty"`
	TotalScenarios         uint64        `json:"total_scenarios"`
	WinningScenarios       uint64        `json:"winning_scenarios"`
	WinProbability         float64       `json:"win_probability"`
	WinPercentage          string        `json:"win_percentage"`
	NaiveWinProbability    float64       `json:"naive_win_probability"`
	NaiveWinPercentage     string        `json:"naive_win_percentage"`
	WeightedWinProbability float64       `json:"weighted_win_probability"`
	WeightedWinPercentage  string        `json:"weighted_win_percentage"`
	UsingProbabilities     bool          `json:"using_actual_odds"`
	Status                 string        `json:"status"`
	CurrentLeaders         []string      `json:"current_leaders,omitempty"`
	Meta                   *MetaAnalysis `json:"meta_analysis,omitempty"`
	Combinations           []Combination `json:"winning_combinations,omitempty"`
	CombinationsNote       string        `json:"winning_combinations_note,omitempty"`
}

// GameStat describes how often a pending game has to land a given way across
// the winning scenarios.
type GameStat struct {
	Game       string  `json:"game"`
	WinPct     float64 `json:"win_pct"`
	LosePct    float64 `json:"lose_pct"`
	AnyPct     float64 `json:"any_pct"`
	Confidence int     `json:"confidence"`
}

// MetaAnalysis groups the target's pending picks by how often each must win
// or lose for the target to take the week.
type MetaAnalysis struct {
	AlwaysWin     []GameStat `json:"always_win"`
	UsuallyWin    []GameStat `json:"usually_win"`
	SometimesWin  []GameStat `json:"sometimes_win"`
	RarelyWin     []GameStat `json:"rarely_win"`
	AlwaysLose    []GameStat `json:"always_lose"`
	UsuallyLose   []GameStat `json:"usually_lose"`
	SometimesLose []GameStat `json:"sometimes_lose"`
	RarelyLose    []GameStat `json:"rarely_lose"`
	AlwaysAny     []GameStat `json:"always_any"`
}

// Combination is one winning scenario spelled out.
type Combination struct {
	TargetTotal      int      `json:"target_total"`
	MaxOpponentTotal int      `json:"max_opponent_total"`
	Probability      float64  `json:"probability"`
	MustWin          []string `json:"must_win"`
	MustLose         []string `json:"can_lose"`
	AnyOutcome       []string `json:"any_outcome"`
}

// Leaderboard ranks every player by win probability.
type Leaderboard struct {
	Week         int                `json:"week,omitempty"`
	Season       int                `json:"season,omitempty"`
	PendingGames int                `json:"pending_games"`
	TotalPlayers int                `json:"total_players"`
	Entries      []LeaderboardEntry `json:"leaderboard"`
}

// LeaderboardEntry is one player's row.
type LeaderboardEntry struct {
	Player           string  `json:"player"`
	CurrentPoints    int     `json:"current_points"`
	PendingPicks     int     `json:"pending_picks"`
	TotalScenarios   uint64  `json:"total_scenarios"`
	WinningScenarios uint64  `json:"winning_scenarios"`
	WinProbability   float64 `json:"win_probability"`
	WinPercentage    string  `json:"win_percentage"`
}

// FormatPercent renders a probability as a percentage with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

func pickLabel(teamA, teamB, team string, confidence int) string {
	return fmt.Sprintf("(%s vs. %s - %s) [%d pts]", teamA, teamB, team, confidence)
}

func anyLabel(teamA, teamB string) string {
	return fmt.Sprintf("(%s vs. %s - any)", teamA, teamB)
}
