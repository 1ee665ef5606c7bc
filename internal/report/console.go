// Package report renders engine results for the terminal and writes the
// weekly output files.
package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/picks"
	"github.com/yourusername/pool-edge/internal/scenario"
	"github.com/yourusername/pool-edge/internal/simulator"
)

var printer = message.NewPrinter(language.English)

func rule(width int) string {
	return strings.Repeat("=", width) + "\n"
}

// SlateTable lists the week's games with fair probabilities
func SlateTable(slate models.Slate) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Week %d slate (%d games)\n", slate.Week, slate.Len()))
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tAway\tHome\tFavorite\tP(fav)\tBooks")
	for i, g := range slate.Games {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.3f\t%d\n", i+1, g.AwayTeam, g.HomeTeam, g.Favorite, g.PFav, g.BookCount)
	}
	w.Flush()
	return b.String()
}

// SimulationTable formats strategy summaries, best expected total first
func SimulationTable(summaries []*simulator.Summary, includesUser bool) string {
	var b strings.Builder
	b.WriteString("\nConfidence Pool Strategy - Monte Carlo Summary\n")
	if includesUser {
		b.WriteString("(Including your custom picks)\n")
	}
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "strategy\texp_total\texp_base\texp_wins\tP(wins bonus)\tP(points bonus)\tstdev\tp10\tp50\tp90\t")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.1f\t%.1f\t%.1f\t\n",
			s.Strategy, s.ExpectedTotal, s.ExpectedBasePoints, s.ExpectedWins,
			s.PWinsBonus, s.PPointsBonus, s.StdDevTotal, s.P10, s.P50, s.P90)
	}
	w.Flush()
	return b.String()
}

// FieldTable shows the opponent mix derived from past picks, one row per
// classified player.
func FieldTable(field simulator.FieldComposition, profiles []simulator.PlayerProfile) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\nField from past picks (%d opponents simulated)\n", field.Size()))
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Player\tPicks\tContrarian\tRate\tStrategy")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\t%s\n", p.Player, p.Picks, p.ContrarianPicks, 100*p.ContrarianRate, p.Strategy)
	}
	w.Flush()
	return b.String()
}

// Recommendations lists one strategy's card in slate order
func Recommendations(strategyName string, slate models.Slate, entry models.Entry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\nYour picks this week using %s:\n\n", strategyName))
	for i, g := range slate.Games {
		if i >= len(entry.Picks) {
			break
		}
		b.WriteString(fmt.Sprintf("%2d. %s at %s\n", i+1, g.AwayTeam, g.HomeTeam))
		b.WriteString(fmt.Sprintf("    -> PICK: %s, CONFIDENCE: %d\n", g.PickTeam(entry.Picks[i]), entry.Confidence[i]))
	}
	return b.String()
}

// PickAnalysis summarizes a user's card
func PickAnalysis(a picks.Analysis) string {
	var b strings.Builder
	b.WriteString("\nYour picks\n")
	b.WriteString(fmt.Sprintf("Expected wins: %.2f of %d\n", a.ExpectedWins, a.TotalGames))
	b.WriteString(fmt.Sprintf("Risk: %s\n", a.RiskAssessment))
	if len(a.ContrarianPicks) > 0 {
		b.WriteString(fmt.Sprintf("Contrarian picks (%d):\n", a.ContrarianCount))
		for _, d := range a.ContrarianPicks {
			b.WriteString(fmt.Sprintf("  %s: %s for %d (%.1f%% to win)\n", d.Game, d.Pick, d.Confidence, d.PickProb*100))
		}
	}
	return b.String()
}

// ScenarioReport renders a single player's analysis
func ScenarioReport(r *scenario.Report) string {
	var b strings.Builder
	b.WriteString(rule(60))
	b.WriteString(fmt.Sprintf("WIN SCENARIO ANALYSIS - Week %d\n", r.Week))
	b.WriteString(rule(60))
	b.WriteString(fmt.Sprintf("Player: %s\n", r.Player))
	b.WriteString(fmt.Sprintf("Current Points: %d\n\n", r.CurrentPoints))

	if r.Status == scenario.StatusComplete {
		b.WriteString(fmt.Sprintf("Status: %s\n", r.Status))
		b.WriteString(fmt.Sprintf("Current Leaders: %s\n", strings.Join(r.CurrentLeaders, ", ")))
		b.WriteString(fmt.Sprintf("Win Probability: %s\n", r.WinPercentage))
		b.WriteString(rule(60))
		return b.String()
	}

	if len(r.PendingGamesFormatted) > 0 {
		b.WriteString(fmt.Sprintf("Remaining Games (%d):\n", r.PendingGames))
		for _, g := range r.PendingGamesFormatted {
			b.WriteString("  " + g + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(printer.Sprintf("Total Possible Scenarios: %d\n", r.TotalScenarios))
	b.WriteString(printer.Sprintf("Winning Scenarios: %d\n\n", r.WinningScenarios))

	if r.UsingProbabilities {
		b.WriteString(fmt.Sprintf("Win Probability (Weighted by Odds): %s\n", r.WeightedWinPercentage))
		b.WriteString(fmt.Sprintf("Win Probability (Naive 50/50):      %s\n\n", r.NaiveWinPercentage))
		b.WriteString("NOTE: Using actual game probabilities from odds data\n")
	} else {
		b.WriteString(fmt.Sprintf("Win Probability (50/50 Assumption): %s\n\n", r.WinPercentage))
		b.WriteString("NOTE: Assuming all games are 50/50 coin flips\n")
	}
	b.WriteString(rule(60))

	if len(r.Combinations) > 0 {
		writeCombinations(&b, r)
	}
	if r.Meta != nil {
		writeMeta(&b, r.Meta)
	}
	return b.String()
}

func writeCombinations(b *strings.Builder, r *scenario.Report) {
	b.WriteString("\nSAMPLE WINNING COMBINATIONS:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for i, c := range r.Combinations {
		b.WriteString(fmt.Sprintf("\n#%d: You score %d pts, opponents max %d pts\n", i+1, c.TargetTotal, c.MaxOpponentTotal))
		writeList(b, "  Must win:", c.MustWin)
		writeList(b, "  Must lose:", c.MustLose)
		writeList(b, "  Any outcome:", c.AnyOutcome)
	}
	if r.CombinationsNote != "" {
		b.WriteString("\n" + r.CombinationsNote + "\n")
	}
	b.WriteString(strings.Repeat("-", 60) + "\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title + "\n")
	for _, item := range items {
		b.WriteString("    - " + item + "\n")
	}
}

func writeMeta(b *strings.Builder, meta *scenario.MetaAnalysis) {
	b.WriteString("\n" + rule(60))
	b.WriteString("TL;DR - META-ANALYSIS ACROSS ALL WINNING SCENARIOS\n")
	b.WriteString(rule(60) + "\n")

	section := func(title string, stats []scenario.GameStat, line func(scenario.GameStat) string) {
		if len(stats) == 0 {
			return
		}
		b.WriteString(title + "\n")
		for _, s := range stats {
			b.WriteString("   " + line(s) + "\n")
		}
		b.WriteString("\n")
	}
	always := func(s scenario.GameStat) string { return s.Game + " (100% of winning scenarios)" }

	section("CRITICAL - Must ALWAYS win these:", meta.AlwaysWin, always)
	section("IMPORTANT - Should win these (75%+):", meta.UsuallyWin, func(s scenario.GameStat) string {
		return fmt.Sprintf("%s (%.0f%% need win)", s.Game, s.WinPct)
	})
	section("CRITICAL - Must ALWAYS lose these:", meta.AlwaysLose, always)
	section("IMPORTANT - Should lose these (75%+):", meta.UsuallyLose, func(s scenario.GameStat) string {
		return fmt.Sprintf("%s (%.0f%% need loss)", s.Game, s.LosePct)
	})
	section("VARIABLE - Mixed outcomes:", variableGames(meta), func(s scenario.GameStat) string {
		return fmt.Sprintf("%s\n      Win: %.0f%% | Lose: %.0f%%", s.Game, s.WinPct, s.LosePct)
	})
	section("IRRELEVANT - Outcome doesn't matter:", meta.AlwaysAny, func(s scenario.GameStat) string { return s.Game })

	b.WriteString(rule(60))
}

// variableGames merges the sometimes buckets, keeping games that were needed
// both ways.
func variableGames(meta *scenario.MetaAnalysis) []scenario.GameStat {
	seen := make(map[string]bool)
	var out []scenario.GameStat
	for _, s := range append(append([]scenario.GameStat{}, meta.SometimesWin...), meta.SometimesLose...) {
		if seen[s.Game] || s.WinPct == 0 || s.LosePct == 0 {
			continue
		}
		seen[s.Game] = true
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

// LeaderboardTable renders every player's chance of taking the week
func LeaderboardTable(board *scenario.Leaderboard) string {
	var b strings.Builder
	b.WriteString(rule(70))
	b.WriteString(fmt.Sprintf("WIN PROBABILITY LEADERBOARD - Week %d\n", board.Week))
	b.WriteString(rule(70))
	b.WriteString(fmt.Sprintf("Season: %d\n", board.Season))
	b.WriteString(fmt.Sprintf("Pending Games: %d\n", board.PendingGames))
	b.WriteString(fmt.Sprintf("Total Players: %d\n\n", board.TotalPlayers))
	b.WriteString(fmt.Sprintf("%-6s%-25s%-10s%-20s%-12s\n", "Rank", "Player", "Current", "Win Scenarios", "Probability"))
	b.WriteString(strings.Repeat("-", 70) + "\n")
	for i, e := range board.Entries {
		scenarios := printer.Sprintf("%d / %d", e.WinningScenarios, e.TotalScenarios)
		b.WriteString(fmt.Sprintf("%-6d%-25s%-10d%-20s%-12s\n", i+1, e.Player, e.CurrentPoints, scenarios, e.WinPercentage))
	}
	b.WriteString(rule(70))
	return b.String()
}
