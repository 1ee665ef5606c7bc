// Package logger provides engine-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for simulation and scenario runs.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: OrDiscard(baseLogger).WithField("component", "engine"),
	}
}

// LogSimulationCompleted logs the summary of one strategy simulation.
func (el *EngineLogger) LogSimulationCompleted(strategyName string, trials, games int, expectedTotal, pWinsBonus, pPointsBonus, durationMs float64) {
	el.WithFields(logrus.Fields{
		"strategy":       strategyName,
		"trials":         trials,
		"games":          games,
		"expected_total": expectedTotal,
		"p_wins_bonus":   pWinsBonus,
		"p_points_bonus": pPointsBonus,
		"duration_ms":    durationMs,
	}).Info("Simulation completed")
}

// LogScenarioAnalysis logs a finished scenario enumeration.
func (el *EngineLogger) LogScenarioAnalysis(player string, pendingGames int, totalScenarios, winningScenarios uint64, winProbability float64, detailed bool) {
	el.WithFields(logrus.Fields{
		"player":            player,
		"pending_games":     pendingGames,
		"total_scenarios":   totalScenarios,
		"winning_scenarios": winningScenarios,
		"win_probability":   winProbability,
		"detailed":          detailed,
	}).Info("Scenario analysis completed")
}

// LogCapacityWarning logs an enumeration that is close to, or over, the pending game ceiling.
func (el *EngineLogger) LogCapacityWarning(player string, pendingGames, limit int, allowed bool) {
	el.WithFields(logrus.Fields{
		"player":        player,
		"pending_games": pendingGames,
		"limit":         limit,
		"scenarios":     uint64(1) << uint(min(pendingGames, 63)),
		"allowed":       allowed,
	}).Warn("Large scenario enumeration")
}

// LogBookDropped logs a book quote that could not contribute to a consensus.
func (el *EngineLogger) LogBookDropped(gameID, book, reason string) {
	el.WithFields(logrus.Fields{
		"game_id": gameID,
		"book":    book,
		"reason":  reason,
	}).Debug("Book quote dropped")
}

// LogGameExcluded logs a game left off the slate.
func (el *EngineLogger) LogGameExcluded(gameID, homeTeam, awayTeam, reason string) {
	el.WithFields(logrus.Fields{
		"game_id":   gameID,
		"home_team": homeTeam,
		"away_team": awayTeam,
		"reason":    reason,
	}).Warn("Game excluded from slate")
}

// LogSlateWarning logs a slate sanity check failure.
func (el *EngineLogger) LogSlateWarning(week int, warning string) {
	el.WithFields(logrus.Fields{
		"week":    week,
		"warning": warning,
	}).Warn("Slate warning")
}
