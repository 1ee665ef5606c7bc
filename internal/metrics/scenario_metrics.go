// Package metrics defines scenario-analysis metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ScenarioAnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "scenario_analyses_total",
		Help:      "Total number of scenario analyses by mode and status",
	}, []string{"mode", "status"})
	ScenariosEnumeratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "scenarios_enumerated_total",
		Help:      "Total number of outcome scenarios enumerated",
	})
	ScenarioCapacityRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "scenario_capacity_rejections_total",
		Help:      "Analyses refused because too many games were pending",
	})
	ScenarioAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pool_edge",
		Name:      "scenario_analysis_duration_seconds",
		Help:      "Duration of scenario analyses in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PlayerWinProbability = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pool_edge",
		Name:      "player_win_probability",
		Help:      "Latest weekly win probability per player",
	}, []string{"player"})
)

// RecordScenarioAnalysis records a finished analysis.
// mode should be one of: "summary", "detailed", "leaderboard"
// status should be one of: "success", "failure", "cancelled", "capacity", "terminal"
func RecordScenarioAnalysis(mode, status string, scenarios uint64, durationSeconds float64) {
	ScenarioAnalysesTotal.WithLabelValues(mode, status).Inc()
	ScenariosEnumeratedTotal.Add(float64(scenarios))
	ScenarioAnalysisDuration.Observe(durationSeconds)
}

// RecordCapacityRejection records an analysis refused at the capacity check.
func RecordCapacityRejection() {
	ScenarioCapacityRejectionsTotal.Inc()
}

// UpdatePlayerWinProbability publishes a player's current win probability.
func UpdatePlayerWinProbability(player string, probability float64) {
	PlayerWinProbability.WithLabelValues(player).Set(probability)
}
