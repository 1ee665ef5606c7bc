// Package metrics defines simulation-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SimulationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "simulation_runs_total",
		Help:      "Total number of strategy simulations by strategy and status",
	}, []string{"strategy", "status"})
	SimulationTrialsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "simulation_trials_total",
		Help:      "Total number of simulated weeks",
	})
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pool_edge",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of strategy simulations in seconds",
		Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// RecordSimulationRun records a finished simulation.
// status should be one of: "success", "failure", "cancelled"
func RecordSimulationRun(strategy, status string, trials int, durationSeconds float64) {
	SimulationRunsTotal.WithLabelValues(strategy, status).Inc()
	if trials > 0 {
		SimulationTrialsTotal.Add(float64(trials))
	}
	SimulationDuration.Observe(durationSeconds)
}
