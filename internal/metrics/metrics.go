// Package metrics provides centralized Prometheus metrics registry for the pool engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Odds source metrics
var (
	OddsRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "odds_requests_total",
		Help:      "Total number of odds source requests by source and status",
	}, []string{"source", "status"})
	OddsRequestsRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pool_edge",
		Name:      "odds_requests_remaining",
		Help:      "Remaining request quota reported by the odds API",
	})
	OddsCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "odds_cache_hits_total",
		Help:      "Total number of odds snapshot cache hits",
	})
	OddsBooksDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "odds_books_dropped_total",
		Help:      "Book quotes dropped from consensus by reason",
	}, []string{"reason"})
	OddsGamesExcludedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "odds_games_excluded_total",
		Help:      "Games excluded from a slate for lack of usable quotes",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pool_edge",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register odds metrics
		registry.MustRegister(OddsRequestsTotal)
		registry.MustRegister(OddsRequestsRemaining)
		registry.MustRegister(OddsCacheHitsTotal)
		registry.MustRegister(OddsBooksDroppedTotal)
		registry.MustRegister(OddsGamesExcludedTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register simulation metrics
		registry.MustRegister(SimulationRunsTotal)
		registry.MustRegister(SimulationTrialsTotal)
		registry.MustRegister(SimulationDuration)

		// Register scenario metrics
		registry.MustRegister(ScenarioAnalysesTotal)
		registry.MustRegister(ScenariosEnumeratedTotal)
		registry.MustRegister(ScenarioCapacityRejectionsTotal)
		registry.MustRegister(ScenarioAnalysisDuration)
		registry.MustRegister(PlayerWinProbability)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordOddsRequest records an odds source request.
// status should be one of: "success", "failure", "cached"
func RecordOddsRequest(source, status string) {
	OddsRequestsTotal.WithLabelValues(source, status).Inc()
}

// UpdateOddsRequestsRemaining updates the remaining quota gauge.
func UpdateOddsRequestsRemaining(remaining float64) {
	OddsRequestsRemaining.Set(remaining)
}

// RecordOddsCacheHit records a snapshot served from cache.
func RecordOddsCacheHit() {
	OddsCacheHitsTotal.Inc()
}

// RecordBookDropped records a book that could not contribute to a consensus.
// reason should be one of: "missing_price", "degenerate"
func RecordBookDropped(reason string) {
	OddsBooksDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordGameExcluded records a game dropped from a slate.
func RecordGameExcluded() {
	OddsGamesExcludedTotal.Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
