// Package health serves liveness, readiness and metrics endpoints for the
// long-running watch mode.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/scenario"
)

const (
	defaultPort     = "8080"
	pingTimeout     = 3 * time.Second
	shutdownTimeout = 5 * time.Second
)

// DatabasePinger checks standings store connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of /health and /live.
type HealthResponse struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	Timestamp       string `json:"timestamp,omitempty"`
	Version         string `json:"version,omitempty"`
	LastRefresh     string `json:"last_refresh,omitempty"`
	LeaderboardWeek int    `json:"leaderboard_week,omitempty"`
	Leader          string `json:"leader,omitempty"`
}

// ReadyResponse is the body of /ready.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Port        int
	MetricsPath string
	Logger      *logrus.Logger
	DB          DatabasePinger
}

// refresh is what the last leaderboard run left behind.
type refresh struct {
	at     time.Time
	week   int
	leader string
}

// Server is a small HTTP server for liveness and readiness checks and Prometheus scraping.
type Server struct {
	cfg    Config
	port   string
	log    *logrus.Logger
	ready  atomic.Bool
	server *http.Server

	mu   sync.RWMutex
	last refresh
}

// NewServer creates a health server. Port falls back to HEALTH_PORT, then
// 8080.
func NewServer(cfg Config) *Server {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	return &Server{
		cfg:  cfg,
		port: resolvePort(cfg.Port),
		log:  logger.OrDiscard(cfg.Logger),
	}
}

func resolvePort(port int) string {
	if port > 0 {
		return strconv.Itoa(port)
	}
	if env := os.Getenv("HEALTH_PORT"); env != "" {
		return env
	}
	return defaultPort
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) { s.ready.Store(ready) }

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool { return s.ready.Load() }

// RecordRefresh stores the latest leaderboard for /health.
func (s *Server) RecordRefresh(board *scenario.Leaderboard) {
	r := refresh{at: time.Now().UTC()}
	if board != nil {
		r.week = board.Week
		if len(board.Entries) > 0 {
			r.leader = board.Entries[0].Player
		}
	}

	s.mu.Lock()
	s.last = r
	s.mu.Unlock()
}

// Handler returns the endpoint mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle(s.cfg.MetricsPath, metrics.Handler())
	return mux
}

// Start serves in the background and shuts down once ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	entry := s.log.WithFields(logrus.Fields{
		"port":    s.port,
		"service": s.cfg.ServiceName,
		"metrics": s.cfg.MetricsPath,
	})
	go func() {
		entry.Info("Health server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			entry.WithError(err).Error("Health server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			entry.WithError(err).Warn("Health server shutdown failed")
		}
	}()
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	resp := HealthResponse{
		Status:          "ok",
		Service:         s.cfg.ServiceName,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Version:         s.cfg.Version,
		LeaderboardWeek: last.week,
		Leader:          last.leader,
	}
	if !last.at.IsZero() {
		resp.LastRefresh = last.at.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: s.cfg.ServiceName})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp := ReadyResponse{Status: "ok", Service: s.cfg.ServiceName, Checks: map[string]string{}}
	fail := func(check, detail string) {
		resp.Status = "not_ready"
		resp.Checks[check] = detail
	}

	resp.Checks["service"] = "ok"
	if !s.IsReady() {
		fail("service", "not_ready")
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		resp.Checks["database"] = "ok"
		if err := s.cfg.DB.Ping(ctx); err != nil {
			fail("database", fmt.Sprintf("error: %v", err))
		}
	}

	resp.Duration = time.Since(start).String()
	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
