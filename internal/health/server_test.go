package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/scenario"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "poolctl", Version: "1.0.0"})
	h := s.Handler()

	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Empty(t, resp.LastRefresh)

	rec = get(t, h, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReportsLastRefresh(t *testing.T) {
	s := NewServer(Config{ServiceName: "poolctl"})
	s.RecordRefresh(&scenario.Leaderboard{
		Week:    6,
		Entries: []scenario.LeaderboardEntry{{Player: "bob"}, {Player: "alice"}},
	})

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(get(t, s.Handler(), "/health").Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.LastRefresh)
	assert.Equal(t, 6, resp.LeaderboardWeek)
	assert.Equal(t, "bob", resp.Leader)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		ready  bool
		db     DatabasePinger
		status int
		checks map[string]string
	}{
		{"not ready", false, nil, http.StatusServiceUnavailable, map[string]string{"service": "not_ready"}},
		{"ready without db", true, nil, http.StatusOK, map[string]string{"service": "ok"}},
		{"ready with db", true, stubPinger{}, http.StatusOK, map[string]string{"service": "ok", "database": "ok"}},
		{"db down", true, stubPinger{err: errors.New("refused")}, http.StatusServiceUnavailable,
			map[string]string{"service": "ok", "database": "error: refused"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "poolctl", DB: tt.db})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.status, rec.Code)
			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.checks, resp.Checks)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.InitRegistry()
	metrics.UpdatePlayerWinProbability("health_test_player", 0.25)

	s := NewServer(Config{MetricsPath: "/prom"})
	rec := get(t, s.Handler(), "/prom")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pool_edge_player_win_probability{player="health_test_player"} 0.25`)
}

func TestNewServerPort(t *testing.T) {
	assert.Equal(t, "9090", NewServer(Config{Port: 9090}).port)
	t.Setenv("HEALTH_PORT", "7070")
	assert.Equal(t, "7070", NewServer(Config{}).port)
}
