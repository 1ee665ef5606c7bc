package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/models"
)

const sampleOdds = `[
  {
    "id": "evt-1",
    "sport_key": "americanfootball_nfl",
    "commence_time": "2025-09-07T17:00:00Z",
    "home_team": "Buffalo Bills",
    "away_team": "Miami Dolphins",
    "bookmakers": [
      {
        "key": "draftkings",
        "title": "DraftKings",
        "last_update": "2025-09-06T12:00:00Z",
        "markets": [
          {"key": "h2h", "outcomes": [
            {"name": "Buffalo Bills", "price": -150},
            {"name": "Miami Dolphins", "price": 130}
          ]}
        ]
      },
      {
        "key": "pinnacle",
        "title": "Pinnacle",
        "last_update": "2025-09-06T12:00:00Z",
        "markets": [
          {"key": "spreads", "outcomes": [{"name": "Buffalo Bills", "price": -110, "point": -3.5}]},
          {"key": "h2h", "outcomes": [{"name": "Buffalo Bills", "price": -145.0}]}
        ]
      }
    ]
  },
  {
    "id": "evt-2",
    "sport_key": "americanfootball_nfl",
    "commence_time": "2025-09-20T17:00:00Z",
    "home_team": "Dallas Cowboys",
    "away_team": "New York Giants",
    "bookmakers": []
  }
]`

var (
	windowFrom = time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC)
	windowTo   = time.Date(2025, 9, 11, 0, 0, 0, 0, time.UTC)
)

func testOddsConfig(baseURL string) config.OddsAPIConfig {
	return config.OddsAPIConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Sport:      "americanfootball_nfl",
		Regions:    "us",
		Markets:    "h2h",
		OddsFormat: "american",
	}
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 100
	cfg.Burst = 10
	cfg.CircuitBreakerMax = 2
	return NewRateLimitedHTTPClient(cfg, nil)
}

func TestOddsAPIClientFetchQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sports/americanfootball_nfl/odds", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("apiKey"))
		assert.Equal(t, "h2h", q.Get("markets"))
		assert.Equal(t, "american", q.Get("oddsFormat"))
		assert.Equal(t, "2025-09-04T00:00:00Z", q.Get("commenceTimeFrom"))

		w.Header().Set("x-requests-remaining", "487")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleOdds))
	}))
	defer srv.Close()

	client := NewOddsAPIClient(testHTTPClient(), testOddsConfig(srv.URL), nil)
	quotes, err := client.FetchQuotes(context.Background(), windowFrom, windowTo)
	require.NoError(t, err)

	require.Len(t, quotes, 1, "the second event is outside the window")
	q := quotes[0]
	assert.Equal(t, "evt-1", q.ID)
	assert.Equal(t, "Buffalo Bills", q.HomeTeam)
	require.Len(t, q.Books, 2)

	assert.Equal(t, "DraftKings", q.Books[0].Title)
	require.NotNil(t, q.Books[0].HomePrice)
	assert.Equal(t, -150, *q.Books[0].HomePrice)
	assert.Equal(t, 130, *q.Books[0].AwayPrice)

	assert.Equal(t, -145, *q.Books[1].HomePrice)
	assert.Nil(t, q.Books[1].AwayPrice)

	assert.Equal(t, 487.0, testutil.ToFloat64(metrics.OddsRequestsRemaining))
	assert.Equal(t, "the_odds_api", client.Name())
}

func TestOddsAPIClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewOddsAPIClient(testHTTPClient(), testOddsConfig(srv.URL), nil)
	_, err := client.FetchQuotes(context.Background(), windowFrom, windowTo)
	require.Error(t, err)

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeAuthenticationFailed, dsErr.Code)
	assert.True(t, errors.Is(err, ErrAuthenticationFailed))
}

func TestOddsAPIClientMissingKey(t *testing.T) {
	cfg := testOddsConfig("http://127.0.0.1:1")
	cfg.APIKey = ""

	_, err := NewOddsAPIClient(testHTTPClient(), cfg, nil).FetchQuotes(context.Background(), windowFrom, windowTo)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestOddsAPIClientInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "not a list"}`))
	}))
	defer srv.Close()

	_, err := NewOddsAPIClient(testHTTPClient(), testOddsConfig(srv.URL), nil).FetchQuotes(context.Background(), windowFrom, windowTo)
	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeInvalidData, dsErr.Code)
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := testHTTPClient()
	before := testutil.ToFloat64(metrics.CircuitBreakerTripsTotal)

	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), srv.URL)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.True(t, client.IsOpen())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CircuitBreakerTripsTotal))

	_, err := client.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	client.Reset()
	assert.False(t, client.IsOpen())
}

func TestFileOddsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odds.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleOdds), 0o644))

	src := NewFileOddsSource(path, nil)
	quotes, err := src.FetchQuotes(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, quotes, 2)

	quotes, err = src.FetchQuotes(context.Background(), windowFrom, windowTo)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)

	_, err = NewFileOddsSource(filepath.Join(t.TempDir(), "missing.json"), nil).
		FetchQuotes(context.Background(), windowFrom, windowTo)
	assert.ErrorIs(t, err, ErrNotFound)
}

type countingSource struct {
	calls int
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) FetchQuotes(ctx context.Context, from, to time.Time) ([]models.GameQuotes, error) {
	c.calls++
	return []models.GameQuotes{{ID: "g1", HomeTeam: "A", AwayTeam: "B"}}, nil
}

func TestCachedOddsSource(t *testing.T) {
	inner := &countingSource{}
	cached := NewCachedOddsSource(inner, time.Minute)
	hitsBefore := testutil.ToFloat64(metrics.OddsCacheHitsTotal)

	for i := 0; i < 3; i++ {
		quotes, err := cached.FetchQuotes(context.Background(), windowFrom, windowTo)
		require.NoError(t, err)
		assert.Len(t, quotes, 1)
	}
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, hitsBefore+2, testutil.ToFloat64(metrics.OddsCacheHitsTotal))

	_, err := cached.FetchQuotes(context.Background(), windowTo, windowTo.Add(7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	cached.Invalidate()
	_, err = cached.FetchQuotes(context.Background(), windowFrom, windowTo)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, "counting", cached.Name())
}

func TestFactoryPrefersSnapshot(t *testing.T) {
	cfg := &config.Config{OddsAPI: testOddsConfig("https://api.the-odds-api.com/v4")}
	cfg.OddsAPI.SnapshotFile = "testdata/odds.json"
	cfg.OddsAPI.CacheTTLSeconds = 60

	f := NewFactory(cfg, nil)
	assert.Equal(t, FileSourceType, f.SourceType())
	src, err := f.NewOddsSource()
	require.NoError(t, err)
	_, isCached := src.(*CachedOddsSource)
	assert.True(t, isCached)
	assert.Equal(t, "file", src.Name())

	cfg.OddsAPI.SnapshotFile = ""
	cfg.OddsAPI.APIKey = ""
	_, err = NewFactory(cfg, nil).NewOddsSource()
	assert.Error(t, err)
}
