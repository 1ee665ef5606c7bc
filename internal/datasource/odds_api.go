package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/models"
)

const (
	oddsAPISourceName    = "the_odds_api"
	remainingQuotaHeader = "x-requests-remaining"
	usedQuotaHeader      = "x-requests-used"
	h2hMarket            = "h2h"
)

// OddsAPIClient implements OddsSource for The Odds API v4
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	cfg        config.OddsAPIConfig
	logger     *logrus.Entry
}

// OddsAPIEvent is one event in the /odds response
type OddsAPIEvent struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	CommenceTime time.Time          `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []OddsAPIBookmaker `json:"bookmakers"`
}

// OddsAPIBookmaker is one book's markets for an event
type OddsAPIBookmaker struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	LastUpdate time.Time       `json:"last_update"`
	Markets    []OddsAPIMarket `json:"markets"`
}

// OddsAPIMarket is a single market such as h2h
type OddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []OddsAPIOutcome `json:"outcomes"`
}

// OddsAPIOutcome is a named price. Prices arrive as JSON numbers and are kept
// exact until rounded to the American integer.
type OddsAPIOutcome struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NewOddsAPIClient creates a new odds API client
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, cfg config.OddsAPIConfig, log *logrus.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger.OrDiscard(log).WithField("source", oddsAPISourceName),
	}
}

// Name returns the name of the odds source
func (c *OddsAPIClient) Name() string {
	return oddsAPISourceName
}

// FetchQuotes retrieves head-to-head quotes for games commencing in [from, to)
func (c *OddsAPIClient) FetchQuotes(ctx context.Context, from, to time.Time) ([]models.GameQuotes, error) {
	if c.cfg.APIKey == "" {
		metrics.RecordOddsRequest(oddsAPISourceName, "error")
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "api key is not configured", ErrAuthenticationFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.oddsURL(from, to), nil)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		metrics.RecordOddsRequest(oddsAPISourceName, "error")
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	c.recordQuota(resp.Header)

	// Handle authentication errors
	if resp.StatusCode == http.StatusUnauthorized {
		metrics.RecordOddsRequest(oddsAPISourceName, "unauthorized")
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	}

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		metrics.RecordOddsRequest(oddsAPISourceName, "rate_limited")
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		metrics.RecordOddsRequest(oddsAPISourceName, "error")
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var events []OddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		metrics.RecordOddsRequest(oddsAPISourceName, "invalid")
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	metrics.RecordOddsRequest(oddsAPISourceName, "success")

	quotes := ConvertEvents(events, from, to)
	c.logger.WithFields(logrus.Fields{
		"events": len(events),
		"games":  len(quotes),
		"from":   from.Format(time.RFC3339),
		"to":     to.Format(time.RFC3339),
	}).Info("Fetched odds")
	return quotes, nil
}

func (c *OddsAPIClient) oddsURL(from, to time.Time) string {
	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("regions", c.cfg.Regions)
	q.Set("markets", c.cfg.Markets)
	q.Set("oddsFormat", c.cfg.OddsFormat)
	q.Set("dateFormat", "iso")
	q.Set("commenceTimeFrom", from.UTC().Format("2006-01-02T15:04:05Z"))
	q.Set("commenceTimeTo", to.UTC().Format("2006-01-02T15:04:05Z"))
	return fmt.Sprintf("%s/sports/%s/odds?%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Sport, q.Encode())
}

func (c *OddsAPIClient) recordQuota(h http.Header) {
	remaining := h.Get(remainingQuotaHeader)
	if remaining == "" {
		return
	}
	n, err := strconv.ParseFloat(remaining, 64)
	if err != nil {
		return
	}
	metrics.UpdateOddsRequestsRemaining(n)
	c.logger.WithFields(logrus.Fields{
		"requests_remaining": n,
		"requests_used":      h.Get(usedQuotaHeader),
	}).Debug("Odds API quota")
}

// ConvertEvents maps API events to quotes, keeping games that commence in
// [from, to). A zero bound is open. A book missing a side keeps a nil price so
// the aggregator can drop it.
func ConvertEvents(events []OddsAPIEvent, from, to time.Time) []models.GameQuotes {
	quotes := make([]models.GameQuotes, 0, len(events))
	for _, ev := range events {
		if !from.IsZero() && ev.CommenceTime.Before(from) {
			continue
		}
		if !to.IsZero() && !ev.CommenceTime.Before(to) {
			continue
		}
		gq := models.GameQuotes{
			ID:           ev.ID,
			HomeTeam:     ev.HomeTeam,
			AwayTeam:     ev.AwayTeam,
			CommenceTime: ev.CommenceTime,
		}
		for _, bm := range ev.Bookmakers {
			for _, m := range bm.Markets {
				if m.Key != h2hMarket {
					continue
				}
				bq := models.BookQuote{Title: bm.Title}
				for _, o := range m.Outcomes {
					price := int(o.Price.Round(0).IntPart())
					switch o.Name {
					case ev.HomeTeam:
						bq.HomePrice = models.IntPtr(price)
					case ev.AwayTeam:
						bq.AwayPrice = models.IntPtr(price)
					}
				}
				gq.Books = append(gq.Books, bq)
			}
		}
		quotes = append(quotes, gq)
	}
	return quotes
}
