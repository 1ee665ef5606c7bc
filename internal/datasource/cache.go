package datasource

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/models"
)

// CachedOddsSource memoizes another source's responses per time window
type CachedOddsSource struct {
	source OddsSource
	cache  *cache.Cache
	ttl    time.Duration
}

// NewCachedOddsSource wraps source with a TTL cache
func NewCachedOddsSource(source OddsSource, ttl time.Duration) *CachedOddsSource {
	return &CachedOddsSource{
		source: source,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
	}
}

// Name returns the wrapped source's name
func (c *CachedOddsSource) Name() string {
	return c.source.Name()
}

// FetchQuotes returns cached quotes for the window when fresh
func (c *CachedOddsSource) FetchQuotes(ctx context.Context, from, to time.Time) ([]models.GameQuotes, error) {
	key := fmt.Sprintf("%s:%d:%d", c.source.Name(), from.Unix(), to.Unix())
	if cached, found := c.cache.Get(key); found {
		if quotes, ok := cached.([]models.GameQuotes); ok {
			metrics.RecordOddsCacheHit()
			return quotes, nil
		}
	}

	quotes, err := c.source.FetchQuotes(ctx, from, to)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, quotes, c.ttl)
	return quotes, nil
}

// Invalidate drops every cached response
func (c *CachedOddsSource) Invalidate() {
	c.cache.Flush()
}
