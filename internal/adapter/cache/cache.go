package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
)

// CachedSource wraps a GeocodeSource with an in-memory TTL cache.
type CachedSource struct {
	inner      domain.GeocodeSource
	cache      *gocache.Cache
	maxEntries int
	metrics    *observability.Metrics
}

// NewCachedSource creates a cache decorator around a geocode source. Entries
// expire after ttl; at most maxEntries live results are kept.
func NewCachedSource(inner domain.GeocodeSource, ttl time.Duration, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner: inner,
		// No janitor goroutine: expired items are dropped on read or when full.
		cache:      gocache.New(ttl, 0),
		maxEntries: maxEntries,
		metrics:    metrics,
	}
}

func (c *CachedSource) Name() string { return c.inner.Name() }

func (c *CachedSource) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	key := fmt.Sprintf("%s|%d", query, limit)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues(c.Name(), "hit").Inc()
		return cloneCandidates(v.([]domain.Candidate)), nil
	}
	c.metrics.GeocodeCache.WithLabelValues(c.Name(), "miss").Inc()

	result, err := c.inner.Search(ctx, query, limit)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if len(result) > 0 && c.reserve() {
		c.cache.SetDefault(key, cloneCandidates(result))
	}
	return result, nil
}

// reserve reports whether there is room for one more entry.
func (c *CachedSource) reserve() bool {
	if c.cache.ItemCount() < c.maxEntries {
		return true
	}
	c.cache.DeleteExpired()
	return c.cache.ItemCount() < c.maxEntries
}

func cloneCandidates(in []domain.Candidate) []domain.Candidate {
	out := make([]domain.Candidate, len(in))
	copy(out, in)
	return out
}
