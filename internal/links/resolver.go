package links

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
)

// Place identifies a place on a provider site.
type Place struct {
	// Prefecture is a prefecture name or Yahoo! area code. May be empty.
	Prefecture string
	City       string
}

// PlaceResolver finds a provider page for a place. ok is false when the
// resolver has no answer; resolvers never fail loudly.
type PlaceResolver interface {
	Name() string
	ResolvePlaceURL(ctx context.Context, place Place) (pageURL string, ok bool)
}

// PrefectureResolver maps a prefecture to its Yahoo! weather prefecture page
// using the static area-code table. It only answers for places without a
// city: prefecture pages list areas, not cities, so a city always goes
// through search instead.
type PrefectureResolver struct {
	baseURL string
}

// NewPrefectureResolver creates a resolver rooted at baseURL
// (https://weather.yahoo.co.jp in production).
func NewPrefectureResolver(baseURL string) *PrefectureResolver {
	return &PrefectureResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

func (r *PrefectureResolver) Name() string { return "prefecture" }

func (r *PrefectureResolver) ResolvePlaceURL(_ context.Context, place Place) (string, bool) {
	if place.City != "" {
		return "", false
	}
	code, ok := domain.AreaCode(place.Prefecture)
	if !ok {
		return "", false
	}
	return r.baseURL + "/weather/jp/" + code + "/", true
}

// Chain tries resolvers in order and falls back to the Yahoo! weather search
// page for the city, so it always yields a URL.
type Chain struct {
	resolvers []PlaceResolver
	baseURL   string
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewChain creates a chain. baseURL roots the fallback search URL.
func NewChain(baseURL string, metrics *observability.Metrics, logger *slog.Logger, resolvers ...PlaceResolver) *Chain {
	return &Chain{
		resolvers: resolvers,
		baseURL:   strings.TrimRight(baseURL, "/"),
		metrics:   metrics,
		logger:    logger,
	}
}

// Resolve returns the most specific page any resolver knows for place.
func (c *Chain) Resolve(ctx context.Context, place Place) string {
	for _, r := range c.resolvers {
		if u, ok := r.ResolvePlaceURL(ctx, place); ok {
			c.metrics.LinkResolutions.WithLabelValues(r.Name(), "hit").Inc()
			return u
		}
		c.metrics.LinkResolutions.WithLabelValues(r.Name(), "miss").Inc()
	}
	c.logger.Debug("place link fallback", "prefecture", place.Prefecture, "city", place.City)
	return SearchURL(c.baseURL, place.City)
}

// SearchURL is the Yahoo! weather search page for city.
func SearchURL(baseURL, city string) string {
	return strings.TrimRight(baseURL, "/") + "/weather/search/?k=" + escape(city)
}
