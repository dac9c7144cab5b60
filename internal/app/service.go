// Package app composes search, reverse geocoding, forecasts, provider links
// and favorites into the operations exposed by the HTTP API and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/favorites"
	"github.com/couchcryptid/weather-lookup/internal/links"
	"github.com/couchcryptid/weather-lookup/internal/observability"
	"github.com/couchcryptid/weather-lookup/internal/search"
	"github.com/couchcryptid/weather-lookup/internal/storage"
	"github.com/couchcryptid/weather-lookup/internal/suncalc"
)

// ErrForecastUnavailable wraps every forecast failure. Its message is the
// one shown to users.
var ErrForecastUnavailable = errors.New(domain.ForecastUnavailableMessage)

// Deps are the collaborators of a Service. Geocoder may be nil, which
// disables enrichment; Sun may be nil, which omits sun times.
type Deps struct {
	Searcher  search.Searcher
	Geocoder  domain.ReverseGeocoder
	Forecasts domain.ForecastProvider
	Sun       *suncalc.Calculator
	Links     *links.Chain
	Favorites *favorites.Store
	Store     storage.Store
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// Service is the application layer.
type Service struct {
	searcher  search.Searcher
	geocoder  domain.ReverseGeocoder
	forecasts domain.ForecastProvider
	sun       *suncalc.Calculator
	links     *links.Chain
	favorites *favorites.Store
	store     storage.Store
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewService creates a service from its dependencies.
func NewService(d Deps) *Service {
	return &Service{
		searcher:  d.Searcher,
		geocoder:  d.Geocoder,
		forecasts: d.Forecasts,
		sun:       d.Sun,
		links:     d.Links,
		favorites: d.Favorites,
		store:     d.Store,
		metrics:   d.Metrics,
		logger:    d.Logger,
	}
}

// Search runs a one-shot search in mode.
func (s *Service) Search(ctx context.Context, query string, mode search.Mode) []domain.Candidate {
	if mode == search.ModeGazetteer {
		return s.searcher.SearchGazetteer(ctx, query)
	}
	return s.searcher.Search(ctx, query)
}

// NewSession starts a typeahead session whose superseded searches go stale.
func (s *Service) NewSession() *search.Session {
	return search.NewSession(s.searcher)
}

// PostalAddress reverse-geocodes a coordinate pair. Unlike Select, upstream
// errors are returned.
func (s *Service) PostalAddress(ctx context.Context, lat, lon float64) (domain.PostalAddress, error) {
	if s.geocoder == nil {
		return domain.PostalAddress{}, errors.New("reverse geocoding disabled")
	}
	return s.geocoder.ReverseGeocode(ctx, lat, lon)
}

// Select turns the chosen candidate into a resolved location. It never fails.
func (s *Service) Select(ctx context.Context, c domain.Candidate) domain.ResolvedLocation {
	return domain.ResolveCandidate(ctx, c, s.geocoder, s.logger)
}

// Forecast returns the forecast for a coordinate pair with labels, icons and
// sun times. Any upstream or payload problem yields ErrForecastUnavailable.
func (s *Service) Forecast(ctx context.Context, lat, lon float64) (ForecastReport, error) {
	f, err := s.forecasts.Forecast(ctx, lat, lon)
	if err != nil {
		s.metrics.ForecastFailures.Inc()
		s.logger.Warn("forecast failed", "lat", lat, "lon", lon, "error", err)
		return ForecastReport{}, fmt.Errorf("%w: %w", ErrForecastUnavailable, err)
	}

	report := newForecastReport(f)
	if s.sun != nil {
		times, err := s.sun.Today(lat, lon)
		if err != nil {
			s.logger.Debug("sun times unavailable", "lat", lat, "lon", lon, "error", err)
		} else {
			report.Sun = &times
		}
	}
	return report, nil
}

// Links returns the provider links for loc, ending with its Yahoo! weather
// page.
func (s *Service) Links(ctx context.Context, loc domain.ResolvedLocation) []links.ProviderLink {
	out := links.ProviderLinks(loc)
	if s.links == nil {
		return out
	}
	place := links.Place{City: loc.Name}
	place.Prefecture, _ = domain.PrefectureOf(loc)
	if place.Prefecture == loc.Name {
		place.City = ""
	}
	return append(out, links.ProviderLink{
		Name:        links.YahooCity,
		URL:         s.links.Resolve(ctx, place),
		Description: "Yahoo!天気の地域ページを表示します。",
	})
}

// YahooLink resolves the Yahoo! weather page for a place.
func (s *Service) YahooLink(ctx context.Context, place links.Place) string {
	return s.links.Resolve(ctx, place)
}

// Favorites exposes the favorites store.
func (s *Service) Favorites() *favorites.Store {
	return s.favorites
}

// CheckReadiness reports whether the favorites backend is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("favorites store: %w", err)
	}
	return nil
}
