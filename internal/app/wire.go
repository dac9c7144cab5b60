package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-lookup/internal/adapter/cache"
	"github.com/couchcryptid/weather-lookup/internal/adapter/gsi"
	"github.com/couchcryptid/weather-lookup/internal/adapter/heartrails"
	kafkaadapter "github.com/couchcryptid/weather-lookup/internal/adapter/kafka"
	"github.com/couchcryptid/weather-lookup/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-lookup/internal/adapter/yahoo"
	"github.com/couchcryptid/weather-lookup/internal/config"
	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/favorites"
	"github.com/couchcryptid/weather-lookup/internal/links"
	"github.com/couchcryptid/weather-lookup/internal/observability"
	"github.com/couchcryptid/weather-lookup/internal/search"
	"github.com/couchcryptid/weather-lookup/internal/storage"
	"github.com/couchcryptid/weather-lookup/internal/suncalc"
)

// Build wires a Service from configuration. The returned close function
// releases the store and the event writer.
func Build(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (*Service, func() error, error) {
	tz, err := time.LoadLocation(cfg.ForecastTimezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone: %w", err)
	}

	store, err := storage.Open(cfg.StoreBackend, cfg.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open favorites store: %w", err)
	}
	closers := []func() error{store.Close}

	var national domain.GeocodeSource = gsi.NewClient(cfg.GSIURL, cfg.UpstreamTimeout, metrics, logger)
	var gazetteer domain.GeocodeSource = openmeteo.NewGeocodingClient(cfg.OpenMeteoGeocodingURL, cfg.UpstreamTimeout, metrics, logger)
	if cfg.SearchCacheTTL > 0 {
		national = cache.NewCachedSource(national, cfg.SearchCacheTTL, cfg.SearchCacheSize, metrics)
		gazetteer = cache.NewCachedSource(gazetteer, cfg.SearchCacheTTL, cfg.SearchCacheSize, metrics)
		logger.Info("search cache enabled", "ttl", cfg.SearchCacheTTL, "size", cfg.SearchCacheSize)
	}

	var notifier favorites.Notifier
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		notifier = writer
		closers = append(closers, writer.Close)
		logger.Info("favorite events enabled", "topic", cfg.KafkaFavoritesTopic)
	}

	chain := links.NewChain(cfg.YahooWeatherURL, metrics, logger,
		yahoo.NewScraper(cfg.YahooWeatherURL, cfg.UpstreamTimeout, cfg.ScrapeRate, logger),
		links.NewPrefectureResolver(cfg.YahooWeatherURL),
	)

	svc := NewService(Deps{
		Searcher:  search.NewEngine(national, gazetteer, metrics, logger),
		Geocoder:  heartrails.NewClient(cfg.HeartRailsURL, cfg.UpstreamTimeout, metrics, logger),
		Forecasts: openmeteo.NewForecastClient(cfg.OpenMeteoForecastURL, cfg.ForecastTimezone, cfg.UpstreamTimeout, logger),
		Sun:       suncalc.New(tz),
		Links:     chain,
		Favorites: favorites.New(ctx, store, notifier, metrics, logger),
		Store:     store,
		Metrics:   metrics,
		Logger:    logger,
	})

	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	return svc, closeAll, nil
}
