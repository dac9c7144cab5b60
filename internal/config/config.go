package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream endpoints.
	GSIURL                string
	OpenMeteoGeocodingURL string
	OpenMeteoForecastURL  string
	HeartRailsURL         string
	YahooWeatherURL       string
	UpstreamTimeout       time.Duration

	// Search result cache. A zero TTL disables caching.
	SearchCacheTTL  time.Duration
	SearchCacheSize int

	ForecastTimezone string

	// Favorites persistence.
	StoreBackend string
	StorePath    string

	// Requests per second allowed against the Yahoo! weather search page.
	ScrapeRate float64

	// Optional favorites change events.
	KafkaEnabled        bool
	KafkaBrokers        []string
	KafkaFavoritesTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "5s", false)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parseDuration("SEARCH_CACHE_TTL", "10m", true)
	if err != nil {
		return nil, err
	}

	scrapeRate, err := parseScrapeRate()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GSIURL:                sharedcfg.EnvOrDefault("GSI_URL", "https://msearch.gsi.go.jp/address-search/AddressSearch"),
		OpenMeteoGeocodingURL: sharedcfg.EnvOrDefault("OPEN_METEO_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
		OpenMeteoForecastURL:  sharedcfg.EnvOrDefault("OPEN_METEO_FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
		HeartRailsURL:         sharedcfg.EnvOrDefault("HEARTRAILS_URL", "https://express.heartrails.com/api/json"),
		YahooWeatherURL:       sharedcfg.EnvOrDefault("YAHOO_WEATHER_URL", "https://weather.yahoo.co.jp"),
		UpstreamTimeout:       upstreamTimeout,

		SearchCacheTTL:  cacheTTL,
		SearchCacheSize: parsePositiveInt("SEARCH_CACHE_SIZE", 1000),

		ForecastTimezone: sharedcfg.EnvOrDefault("FORECAST_TIMEZONE", "Asia/Tokyo"),

		StoreBackend: sharedcfg.EnvOrDefault("STORE_BACKEND", StoreFile),
		StorePath:    sharedcfg.EnvOrDefault("STORE_PATH", "data"),

		ScrapeRate: scrapeRate,

		KafkaEnabled:        kafkaEnabled,
		KafkaBrokers:        brokers,
		KafkaFavoritesTopic: sharedcfg.EnvOrDefault("KAFKA_FAVORITES_TOPIC", "weather-favorites"),
	}

	if cfg.StoreBackend != StoreFile && cfg.StoreBackend != StoreSQLite {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want %q or %q", cfg.StoreBackend, StoreFile, StoreSQLite)
	}
	if cfg.StorePath == "" {
		return nil, errors.New("STORE_PATH is required")
	}
	if _, err := time.LoadLocation(cfg.ForecastTimezone); err != nil {
		return nil, fmt.Errorf("invalid FORECAST_TIMEZONE: %w", err)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func parseDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseScrapeRate() (float64, error) {
	s := sharedcfg.EnvOrDefault("SCRAPE_RATE", "1")
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r <= 0 {
		return 0, errors.New("invalid SCRAPE_RATE")
	}
	return r, nil
}
