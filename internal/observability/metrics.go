package observability

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_lookup"

// Metrics holds the Prometheus counters, histograms, and gauges for the lookup service.
type Metrics struct {
	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: source={gsi,open-meteo,heartrails}, outcome={success,error,empty,canceled}
	GeocodeCache       *prometheus.CounterVec   // labels: source, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: source

	// Search metrics.
	SearchResults  prometheus.Histogram
	StaleSearches  prometheus.Counter
	ActiveSessions prometheus.Gauge

	FavoritesCount   prometheus.Gauge
	ForecastFailures prometheus.Counter
	LinkResolutions  *prometheus.CounterVec // labels: resolver, outcome={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by source and outcome.",
		}, []string{"source", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Search cache lookups by source and result.",
		}, []string{"source", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Upstream geocoding request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source"}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of merged candidates returned per search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 15},
		}),
		StaleSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_searches_total",
			Help:      "Searches discarded because a newer query superseded them.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_sessions",
			Help:      "Search sessions currently tracked.",
		}),
		FavoritesCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "favorites",
			Help:      "Number of user favorites (fixed entries excluded).",
		}),
		ForecastFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_failures_total",
			Help:      "Forecast requests that failed or returned an invalid payload.",
		}),
		LinkResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_resolutions_total",
			Help:      "Place link resolutions by resolver and outcome.",
		}, []string{"resolver", "outcome"}),
	}

	prometheus.MustRegister(
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.SearchResults,
		m.StaleSearches,
		m.ActiveSessions,
		m.FavoritesCount,
		m.ForecastFailures,
		m.LinkResolutions,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total"}, []string{"source", "outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_cache_total"}, []string{"source", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "geocode_api_duration_seconds"}, []string{"source"}),
		SearchResults:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "search_results"}),
		StaleSearches:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "stale_searches_total"}),
		ActiveSessions:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "search_sessions"}),
		FavoritesCount:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "favorites"}),
		ForecastFailures:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "forecast_failures_total"}),
		LinkResolutions:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "link_resolutions_total"}, []string{"resolver", "outcome"}),
	}
}

// ErrorOutcome labels a failed geocoding call. Calls abandoned because the
// caller went away are "canceled", not "error".
func ErrorOutcome(err error) string {
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "error"
}

// ObserveGeocode records one upstream geocoding call.
func (m *Metrics) ObserveGeocode(source, outcome string, seconds float64) {
	m.GeocodeRequests.WithLabelValues(source, outcome).Inc()
	m.GeocodeAPIDuration.WithLabelValues(source).Observe(seconds)
}
