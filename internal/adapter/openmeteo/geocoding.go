package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
)

const sourceName = string(domain.ProvenanceOpenMeteo)

// Result counts requested from the gazetteer.
const (
	HybridCount     = 5
	StandaloneCount = 10
)

// GeocodingClient implements domain.GeocodeSource using the Open-Meteo geocoding API.
type GeocodingClient struct {
	httpClient *http.Client
	baseURL    string
	language   string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewGeocodingClient creates an Open-Meteo gazetteer client returning Japanese names.
func NewGeocodingClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *GeocodingClient {
	return &GeocodingClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:  baseURL,
		language: "ja",
		metrics:  metrics,
		logger:   logger,
	}
}

func (c *GeocodingClient) Name() string { return sourceName }

// Search queries the gazetteer for up to limit places.
func (c *GeocodingClient) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	if limit <= 0 {
		limit = HybridCount
	}

	params := url.Values{
		"name":     {query},
		"count":    {strconv.Itoa(limit)},
		"language": {c.language},
		"format":   {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	results, err := c.do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		c.metrics.ObserveGeocode(sourceName, observability.ErrorOutcome(err), elapsed)
		return nil, err
	}
	if len(results) == 0 {
		c.metrics.ObserveGeocode(sourceName, "empty", elapsed)
		return nil, nil
	}
	c.metrics.ObserveGeocode(sourceName, "success", elapsed)

	candidates := make([]domain.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, domain.Candidate{
			Source:      domain.ProvenanceOpenMeteo,
			ID:          r.ID,
			Name:        r.Name,
			Admin1:      r.Admin1,
			CountryCode: r.CountryCode,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		})
	}
	return candidates, nil
}

func (c *GeocodingClient) do(req *http.Request) ([]place, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open-meteo geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var gr geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	// No "results" key means nothing matched.
	return gr.Results, nil
}

// Open-Meteo geocoding response types.

type geocodingResponse struct {
	Results []place `json:"results"`
}

type place struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1"`
}
