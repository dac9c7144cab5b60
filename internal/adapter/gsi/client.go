package gsi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
)

const (
	sourceName = string(domain.ProvenanceGSI)

	// MaxResults caps the candidates taken from one response.
	MaxResults = 5
)

// Client implements domain.GeocodeSource using the GSI address search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a GSI address search client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *Client) Name() string { return sourceName }

// Search queries the national address index. The upstream has no limit
// parameter, so the response is truncated to min(limit, MaxResults).
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	u := c.baseURL + "?" + url.Values{"q": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	features, err := c.do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		c.metrics.ObserveGeocode(sourceName, observability.ErrorOutcome(err), elapsed)
		return nil, err
	}
	if len(features) == 0 {
		c.metrics.ObserveGeocode(sourceName, "empty", elapsed)
		return nil, nil
	}
	c.metrics.ObserveGeocode(sourceName, "success", elapsed)

	if len(features) > limit {
		features = features[:limit]
	}

	candidates := make([]domain.Candidate, 0, len(features))
	for i, f := range features {
		if len(f.Geometry.Coordinates) < 2 {
			c.logger.Debug("gsi feature without coordinates", "title", f.Properties.Title)
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Source:      domain.ProvenanceGSI,
			ID:          int64(domain.GSIIDOffset + i),
			Name:        f.Properties.Title,
			Admin1:      domain.GSIRegionMarker,
			CountryCode: domain.CountryJapan,
			Latitude:    f.Geometry.Coordinates[1],
			Longitude:   f.Geometry.Coordinates[0],
		})
	}
	return candidates, nil
}

func (c *Client) do(req *http.Request) ([]feature, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gsi address search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gsi API error: status %d: %s", resp.StatusCode, body)
	}

	var features []feature
	if err := json.NewDecoder(resp.Body).Decode(&features); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return features, nil
}

// GSI API response types. The response is a bare GeoJSON feature array.

type feature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
	Properties struct {
		Title string `json:"title"`
	} `json:"properties"`
}
