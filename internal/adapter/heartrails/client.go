package heartrails

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/antonholmquist/jason"
	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
)

const sourceName = "heartrails"

// Client implements domain.ReverseGeocoder using HeartRails Express getPostal.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a HeartRails Express client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// ReverseGeocode returns the postal code, city and town nearest to lat/lon.
// An upstream "error" object or an empty location list yields an empty result.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.PostalAddress, error) {
	// HeartRails takes x=longitude, y=latitude.
	params := url.Values{
		"method": {"getPostal"},
		"x":      {strconv.FormatFloat(lon, 'f', -1, 64)},
		"y":      {strconv.FormatFloat(lat, 'f', -1, 64)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.PostalAddress{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	result, outcome, err := c.do(req)
	c.metrics.ObserveGeocode(sourceName, outcome, time.Since(start).Seconds())
	return result, err
}

func (c *Client) do(req *http.Request) (domain.PostalAddress, string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.PostalAddress{}, observability.ErrorOutcome(err), fmt.Errorf("heartrails request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PostalAddress{}, "error", fmt.Errorf("heartrails API error: status %d", resp.StatusCode)
	}

	body, err := jason.NewObjectFromReader(resp.Body)
	if err != nil {
		return domain.PostalAddress{}, "error", fmt.Errorf("decode response: %w", err)
	}

	if msg, err := body.GetString("response", "error"); err == nil {
		c.logger.Debug("heartrails returned no location", "reason", msg)
		return domain.PostalAddress{}, "empty", nil
	}

	locations, err := body.GetObjectArray("response", "location")
	if err != nil {
		return domain.PostalAddress{}, "error", fmt.Errorf("decode response: %w", err)
	}
	if len(locations) == 0 {
		return domain.PostalAddress{}, "empty", nil
	}

	first := locations[0]
	return domain.PostalAddress{
		PostalCode: optionalString(first, "postal"),
		City:       optionalString(first, "city"),
		Town:       optionalString(first, "town"),
	}, "success", nil
}

func optionalString(o *jason.Object, key string) string {
	s, err := o.GetString(key)
	if err != nil {
		return ""
	}
	return s
}
