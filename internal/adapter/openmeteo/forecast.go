package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-lookup/internal/domain"
)

// ErrInvalidForecast is returned when the payload lacks current or daily data.
var ErrInvalidForecast = errors.New("invalid weather data received")

// ForecastClient implements domain.ForecastProvider using the Open-Meteo forecast API.
type ForecastClient struct {
	httpClient *http.Client
	baseURL    string
	timezone   string
	logger     *slog.Logger
}

// NewForecastClient creates a forecast client reporting daily values in timezone.
func NewForecastClient(baseURL, timezone string, timeout time.Duration, logger *slog.Logger) *ForecastClient {
	return &ForecastClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		timezone:   timezone,
		logger:     logger,
	}
}

// Forecast fetches the current temperature and weather code plus the daily forecast.
func (c *ForecastClient) Forecast(ctx context.Context, lat, lon float64) (domain.Forecast, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current":   {"temperature_2m,weather_code"},
		"daily":     {"weather_code,temperature_2m_max,temperature_2m_min"},
		"timezone":  {c.timezone},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Forecast{}, fmt.Errorf("weather API error: status %d: %s", resp.StatusCode, body)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return domain.Forecast{}, fmt.Errorf("decode response: %w", err)
	}
	return fr.toDomain()
}

// Open-Meteo forecast response types. Daily values are parallel arrays.

type forecastResponse struct {
	Timezone string        `json:"timezone"`
	Current  *currentBlock `json:"current"`
	Daily    *dailyBlock   `json:"daily"`
}

type currentBlock struct {
	Time          string  `json:"time"`
	Temperature2m float64 `json:"temperature_2m"`
	WeatherCode   int     `json:"weather_code"`
}

type dailyBlock struct {
	Time             []string  `json:"time"`
	WeatherCode      []int     `json:"weather_code"`
	Temperature2mMax []float64 `json:"temperature_2m_max"`
	Temperature2mMin []float64 `json:"temperature_2m_min"`
}

func (fr forecastResponse) toDomain() (domain.Forecast, error) {
	if fr.Current == nil || fr.Daily == nil {
		return domain.Forecast{}, ErrInvalidForecast
	}

	d := fr.Daily
	n := len(d.Time)
	if len(d.WeatherCode) != n || len(d.Temperature2mMax) != n || len(d.Temperature2mMin) != n {
		return domain.Forecast{}, fmt.Errorf("%w: daily arrays differ in length", ErrInvalidForecast)
	}

	daily := make([]domain.DailyForecast, n)
	for i := range n {
		daily[i] = domain.DailyForecast{
			Date:        d.Time[i],
			WeatherCode: d.WeatherCode[i],
			MaxTemp:     d.Temperature2mMax[i],
			MinTemp:     d.Temperature2mMin[i],
		}
	}

	return domain.Forecast{
		Timezone: fr.Timezone,
		Current: domain.CurrentWeather{
			Time:        fr.Current.Time,
			Temperature: fr.Current.Temperature2m,
			WeatherCode: fr.Current.WeatherCode,
		},
		Daily: daily,
	}, nil
}
