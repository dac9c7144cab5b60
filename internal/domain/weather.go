package domain

import (
	"context"
	"time"
)

// ForecastUnavailableMessage is the only user-visible failure text.
const ForecastUnavailableMessage = "天気情報の取得に失敗しました。"

// CurrentWeather is the latest observation for a location.
type CurrentWeather struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	WeatherCode int     `json:"weather_code"`
}

// DailyForecast is one day of the weekly forecast.
type DailyForecast struct {
	Date        string  `json:"date"`
	WeatherCode int     `json:"weather_code"`
	MaxTemp     float64 `json:"max_temp"`
	MinTemp     float64 `json:"min_temp"`
}

// Forecast is the current + daily forecast for a coordinate pair.
type Forecast struct {
	Timezone string          `json:"timezone"`
	Current  CurrentWeather  `json:"current"`
	Daily    []DailyForecast `json:"daily"`
}

// ForecastProvider fetches forecasts by coordinates.
type ForecastProvider interface {
	Forecast(ctx context.Context, lat, lon float64) (Forecast, error)
}

// SunTimes holds sunrise and sunset in the forecast timezone.
type SunTimes struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}
