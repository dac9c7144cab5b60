package app

import "github.com/couchcryptid/weather-lookup/internal/domain"

// ForecastReport is a forecast annotated for display.
type ForecastReport struct {
	Timezone string           `json:"timezone"`
	Current  CurrentReport    `json:"current"`
	Daily    []DailyReport    `json:"daily"`
	Sun      *domain.SunTimes `json:"sun,omitempty"`
}

// CurrentReport is the current observation with its label and icon.
type CurrentReport struct {
	domain.CurrentWeather
	Description string             `json:"description"`
	Icon        domain.WeatherIcon `json:"icon"`
}

// DailyReport is one forecast day with its label and icon.
type DailyReport struct {
	domain.DailyForecast
	Description string             `json:"description"`
	Icon        domain.WeatherIcon `json:"icon"`
}

func newForecastReport(f domain.Forecast) ForecastReport {
	r := ForecastReport{
		Timezone: f.Timezone,
		Current: CurrentReport{
			CurrentWeather: f.Current,
			Description:    domain.DescribeWeatherCode(f.Current.WeatherCode),
			Icon:           domain.WeatherCodeIcon(f.Current.WeatherCode),
		},
		Daily: make([]DailyReport, len(f.Daily)),
	}
	for i, d := range f.Daily {
		r.Daily[i] = DailyReport{
			DailyForecast: d,
			Description:   domain.DescribeWeatherCode(d.WeatherCode),
			Icon:          domain.WeatherCodeIcon(d.WeatherCode),
		}
	}
	return r
}
