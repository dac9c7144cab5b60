package domain

// WeatherIcon is a coarse icon category for a WMO weather code.
type WeatherIcon string

const (
	IconSun     WeatherIcon = "sun"
	IconCloud   WeatherIcon = "cloud"
	IconFog     WeatherIcon = "fog"
	IconRain    WeatherIcon = "rain"
	IconSnow    WeatherIcon = "snow"
	IconThunder WeatherIcon = "thunder"
)

// DescribeWeatherCode returns a short Japanese label for a WMO code.
// Codes 45–48 (fog) and 80–86 (showers) have no label of their own.
func DescribeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "快晴"
	case code == 1:
		return "晴れ"
	case code == 2:
		return "一部曇り"
	case code == 3:
		return "曇り"
	case code >= 51 && code <= 67:
		return "雨"
	case code >= 71 && code <= 77:
		return "雪"
	case code >= 95:
		return "雷雨"
	default:
		return "不明"
	}
}

// WeatherCodeIcon maps a WMO code to an icon category. Unknown codes are sunny.
func WeatherCodeIcon(code int) WeatherIcon {
	switch {
	case code == 2 || code == 3:
		return IconCloud
	case code >= 45 && code <= 48:
		return IconFog
	case code >= 51 && code <= 67, code >= 80 && code <= 82:
		return IconRain
	case code >= 71 && code <= 77, code >= 85 && code <= 86:
		return IconSnow
	case code >= 95 && code <= 99:
		return IconThunder
	default:
		return IconSun
	}
}
