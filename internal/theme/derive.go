package theme

import (
	"time"

	"github.com/dokim/coordclient/internal/models"
)

// SeasonFor maps a latitude and calendar month to a season. Months snap to
// whole-month granularity; the southern hemisphere uses the 6-month-shifted
// mapping. Latitude 0 counts as northern.
func SeasonFor(lat float64, month time.Month) models.Season {
	northern := lat >= 0

	switch month {
	case time.March, time.April, time.May:
		if northern {
			return models.SeasonSpring
		}
		return models.SeasonFall
	case time.June, time.July, time.August:
		if northern {
			return models.SeasonSummer
		}
		return models.SeasonWinter
	case time.September, time.October, time.November:
		if northern {
			return models.SeasonFall
		}
		return models.SeasonSpring
	default: // December, January, February
		if northern {
			return models.SeasonWinter
		}
		return models.SeasonSummer
	}
}

// EffectForCode maps a WMO weather code to a visual effect.
// Thunderstorm codes (95-99) map to rain, not storm; storm, cloudy and wind
// are reachable only through manual selection.
func EffectForCode(code int) models.Weather {
	switch {
	case code >= 51 && code <= 67: // drizzle and rain
		return models.WeatherRain
	case code >= 71 && code <= 77: // snow
		return models.WeatherSnow
	case code >= 80 && code <= 82: // showers
		return models.WeatherRain
	case code >= 85 && code <= 86: // snow showers
		return models.WeatherSnow
	case code >= 95 && code <= 99: // thunderstorm
		return models.WeatherRain
	default:
		return models.WeatherClear
	}
}

// TimeOfDayFor buckets a local hour into day ([6,18)) or night.
func TimeOfDayFor(hour int) models.TimeOfDay {
	if hour >= 6 && hour < 18 {
		return models.TimeDay
	}
	return models.TimeNight
}
