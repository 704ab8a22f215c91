package theme

import (
	"testing"
	"time"

	"github.com/dokim/coordclient/internal/models"
)

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		name  string
		lat   float64
		month time.Month
		want  models.Season
	}{
		{"Seoul in July", 37.5665, time.July, models.SeasonSummer},
		{"Seoul in April", 37.5665, time.April, models.SeasonSpring},
		{"Seoul in October", 37.5665, time.October, models.SeasonFall},
		{"Seoul in January", 37.5665, time.January, models.SeasonWinter},
		{"Seoul in December", 37.5665, time.December, models.SeasonWinter},
		{"Sydney in July", -33.8688, time.July, models.SeasonWinter},
		{"Sydney in January", -33.8688, time.January, models.SeasonSummer},
		{"Sydney in April", -33.8688, time.April, models.SeasonFall},
		{"Sydney in October", -33.8688, time.October, models.SeasonSpring},
		{"equator counts as northern", 0, time.July, models.SeasonSummer},
		{"month boundary March", 37.5665, time.March, models.SeasonSpring},
		{"month boundary February", 37.5665, time.February, models.SeasonWinter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SeasonFor(tt.lat, tt.month)
			if got != tt.want {
				t.Errorf("SeasonFor(%v, %v) = %v, want %v", tt.lat, tt.month, got, tt.want)
			}
		})
	}
}

// Mirroring the latitude is equivalent to shifting the calendar six months.
func TestSeasonFor_HemisphereSymmetry(t *testing.T) {
	lats := []float64{0.1, 12.0, 37.5665, 65.2, 89.9}
	for _, lat := range lats {
		for m := time.January; m <= time.December; m++ {
			shifted := time.Month((int(m)+5)%12 + 1)

			south := SeasonFor(-lat, m)
			northShifted := SeasonFor(lat, shifted)
			if south != northShifted {
				t.Errorf("SeasonFor(%v, %v) = %v, want %v (= SeasonFor(%v, %v))",
					-lat, m, south, northShifted, lat, shifted)
			}

			if !SeasonFor(lat, m).Valid() {
				t.Errorf("SeasonFor(%v, %v) not a canonical season", lat, m)
			}
		}
	}
}

func TestEffectForCode(t *testing.T) {
	tests := []struct {
		name string
		code int
		want models.Weather
	}{
		{"clear sky", 0, models.WeatherClear},
		{"fog stays clear", 45, models.WeatherClear},
		{"drizzle low edge", 51, models.WeatherRain},
		{"rain", 61, models.WeatherRain},
		{"freezing rain high edge", 67, models.WeatherRain},
		{"snow low edge", 71, models.WeatherSnow},
		{"snow grains high edge", 77, models.WeatherSnow},
		{"gap between snow and showers", 78, models.WeatherClear},
		{"showers low edge", 80, models.WeatherRain},
		{"showers high edge", 82, models.WeatherRain},
		{"gap before snow showers", 83, models.WeatherClear},
		{"snow showers low edge", 85, models.WeatherSnow},
		{"snow showers high edge", 86, models.WeatherSnow},
		{"thunderstorm maps to rain, not storm", 95, models.WeatherRain},
		{"thunderstorm with hail", 99, models.WeatherRain},
		{"above scale", 100, models.WeatherClear},
		{"negative", -1, models.WeatherClear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectForCode(tt.code)
			if got != tt.want {
				t.Errorf("EffectForCode(%d) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

// Every code outside the mapped bands is clear.
func TestEffectForCode_OutsideBandsClear(t *testing.T) {
	mapped := func(c int) bool {
		return (c >= 51 && c <= 67) || (c >= 71 && c <= 77) ||
			(c >= 80 && c <= 82) || (c >= 85 && c <= 86) || (c >= 95 && c <= 99)
	}
	for c := -10; c <= 120; c++ {
		if mapped(c) {
			continue
		}
		if got := EffectForCode(c); got != models.WeatherClear {
			t.Errorf("EffectForCode(%d) = %v, want clear", c, got)
		}
	}
}

func TestTimeOfDayFor(t *testing.T) {
	tests := []struct {
		hour int
		want models.TimeOfDay
	}{
		{0, models.TimeNight},
		{5, models.TimeNight},
		{6, models.TimeDay},
		{12, models.TimeDay},
		{17, models.TimeDay},
		{18, models.TimeNight},
		{23, models.TimeNight},
	}

	for _, tt := range tests {
		if got := TimeOfDayFor(tt.hour); got != tt.want {
			t.Errorf("TimeOfDayFor(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}
