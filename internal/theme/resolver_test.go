package theme

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/dokim/coordclient/internal/models"
)

type fakePrefs struct {
	manual   *models.ManualTheme
	auto     bool
	time     models.TimeOfDay
	location *models.GeoLocation
}

func (f *fakePrefs) ManualTheme() (*models.ManualTheme, error) { return f.manual, nil }
func (f *fakePrefs) SetManualTheme(mt models.ManualTheme) error {
	f.manual = &mt
	f.auto = false
	return nil
}
func (f *fakePrefs) SetAutoTheme() error {
	f.manual = nil
	f.time = ""
	f.auto = true
	return nil
}
func (f *fakePrefs) ManualTime() (models.TimeOfDay, error)     { return f.time, nil }
func (f *fakePrefs) SetManualTime(tod models.TimeOfDay) error  { f.time = tod; return nil }
func (f *fakePrefs) UserLocation() (*models.GeoLocation, error) { return f.location, nil }

type fakeWeather struct {
	sample *models.WeatherSample
	err    error
	calls  int
}

func (f *fakeWeather) FetchCurrent(ctx context.Context, lat, lng float64) (*models.WeatherSample, error) {
	f.calls++
	return f.sample, f.err
}

// July 10th, 14:00 local: summer in the north, daytime.
var julyAfternoon = time.Date(2025, time.July, 10, 14, 0, 0, 0, time.UTC)

func TestResolveForLanding_SeoulJulyRain(t *testing.T) {
	prefs := &fakePrefs{}
	wx := &fakeWeather{sample: &models.WeatherSample{Latitude: 37.5665, WeatherCode: 61}}
	r := NewResolver(prefs, wx, clockwork.NewFakeClockAt(julyAfternoon))

	state := r.ResolveForLanding(context.Background())

	if state.Season != models.SeasonSummer {
		t.Errorf("season = %v, want summer", state.Season)
	}
	if state.Weather != models.WeatherRain {
		t.Errorf("weather = %v, want rain", state.Weather)
	}
	if state.TimeOfDay != models.TimeDay {
		t.Errorf("time = %v, want day", state.TimeOfDay)
	}
	if !state.Auto {
		t.Error("expected auto derivation")
	}
}

func TestResolveForLanding_WeatherFailureDegrades(t *testing.T) {
	prefs := &fakePrefs{}
	wx := &fakeWeather{err: errors.New("network down")}
	r := NewResolver(prefs, wx, clockwork.NewFakeClockAt(julyAfternoon))

	state := r.ResolveForLanding(context.Background())

	// Default location is northern, July is summer; weather falls back to clear.
	if state.Season != models.SeasonSummer {
		t.Errorf("season = %v, want summer", state.Season)
	}
	if state.Weather != models.WeatherClear {
		t.Errorf("weather = %v, want clear", state.Weather)
	}
}

func TestResolveForMain_UsesStoredLocation(t *testing.T) {
	prefs := &fakePrefs{location: &models.GeoLocation{Lat: -33.8688, Lng: 151.2093, Granted: true}}
	wx := &fakeWeather{err: errors.New("boom")}
	r := NewResolver(prefs, wx, clockwork.NewFakeClockAt(julyAfternoon))

	state := r.ResolveForMain(context.Background())

	// Southern hemisphere in July: winter, even on the degraded path.
	if state.Season != models.SeasonWinter {
		t.Errorf("season = %v, want winter", state.Season)
	}
	if state.Weather != models.WeatherClear {
		t.Errorf("weather = %v, want clear", state.Weather)
	}
}

func TestResolve_ManualOverrideSkipsWeatherLookup(t *testing.T) {
	prefs := &fakePrefs{manual: &models.ManualTheme{Season: models.SeasonWinter, Weather: models.WeatherSnow}}
	wx := &fakeWeather{sample: &models.WeatherSample{Latitude: 37.5665, WeatherCode: 61}}
	r := NewResolver(prefs, wx, clockwork.NewFakeClockAt(julyAfternoon))

	state := r.ResolveForMain(context.Background())

	if state.Season != models.SeasonWinter || state.Weather != models.WeatherSnow {
		t.Errorf("state = %v/%v, want winter/snow", state.Season, state.Weather)
	}
	if state.Auto {
		t.Error("manual override should report auto off")
	}
	if wx.calls != 0 {
		t.Errorf("weather lookup called %d times with manual override present", wx.calls)
	}
}

func TestApplyManualTheme_ThenAutomaticModeClearsIt(t *testing.T) {
	prefs := &fakePrefs{}
	wx := &fakeWeather{sample: &models.WeatherSample{Latitude: 37.5665, WeatherCode: 0}}
	r := NewResolver(prefs, wx, clockwork.NewFakeClockAt(julyAfternoon))

	if _, err := r.ApplyManualTheme(models.SeasonFall, models.WeatherStorm); err != nil {
		t.Fatalf("apply manual: %v", err)
	}
	state := r.ResolveForMain(context.Background())
	if state.Season != models.SeasonFall || state.Weather != models.WeatherStorm {
		t.Fatalf("after manual apply: %v/%v, want fall/storm", state.Season, state.Weather)
	}

	if err := r.ApplyAutomaticMode(); err != nil {
		t.Fatalf("apply automatic: %v", err)
	}
	state = r.ResolveForMain(context.Background())
	if !state.Auto {
		t.Error("expected automatic derivation after clearing override")
	}
	if state.Season != models.SeasonSummer || state.Weather != models.WeatherClear {
		t.Errorf("after auto: %v/%v, want summer/clear", state.Season, state.Weather)
	}
}

func TestApplyManualTheme_RejectsUnknownValues(t *testing.T) {
	r := NewResolver(&fakePrefs{}, &fakeWeather{}, clockwork.NewFakeClockAt(julyAfternoon))

	if _, err := r.ApplyManualTheme("monsoon", models.WeatherRain); err == nil {
		t.Error("expected error for unknown season")
	}
	if _, err := r.ApplyManualTheme(models.SeasonSpring, "hail"); err == nil {
		t.Error("expected error for unknown weather")
	}
}

func TestResolveTimeOfDay(t *testing.T) {
	night := time.Date(2025, time.July, 10, 22, 0, 0, 0, time.UTC)

	r := NewResolver(&fakePrefs{}, &fakeWeather{}, clockwork.NewFakeClockAt(night))
	if got := r.ResolveTimeOfDay(); got != models.TimeNight {
		t.Errorf("ResolveTimeOfDay() = %v, want night", got)
	}

	// Manual override wins over the clock.
	prefs := &fakePrefs{time: models.TimeDay}
	r = NewResolver(prefs, &fakeWeather{}, clockwork.NewFakeClockAt(night))
	if got := r.ResolveTimeOfDay(); got != models.TimeDay {
		t.Errorf("ResolveTimeOfDay() with override = %v, want day", got)
	}
}

func TestApplyManualTime(t *testing.T) {
	prefs := &fakePrefs{}
	r := NewResolver(prefs, &fakeWeather{}, clockwork.NewFakeClockAt(julyAfternoon))

	applied, err := r.ApplyManualTime(models.TimeNight)
	if err != nil {
		t.Fatalf("apply manual time: %v", err)
	}
	if applied != models.TimeNight {
		t.Errorf("applied = %v, want night", applied)
	}
	if got := r.ResolveTimeOfDay(); got != models.TimeNight {
		t.Errorf("ResolveTimeOfDay() = %v, want night", got)
	}

	if _, err := r.ApplyManualTime("dusk"); err == nil {
		t.Error("expected error for unknown time mode")
	}
}
