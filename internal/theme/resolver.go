// Package theme derives the season/weather/time-of-day triple for a page,
// honoring persisted manual overrides before falling back to automatic
// geolocation + weather derivation.
package theme

import (
	"context"
	"log"

	"github.com/jonboulle/clockwork"

	"github.com/dokim/coordclient/internal/models"
)

// DefaultLocation is the server's reference location (Seoul), used before a
// location-permission decision exists and whenever lookups fail.
var DefaultLocation = models.GeoLocation{Lat: 37.5665, Lng: 126.9780}

// Prefs is the persisted override/location state the resolver reads and writes.
type Prefs interface {
	ManualTheme() (*models.ManualTheme, error)
	SetManualTheme(models.ManualTheme) error
	SetAutoTheme() error
	ManualTime() (models.TimeOfDay, error)
	SetManualTime(models.TimeOfDay) error
	UserLocation() (*models.GeoLocation, error)
}

// WeatherSource provides current-weather samples for a coordinate.
type WeatherSource interface {
	FetchCurrent(ctx context.Context, lat, lng float64) (*models.WeatherSample, error)
}

// Resolver computes ThemeStates. Resolution never returns an error: every
// failure degrades to the date/location-derived default theme.
type Resolver struct {
	prefs   Prefs
	weather WeatherSource
	clock   clockwork.Clock
}

func NewResolver(prefs Prefs, weather WeatherSource, clock clockwork.Clock) *Resolver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Resolver{prefs: prefs, weather: weather, clock: clock}
}

// ResolveForLanding resolves the theme for the landing page, where no stored
// location exists yet and the default reference location is used.
func (r *Resolver) ResolveForLanding(ctx context.Context) models.ThemeState {
	return r.resolve(ctx, DefaultLocation)
}

// ResolveForMain resolves the theme for any page after entry, preferring the
// stored location-permission decision over the default reference location.
func (r *Resolver) ResolveForMain(ctx context.Context) models.ThemeState {
	loc := DefaultLocation
	stored, err := r.prefs.UserLocation()
	if err != nil {
		log.Printf("theme: read stored location: %v", err)
	}
	if stored != nil {
		loc = *stored
	}
	return r.resolve(ctx, loc)
}

func (r *Resolver) resolve(ctx context.Context, loc models.GeoLocation) models.ThemeState {
	state := models.ThemeState{
		TimeOfDay: r.ResolveTimeOfDay(),
	}

	// A persisted manual override wins outright; no weather lookup happens.
	manual, err := r.prefs.ManualTheme()
	if err != nil {
		log.Printf("theme: read manual theme: %v", err)
	}
	if manual != nil {
		state.Season = manual.Season
		state.Weather = manual.Weather
		return state
	}

	state.Auto = true
	sample, err := r.weather.FetchCurrent(ctx, loc.Lat, loc.Lng)
	if err != nil {
		log.Printf("theme: weather lookup failed, applying default: %v", err)
		state.Season = SeasonFor(loc.Lat, r.clock.Now().Month())
		state.Weather = models.WeatherClear
		return state
	}

	lat := sample.Latitude
	if lat == 0 {
		lat = loc.Lat
	}
	state.Season = SeasonFor(lat, r.clock.Now().Month())
	state.Weather = EffectForCode(sample.WeatherCode)
	return state
}

// ResolveTimeOfDay returns the manual day/night override when one is
// persisted, otherwise buckets the current local hour.
func (r *Resolver) ResolveTimeOfDay() models.TimeOfDay {
	manual, err := r.prefs.ManualTime()
	if err != nil {
		log.Printf("theme: read manual time: %v", err)
	}
	if manual != "" {
		return manual
	}
	return TimeOfDayFor(r.clock.Now().Hour())
}

// ApplyManualTheme persists a user-chosen season/weather pair, clearing the
// auto-mode flag. Effective immediately; no reload needed.
func (r *Resolver) ApplyManualTheme(season models.Season, weather models.Weather) (models.ThemeState, error) {
	if !season.Valid() || !weather.Valid() {
		return models.ThemeState{}, &InvalidThemeError{Season: season, Weather: weather}
	}
	if err := r.prefs.SetManualTheme(models.ManualTheme{Season: season, Weather: weather}); err != nil {
		return models.ThemeState{}, err
	}
	return models.ThemeState{
		Season:    season,
		Weather:   weather,
		TimeOfDay: r.ResolveTimeOfDay(),
	}, nil
}

// ApplyAutomaticMode clears all manual overrides and sets the auto-mode
// flag. The caller must trigger a full reload so derivation re-runs from
// scratch; the old overrides are ignored either way.
func (r *Resolver) ApplyAutomaticMode() error {
	return r.prefs.SetAutoTheme()
}

// ApplyManualTime persists the day/night override and returns the new mode.
// Time-of-day is a pure local computation, so it applies without a reload.
func (r *Resolver) ApplyManualTime(mode models.TimeOfDay) (models.TimeOfDay, error) {
	if !mode.Valid() {
		return "", &InvalidTimeError{Mode: mode}
	}
	if err := r.prefs.SetManualTime(mode); err != nil {
		return "", err
	}
	return mode, nil
}

// InvalidThemeError reports a manual selection outside the known enums.
type InvalidThemeError struct {
	Season  models.Season
	Weather models.Weather
}

func (e *InvalidThemeError) Error() string {
	return "invalid theme selection: season=" + string(e.Season) + " weather=" + string(e.Weather)
}

// InvalidTimeError reports a day/night selection outside the known modes.
type InvalidTimeError struct {
	Mode models.TimeOfDay
}

func (e *InvalidTimeError) Error() string {
	return "invalid time mode: " + string(e.Mode)
}
