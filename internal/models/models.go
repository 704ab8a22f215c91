package models

import "fmt"

// Season is the visual season applied to a page.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// Valid reports whether s is one of the four canonical seasons.
func (s Season) Valid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return true
	}
	return false
}

// Weather is the visual weather effect applied to a page.
// Storm, cloudy and wind are selectable manually but are never produced
// by automatic derivation.
type Weather string

const (
	WeatherClear  Weather = "clear"
	WeatherRain   Weather = "rain"
	WeatherSnow   Weather = "snow"
	WeatherStorm  Weather = "storm"
	WeatherCloudy Weather = "cloudy"
	WeatherWind   Weather = "wind"
)

// Valid reports whether w is a known weather effect.
func (w Weather) Valid() bool {
	switch w {
	case WeatherClear, WeatherRain, WeatherSnow, WeatherStorm, WeatherCloudy, WeatherWind:
		return true
	}
	return false
}

// TimeOfDay is the day/night lighting mode.
type TimeOfDay string

const (
	TimeDay   TimeOfDay = "day"
	TimeNight TimeOfDay = "night"
)

// Valid reports whether t is day or night.
func (t TimeOfDay) Valid() bool {
	return t == TimeDay || t == TimeNight
}

// ThemeState is the fully resolved visual configuration for a page session.
type ThemeState struct {
	Season    Season    `json:"season"`
	Weather   Weather   `json:"weather"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Auto      bool      `json:"auto"`
}

// ManualTheme is a user-chosen season/weather pair. Persisted under the
// manualTheme key; presence means automatic derivation is off.
type ManualTheme struct {
	Season  Season  `json:"season"`
	Weather Weather `json:"weather"`
}

// GeoLocation is the user's stored location-permission decision. Written once
// on the entry flow and read on every page load that derives a theme.
type GeoLocation struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Granted bool    `json:"granted"`
}

// WeatherSample is an ephemeral current-weather reading, fetched once per
// resolution and discarded.
type WeatherSample struct {
	Latitude    float64
	WeatherCode int
}

// TypeSuggestionReply marks notifications about replies to a user's
// suggestion; they navigate to the suggestions page instead of a coordinate.
const TypeSuggestionReply = "SUGGESTION_REPLY"

// NotificationItem is a server-owned notification. The client holds a
// short-lived read-only copy per dropdown open.
type NotificationItem struct {
	ID            int64   `json:"id"`
	Type          string  `json:"type"`
	Message       string  `json:"message"`
	CoordinateID  *int64  `json:"coordinate_id"`
	ActorNickname *string `json:"actor_nickname"`
	IsRead        bool    `json:"is_read"`
	CreatedAt     string  `json:"created_at"`
}

// TargetURL returns the navigation target for the notification.
func (n NotificationItem) TargetURL() string {
	if n.Type == TypeSuggestionReply {
		return "/accounts/my/suggestions/"
	}
	if n.CoordinateID != nil {
		return fmt.Sprintf("/coordinates/%d/", *n.CoordinateID)
	}
	return "/coordinates/"
}
