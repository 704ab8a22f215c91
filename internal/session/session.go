// Package session wires one page session together: the prefs store, theme
// resolver, notification syncer and selector panel group, constructed at
// startup and torn down (cancelling the poll timer) on the way out. Nothing
// here is process-global; every capability hangs off the Session.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/dokim/coordclient/internal/models"
	"github.com/dokim/coordclient/internal/notify"
	"github.com/dokim/coordclient/internal/panel"
	"github.com/dokim/coordclient/internal/store"
	"github.com/dokim/coordclient/internal/theme"
	"github.com/dokim/coordclient/internal/transport"
	"github.com/dokim/coordclient/internal/weather"
)

// Config is the per-session construction input.
type Config struct {
	BaseURL        string // coordinate-sharing server
	WeatherBaseURL string // weather provider; empty uses the default
	CSRFToken      string
	SessionCookie  string
	NotificationUI bool // whether a notification surface is present on this page
}

// Toaster shows short user-facing confirmations. The default logs them.
type Toaster interface {
	Toast(message string)
}

type logToaster struct{}

func (logToaster) Toast(message string) { log.Printf("toast: %s", message) }

// Session is a single page session over the shared client state.
type Session struct {
	ID     uuid.UUID
	Panels *panel.Group

	cfg      Config
	store    *store.Store
	resolver *theme.Resolver
	syncer   *notify.Syncer
	toaster  Toaster
	clock    clockwork.Clock

	mu     sync.Mutex
	state  models.ThemeState
	reload bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a session. clock and toaster may be nil for real-clock and
// log-based defaults.
func New(cfg Config, st *store.Store, clock clockwork.Clock, toaster Toaster) *Session {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if toaster == nil {
		toaster = logToaster{}
	}

	wc := weather.NewClient(cfg.WeatherBaseURL)
	nc := notify.NewClient(cfg.BaseURL, transport.NewClient(cfg.CSRFToken, cfg.SessionCookie))

	s := &Session{
		ID:       uuid.New(),
		cfg:      cfg,
		store:    st,
		resolver: theme.NewResolver(st, wc, clock),
		syncer:   notify.NewSyncer(nc, clock),
		toaster:  toaster,
		clock:    clock,
	}

	s.Panels = panel.NewGroup()
	s.Panels.Register(panel.ThemeSelector, nil)
	s.Panels.Register(panel.LanguageSelector, nil)
	s.Panels.Register(panel.MobileMenu, nil)
	// Opening a notification dropdown always loads a fresh list.
	s.Panels.Register(panel.NotificationDesktop, func() { s.syncer.RefreshList(s.refreshContext()) })
	s.Panels.Register(panel.NotificationMobile, func() { s.syncer.RefreshList(s.refreshContext()) })

	return s
}

func (s *Session) refreshContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// StartLanding bootstraps the landing page: default reference location, no
// stored state consulted for the location.
func (s *Session) StartLanding(ctx context.Context) models.ThemeState {
	return s.start(ctx, "landing", s.resolver.ResolveForLanding)
}

// StartMain bootstraps any post-entry page: stored location when present.
func (s *Session) StartMain(ctx context.Context) models.ThemeState {
	return s.start(ctx, "main", s.resolver.ResolveForMain)
}

func (s *Session) start(ctx context.Context, kind string, resolve func(context.Context) models.ThemeState) models.ThemeState {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.ctx = ctx
	s.cancel = cancel
	s.mu.Unlock()

	if err := s.store.RecordSession(s.ID.String(), kind, time.Now()); err != nil {
		log.Printf("session %s: record: %v", s.ID, err)
	}

	state := resolve(ctx)
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	log.Printf("session %s: theme applied: season=%s weather=%s time=%s auto=%v",
		s.ID, state.Season, state.Weather, state.TimeOfDay, state.Auto)

	if s.cfg.NotificationUI {
		go s.syncer.Run(ctx)
	}
	return state
}

// Close cancels the poll timer and any in-flight refreshes.
func (s *Session) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// ThemeState returns the currently applied visual configuration.
func (s *Session) ThemeState() models.ThemeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Syncer exposes the notification synchronizer for surfaces and the CLI.
func (s *Session) Syncer() *notify.Syncer {
	return s.syncer
}

// SetTheme applies a manual theme: persists it, clears auto mode, applies
// immediately, confirms to the user and closes the selector.
func (s *Session) SetTheme(season models.Season, weather models.Weather) error {
	state, err := s.resolver.ApplyManualTheme(season, weather)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.toaster.Toast(fmt.Sprintf("Theme applied: %s / %s", season, weather))
	s.Panels.Close(panel.ThemeSelector)
	return nil
}

// SetAutoTheme clears all manual overrides and requests a reload so the
// whole derivation re-runs from scratch.
func (s *Session) SetAutoTheme() error {
	if err := s.resolver.ApplyAutomaticMode(); err != nil {
		return err
	}

	s.mu.Lock()
	s.reload = true
	s.mu.Unlock()

	s.toaster.Toast("Switching to automatic theme")
	s.Panels.Close(panel.ThemeSelector)
	return nil
}

// ReloadRequested reports whether automatic mode was requested since the
// session started; the runner re-bootstraps when true.
func (s *Session) ReloadRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload
}

// SetTimeMode applies a manual day/night override without a reload.
func (s *Session) SetTimeMode(mode models.TimeOfDay) error {
	applied, err := s.resolver.ApplyManualTime(mode)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state.TimeOfDay = applied
	s.mu.Unlock()

	if applied == models.TimeDay {
		s.toaster.Toast("Day mode")
	} else {
		s.toaster.Toast("Night mode")
	}
	s.Panels.Close(panel.ThemeSelector)
	return nil
}

// HandleEnter records the user's first location-permission decision. granted
// stores the supplied coordinates; a denial stores the default reference
// location with granted=false. Returns the post-entry redirect path.
func (s *Session) HandleEnter(loc *models.GeoLocation) (string, error) {
	decision := models.GeoLocation{
		Lat: theme.DefaultLocation.Lat,
		Lng: theme.DefaultLocation.Lng,
	}
	if loc != nil && loc.Granted {
		decision = *loc
	}
	if err := s.store.SetUserLocation(decision); err != nil {
		return "", err
	}
	return "/coordinates/", nil
}
