// Package store persists the client-side state the browser kept in
// localStorage: manual theme overrides, the auto-mode flag, the manual
// day/night choice and the stored location-permission decision.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dokim/coordclient/internal/models"
)

// State keys. Values are JSON except autoTheme and manualTime, which are
// plain strings.
const (
	keyManualTheme  = "manualTheme"
	keyAutoTheme    = "autoTheme"
	keyManualTime   = "manualTime"
	keyUserLocation = "userLocation"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM client_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func upsert(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	return err
}

func remove(tx *sql.Tx, keys ...string) error {
	for _, key := range keys {
		if _, err := tx.Exec("DELETE FROM client_state WHERE key = ?", key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ManualTheme returns the persisted manual override, or nil when absent.
// Corrupt stored JSON is logged and treated as absent.
func (s *Store) ManualTheme() (*models.ManualTheme, error) {
	raw, ok, err := s.get(keyManualTheme)
	if err != nil || !ok {
		return nil, err
	}
	var mt models.ManualTheme
	if err := json.Unmarshal([]byte(raw), &mt); err != nil {
		log.Printf("store: corrupt %s value, ignoring: %v", keyManualTheme, err)
		return nil, nil
	}
	return &mt, nil
}

// SetManualTheme persists the override and clears the auto-mode flag in the
// same transaction. Manual and automatic are never both authoritative.
func (s *Store) SetManualTheme(mt models.ManualTheme) error {
	raw, err := json.Marshal(mt)
	if err != nil {
		return fmt.Errorf("marshal manual theme: %w", err)
	}
	return s.inTx(func(tx *sql.Tx) error {
		if err := upsert(tx, keyManualTheme, string(raw)); err != nil {
			return err
		}
		return remove(tx, keyAutoTheme)
	})
}

// AutoTheme reports whether the auto-mode flag is set.
func (s *Store) AutoTheme() (bool, error) {
	raw, ok, err := s.get(keyAutoTheme)
	if err != nil || !ok {
		return false, err
	}
	return raw == "true", nil
}

// SetAutoTheme sets the auto-mode flag and clears the manual theme and
// manual time overrides so the next load derives everything from scratch.
func (s *Store) SetAutoTheme() error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := remove(tx, keyManualTheme, keyManualTime); err != nil {
			return err
		}
		return upsert(tx, keyAutoTheme, "true")
	})
}

// ManualTime returns the persisted day/night override, or empty when absent.
func (s *Store) ManualTime() (models.TimeOfDay, error) {
	raw, ok, err := s.get(keyManualTime)
	if err != nil || !ok {
		return "", err
	}
	tod := models.TimeOfDay(raw)
	if !tod.Valid() {
		log.Printf("store: corrupt %s value %q, ignoring", keyManualTime, raw)
		return "", nil
	}
	return tod, nil
}

// SetManualTime persists the day/night override. Unlike season/weather this
// does not touch the auto-mode flag; time-of-day has its own override.
func (s *Store) SetManualTime(tod models.TimeOfDay) error {
	return s.inTx(func(tx *sql.Tx) error {
		return upsert(tx, keyManualTime, string(tod))
	})
}

// UserLocation returns the stored location-permission decision, or nil when
// the user has not been through the entry flow yet.
func (s *Store) UserLocation() (*models.GeoLocation, error) {
	raw, ok, err := s.get(keyUserLocation)
	if err != nil || !ok {
		return nil, err
	}
	var loc models.GeoLocation
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		log.Printf("store: corrupt %s value, ignoring: %v", keyUserLocation, err)
		return nil, nil
	}
	return &loc, nil
}

// SetUserLocation records the permission decision. Only a fresh entry-flow
// permission request writes this again.
func (s *Store) SetUserLocation(loc models.GeoLocation) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}
	return s.inTx(func(tx *sql.Tx) error {
		return upsert(tx, keyUserLocation, string(raw))
	})
}

// RecordSession logs a page-session start for debugging.
func (s *Store) RecordSession(id, kind string, startedAt time.Time) error {
	_, err := s.db.Exec(
		"INSERT INTO page_sessions (id, kind, started_at) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING",
		id, kind, startedAt.UTC(),
	)
	return err
}
