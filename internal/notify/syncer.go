// Package notify keeps a locally cached unread count and notification list
// reconciled against the server, fanning every refresh out to all registered
// desktop and mobile render targets so the surfaces never disagree for more
// than one polling interval.
package notify

import (
	"context"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/dokim/coordclient/internal/metrics"
	"github.com/dokim/coordclient/internal/models"
)

// PollInterval is the fixed unread-count polling cadence. No backoff, no
// pause on hidden surfaces; the timer lives as long as the session.
const PollInterval = 30 * time.Second

// ListState distinguishes a successful-but-empty list from a failed fetch.
// Targets may render both as the same placeholder text.
type ListState int

const (
	ListOK ListState = iota
	ListEmpty
	ListError
)

// BadgeTarget renders the unread-count badge on one surface.
type BadgeTarget interface {
	SetBadge(text string, visible bool)
}

// ListTarget renders the notification list on one surface.
type ListTarget interface {
	SetList(items []models.NotificationItem)
	SetPlaceholder(state ListState)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer func() bool

// FormatBadge renders a count for a badge: hidden at zero, capped at "99+".
func FormatBadge(n int) (string, bool) {
	if n <= 0 {
		return "", false
	}
	if n > 99 {
		return "99+", true
	}
	return strconv.Itoa(n), true
}

// Syncer reconciles local notification state against the server. Refreshes
// carry a monotonically increasing sequence number; a response is applied
// only when no newer refresh has been issued since, so a slow in-flight
// response can never overwrite fresher state.
type Syncer struct {
	client   *Client
	clock    clockwork.Clock
	interval time.Duration

	countSeq atomic.Uint64
	listSeq  atomic.Uint64

	mu        sync.Mutex
	badges    map[string]BadgeTarget
	lists     map[string]ListTarget
	lastCount int
	haveCount bool
}

func NewSyncer(client *Client, clock clockwork.Clock) *Syncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Syncer{
		client:   client,
		clock:    clock,
		interval: PollInterval,
		badges:   make(map[string]BadgeTarget),
		lists:    make(map[string]ListTarget),
	}
}

// RegisterBadge adds a named badge surface (e.g. "desktop", "mobile").
func (s *Syncer) RegisterBadge(name string, t BadgeTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges[name] = t
}

// RegisterList adds a named list surface.
func (s *Syncer) RegisterList(name string, t ListTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[name] = t
}

// UnreadCount returns the last successfully fetched count, and whether one
// has been fetched at all.
func (s *Syncer) UnreadCount() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCount, s.haveCount
}

// RefreshCount fetches the unread count and fans it out to every badge.
// On failure the previously displayed badge state is left untouched; the
// next scheduled poll is the only retry.
func (s *Syncer) RefreshCount(ctx context.Context) {
	seq := s.countSeq.Add(1)

	count, err := s.client.UnreadCount(ctx)
	if err != nil {
		log.Printf("syncer: unread count: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.countSeq.Load() {
		metrics.StaleResponsesDiscarded.WithLabelValues("count").Inc()
		return
	}
	s.lastCount = count
	s.haveCount = true
	text, visible := FormatBadge(count)
	for _, b := range s.badges {
		b.SetBadge(text, visible)
	}
}

// RefreshList fetches the notification list and fans it out to every list
// surface. The list is never cached across opens; every dropdown open calls
// this again.
func (s *Syncer) RefreshList(ctx context.Context) {
	seq := s.listSeq.Add(1)

	items, err := s.client.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.listSeq.Load() {
		metrics.StaleResponsesDiscarded.WithLabelValues("list").Inc()
		return
	}

	switch {
	case err != nil:
		log.Printf("syncer: list notifications: %v", err)
		for _, l := range s.lists {
			l.SetPlaceholder(ListError)
		}
	case len(items) == 0:
		for _, l := range s.lists {
			l.SetPlaceholder(ListEmpty)
		}
	default:
		for _, l := range s.lists {
			l.SetList(items)
		}
	}
}

// MarkRead marks one notification read, then refreshes the count. The item's
// unread highlight only clears on the next full list refresh; there is no
// optimistic local flip.
func (s *Syncer) MarkRead(ctx context.Context, id int64) {
	if err := s.client.MarkRead(ctx, id); err != nil {
		log.Printf("syncer: mark read %d: %v", id, err)
	}
	s.RefreshCount(ctx)
}

// MarkAllRead marks everything read, then refreshes both count and list.
func (s *Syncer) MarkAllRead(ctx context.Context) {
	if err := s.client.MarkAllRead(ctx); err != nil {
		log.Printf("syncer: mark all read: %v", err)
	}
	s.RefreshCount(ctx)
	s.RefreshList(ctx)
}

// DeleteAll asks the user to confirm, then deletes everything and refreshes
// both count and list. A declined confirmation issues no request and leaves
// all state unchanged. Returns whether the request was sent.
func (s *Syncer) DeleteAll(ctx context.Context, confirm Confirmer) bool {
	if confirm == nil || !confirm() {
		return false
	}
	if err := s.client.DeleteAll(ctx); err != nil {
		log.Printf("syncer: delete all: %v", err)
	}
	s.RefreshCount(ctx)
	s.RefreshList(ctx)
	return true
}

// Run refreshes the count immediately, then on a fixed interval until the
// context is cancelled.
func (s *Syncer) Run(ctx context.Context) {
	s.RefreshCount(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("syncer: shutting down")
			return
		case <-ticker.Chan():
			s.RefreshCount(ctx)
		}
	}
}
