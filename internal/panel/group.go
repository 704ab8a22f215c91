// Package panel models the page's floating selector widgets (theme selector,
// language selector, notification dropdowns, mobile menu) as a group with
// mutual exclusion: opening any one closes all the others, and a click
// outside a widget's boundary closes it.
package panel

import "sync"

// Well-known selector names used across the page.
const (
	ThemeSelector       = "theme-selector"
	LanguageSelector    = "language-selector"
	NotificationDesktop = "notification-desktop"
	NotificationMobile  = "notification-mobile"
	MobileMenu          = "mobile-menu"
)

// Group is a set of named selectors of which at most one is open.
type Group struct {
	mu     sync.Mutex
	open   map[string]bool
	onOpen map[string]func()
}

func NewGroup() *Group {
	return &Group{
		open:   make(map[string]bool),
		onOpen: make(map[string]func()),
	}
}

// Register adds a selector. onOpen fires each time the selector transitions
// to open (the notification dropdowns use it to load a fresh list); nil for
// selectors with no open-time work.
func (g *Group) Register(name string, onOpen func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open[name] = false
	if onOpen != nil {
		g.onOpen[name] = onOpen
	}
}

// Toggle flips a selector. Opening closes every other selector first.
// Returns the selector's new open state. Unknown names no-op as closed;
// not every page renders every selector.
func (g *Group) Toggle(name string) bool {
	g.mu.Lock()
	if _, ok := g.open[name]; !ok {
		g.mu.Unlock()
		return false
	}

	if g.open[name] {
		g.open[name] = false
		g.mu.Unlock()
		return false
	}

	for other := range g.open {
		g.open[other] = false
	}
	g.open[name] = true
	hook := g.onOpen[name]
	g.mu.Unlock()

	if hook != nil {
		hook()
	}
	return true
}

// Close closes one selector if it is open.
func (g *Group) Close(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.open[name]; ok {
		g.open[name] = false
	}
}

// CloseAll closes every selector.
func (g *Group) CloseAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for name := range g.open {
		g.open[name] = false
	}
}

// OutsideClick handles a document-level click: every selector not containing
// the click closes. inside is the selector the click landed in, or "" for a
// click on open page area.
func (g *Group) OutsideClick(inside string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for name := range g.open {
		if name != inside {
			g.open[name] = false
		}
	}
}

// IsOpen reports a selector's state.
func (g *Group) IsOpen(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open[name]
}
