package confirm

import (
	"sync"
	"time"
)

// DefaultWindow is how long a delete stays armed before it auto-resets.
const DefaultWindow = 3 * time.Second

// Gate guards destructive actions behind a second click. The first click on
// an id arms the gate for it; a second click on the same id within the
// window confirms, and the window expiring or a click on a different id
// re-arms without deleting anything. Safe for concurrent use.
type Gate struct {
	mu     sync.Mutex
	window time.Duration
	armed  string
	gen    int
	timer  *time.Timer
}

// NewGate creates a Gate with the given arm window; zero means DefaultWindow.
func NewGate(window time.Duration) *Gate {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Gate{window: window}
}

// Click registers a delete click for id and reports whether the caller
// should execute the delete now.
func (g *Gate) Click(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.armed == id && id != "" {
		g.disarmLocked()
		return true
	}

	// Arm (or re-arm for a different id) and start a fresh window. The
	// generation guards against a stale timer disarming a newer cycle.
	g.armed = id
	g.gen++
	gen := g.gen
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.window, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.gen == gen {
			g.disarmLocked()
		}
	})
	return false
}

// Armed returns the currently armed id, or ok=false when idle.
func (g *Gate) Armed() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed, g.armed != ""
}

// Reset disarms the gate without deleting, e.g. when a list refreshes.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disarmLocked()
}

func (g *Gate) disarmLocked() {
	g.armed = ""
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
