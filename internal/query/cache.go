package query

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Loader fetches the value for a query key.
type Loader func(ctx context.Context) (any, error)

// State is the observable lifecycle of a cached query.
// Data stays populated across refetches so views never flash empty.
type State struct {
	Data      any
	IsLoading bool
	Err       error
}

type entry struct {
	key   Key
	state State
	stale bool
	// gen counts invalidations. A load settles only if no invalidation
	// happened after it started, so stale flights can never publish.
	gen int
}

// Cache maps query keys to their last successful result. Reads of the same
// key share a single in-flight load, and invalidation marks entries stale
// without dropping their data. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

// NewCache creates an empty Cache. Build one per application lifecycle and
// pass it by reference; tests get isolation from a fresh instance.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// Fetch returns the value for key, invoking loader only when the entry is
// absent or stale. Concurrent fetches of the same key share one loader call.
// It blocks until the load completes or ctx is done; an abandoned wait does
// not disturb the entry, which still settles when the load finishes.
func (c *Cache) Fetch(ctx context.Context, key Key, loader Loader) State {
	id := key.String()

	c.mu.Lock()
	e, ok := c.entries[id]
	if ok && !e.stale && !e.state.IsLoading {
		st := e.state
		c.mu.Unlock()
		return st
	}
	if !ok {
		e = &entry{key: key}
		c.entries[id] = e
	}
	e.state.IsLoading = true
	e.stale = false
	gen := e.gen
	c.mu.Unlock()

	ch := c.group.DoChan(id, func() (any, error) {
		data, err := loader(context.WithoutCancel(ctx))
		c.settle(id, gen, data, err)
		return data, err
	})

	select {
	case <-ch:
	case <-ctx.Done():
		// The caller stopped observing; the load settles on its own.
		return State{IsLoading: true, Err: ctx.Err()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[id].state
}

// FetchIf behaves like Fetch when enabled, and otherwise reports an idle
// empty state without ever invoking the loader. Used to gate queries on
// authentication.
func (c *Cache) FetchIf(ctx context.Context, enabled bool, key Key, loader Loader) State {
	if !enabled {
		return State{}
	}
	return c.Fetch(ctx, key, loader)
}

// Peek returns the current state for key without triggering a load.
func (c *Cache) Peek(key Key) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

// Invalidate marks every entry whose key starts with prefix as stale.
// Data is kept so readers see the previous value while the next Fetch
// refetches in the background. Loads already in flight are detached from
// their key: their outcome is discarded and the next Fetch starts a fresh
// one, so a read after invalidation never settles on pre-invalidation data.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
			e.gen++
			c.group.Forget(e.key.String())
		}
	}
	log.Debug().Str("prefix", prefix.String()).Msg("cache invalidated")
}

// settle records the outcome of a load. A failed refetch keeps the previous
// data, matching the keep-data-while-stale policy. Outcomes of loads that
// started before the entry's last invalidation are dropped.
func (c *Cache) settle(id string, gen int, data any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || e.gen != gen {
		return
	}
	e.state.IsLoading = false
	e.state.Err = err
	if err == nil {
		e.state.Data = data
	}
}

// Typed extracts the data of a State as T. ok is false when the state holds
// no data or a different type.
func Typed[T any](s State) (T, bool) {
	v, ok := s.Data.(T)
	return v, ok
}
