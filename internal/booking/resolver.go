package booking

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// DetailFetcher loads the full resource referenced by an id of one kind.
type DetailFetcher func(ctx context.Context, id int64) (any, error)

// Resolver lazily loads the resource details referenced by booking rows.
// Details are cached per (kind, id) for the whole session; a failed fetch
// pins the ref as unresolved so re-renders never turn into retry loops.
// Safe for concurrent use.
type Resolver struct {
	mu       sync.Mutex
	fetchers map[Kind]DetailFetcher
	resolved map[Ref]any
	seen     map[Ref]bool
}

func NewResolver(fetchers map[Kind]DetailFetcher) *Resolver {
	return &Resolver{
		fetchers: fetchers,
		resolved: make(map[Ref]any),
		seen:     make(map[Ref]bool),
	}
}

// ResolveAll fetches details for every ref in the list that has not been
// attempted yet. Refs are deduplicated by (kind, id), so the same list can
// be passed on every re-render at no extra network cost.
func (r *Resolver) ResolveAll(ctx context.Context, bookings []Booking) {
	r.mu.Lock()
	var missing []Ref
	for _, b := range bookings {
		if b.Ref.ID == 0 || r.seen[b.Ref] {
			continue
		}
		r.seen[b.Ref] = true
		missing = append(missing, b.Ref)
	}
	r.mu.Unlock()

	for _, ref := range missing {
		fetch, ok := r.fetchers[ref.Kind]
		if !ok {
			continue
		}
		detail, err := fetch(ctx, ref.ID)
		if err != nil {
			// Leave the ref unresolved for the rest of the session; the
			// row renders its fallback instead of blocking the list.
			log.Warn().Str("kind", string(ref.Kind)).Int64("id", ref.ID).
				Err(err).Msg("booking detail unavailable")
			continue
		}
		r.mu.Lock()
		r.resolved[ref] = detail
		r.mu.Unlock()
	}
}

// Lookup returns the resolved detail for ref, or ok=false when the ref is
// unknown or its fetch failed.
func (r *Resolver) Lookup(ref Ref) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	detail, ok := r.resolved[ref]
	return detail, ok
}
