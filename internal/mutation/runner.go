package mutation

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/venue-admin/internal/pkg/apperror"
	"github.com/nekogravitycat/venue-admin/internal/query"
)

// FallbackMessage is shown when a failed mutation carries no usable message.
const FallbackMessage = "The operation failed. Please try again."

// Mutation is a write against the backend plus its cache consequences.
type Mutation struct {
	// Name appears in logs only.
	Name string
	// Action performs the write.
	Action func(ctx context.Context) error
	// Invalidates lists cache key prefixes to mark stale after success.
	Invalidates []query.Key
	// OnSuccess runs after invalidation, e.g. closing a dialog.
	OnSuccess func()
	// OnError receives a user-facing message. The cache is untouched.
	OnError func(message string)
}

// Runner executes mutations against a shared query cache. Invalidation is
// sequenced strictly after the action succeeds, so a refetch can never race
// ahead of its triggering write.
type Runner struct {
	cache *query.Cache
}

func NewRunner(cache *query.Cache) *Runner {
	return &Runner{cache: cache}
}

// Run executes the mutation. On success it invalidates the declared key
// prefixes and then fires OnSuccess, in that order. On failure it fires
// OnError with the server-provided message when present and leaves every
// cache entry reflecting pre-mutation truth.
func (r *Runner) Run(ctx context.Context, m Mutation) error {
	err := m.Action(ctx)
	if err != nil {
		log.Warn().Str("mutation", m.Name).Err(err).Msg("mutation failed")
		if m.OnError != nil {
			m.OnError(userMessage(err))
		}
		return err
	}

	for _, prefix := range m.Invalidates {
		r.cache.Invalidate(prefix)
	}
	if m.OnSuccess != nil {
		m.OnSuccess()
	}
	log.Debug().Str("mutation", m.Name).Msg("mutation applied")
	return nil
}

// userMessage extracts a presentable message from the error chain.
func userMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return FallbackMessage
}
