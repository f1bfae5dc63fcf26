package booking

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAllDeduplicatesByKindAndID(t *testing.T) {
	var lodgingFetches, conferenceFetches int32
	r := NewResolver(map[Kind]DetailFetcher{
		KindLodging: func(ctx context.Context, id int64) (any, error) {
			atomic.AddInt32(&lodgingFetches, 1)
			return fmt.Sprintf("lodging-%d", id), nil
		},
		KindConference: func(ctx context.Context, id int64) (any, error) {
			atomic.AddInt32(&conferenceFetches, 1)
			return fmt.Sprintf("conference-%d", id), nil
		},
	})

	// Ids collide across kinds on purpose; (kind, id) is the identity.
	list := []Booking{
		{ID: 1, Ref: Ref{Kind: KindLodging, ID: 5}},
		{ID: 2, Ref: Ref{Kind: KindLodging, ID: 5}},
		{ID: 3, Ref: Ref{Kind: KindConference, ID: 5}},
	}

	r.ResolveAll(context.Background(), list)
	assert.Equal(t, int32(1), atomic.LoadInt32(&lodgingFetches))
	assert.Equal(t, int32(1), atomic.LoadInt32(&conferenceFetches))

	detail, ok := r.Lookup(Ref{Kind: KindLodging, ID: 5})
	require.True(t, ok)
	assert.Equal(t, "lodging-5", detail)
	detail, ok = r.Lookup(Ref{Kind: KindConference, ID: 5})
	require.True(t, ok)
	assert.Equal(t, "conference-5", detail)

	// A re-render with a fresh slice of the same rows costs nothing.
	r.ResolveAll(context.Background(), []Booking{
		{ID: 1, Ref: Ref{Kind: KindLodging, ID: 5}},
		{ID: 3, Ref: Ref{Kind: KindConference, ID: 5}},
	})
	assert.Equal(t, int32(1), atomic.LoadInt32(&lodgingFetches))
	assert.Equal(t, int32(1), atomic.LoadInt32(&conferenceFetches))
}

func TestResolveAllFailureIsPermanentForSession(t *testing.T) {
	var fetches int32
	r := NewResolver(map[Kind]DetailFetcher{
		KindLodging: func(ctx context.Context, id int64) (any, error) {
			atomic.AddInt32(&fetches, 1)
			return nil, errors.New("lodging gone")
		},
	})

	list := []Booking{{ID: 1, Ref: Ref{Kind: KindLodging, ID: 7}}}
	r.ResolveAll(context.Background(), list)
	r.ResolveAll(context.Background(), list)
	r.ResolveAll(context.Background(), list)

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches), "failed ids are never retried")
	_, ok := r.Lookup(Ref{Kind: KindLodging, ID: 7})
	assert.False(t, ok, "failed ids stay unresolved")
}

func TestResolveAllSkipsUnknownKindsAndZeroIDs(t *testing.T) {
	r := NewResolver(map[Kind]DetailFetcher{})
	r.ResolveAll(context.Background(), []Booking{
		{ID: 1, Ref: Ref{Kind: KindLodging, ID: 3}},
		{ID: 2},
	})
	_, ok := r.Lookup(Ref{Kind: KindLodging, ID: 3})
	assert.False(t, ok)
}

func TestGroupSplitsByStatusThenKind(t *testing.T) {
	list := []Booking{
		{ID: 1, Status: StatusConfirmed, Ref: Ref{Kind: KindLodging, ID: 1}},
		{ID: 2, Status: StatusPending, Ref: Ref{Kind: KindLodging, ID: 2}},
		{ID: 3, Status: StatusConfirmed, Ref: Ref{Kind: KindConference, ID: 3}},
		{ID: 4, Status: StatusCancelled, Ref: Ref{Kind: KindConference, ID: 4}},
		{ID: 5, Status: StatusCompleted, Ref: Ref{Kind: KindLodging, ID: 5}},
		{ID: 6, Status: StatusConfirmed, Ref: Ref{Kind: KindLodging, ID: 6}},
	}

	g := Group(list)

	ids := func(bs []Booking) []int64 {
		out := make([]int64, len(bs))
		for i, b := range bs {
			out[i] = b.ID
		}
		return out
	}
	assert.Equal(t, []int64{1, 6}, ids(g.ConfirmedLodging))
	assert.Equal(t, []int64{3}, ids(g.ConfirmedConference))
	assert.Equal(t, []int64{2, 4, 5}, ids(g.Pending), "everything non-confirmed groups as pending")
}
