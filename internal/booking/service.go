package booking

import (
	"context"

	"github.com/nekogravitycat/venue-admin/internal/api"
	"github.com/nekogravitycat/venue-admin/internal/query"
)

// Cache key prefixes for the two booking lists.
var (
	LodgingKey    = query.K("admin-lodging-bookings")
	ConferenceKey = query.K("admin-conference-bookings")
)

type Service interface {
	// ListLodging returns lodging bookings with refs tagged KindLodging.
	ListLodging(ctx context.Context) ([]Booking, error)
	// ListConference returns conference bookings with refs tagged KindConference.
	ListConference(ctx context.Context) ([]Booking, error)
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) ListLodging(ctx context.Context) ([]Booking, error) {
	return s.list(ctx, "/lodging-bookings", KindLodging)
}

func (s *service) ListConference(ctx context.Context) ([]Booking, error) {
	return s.list(ctx, "/conference-bookings", KindConference)
}

func (s *service) list(ctx context.Context, path string, kind Kind) ([]Booking, error) {
	var out []Booking
	if err := s.client.GetJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Ref = Ref{Kind: kind, ID: out[i].ResourceID}
	}
	return out, nil
}
