package app

import (
	"context"
	"time"

	"github.com/nekogravitycat/venue-admin/internal/api"
	"github.com/nekogravitycat/venue-admin/internal/booking"
	"github.com/nekogravitycat/venue-admin/internal/conference"
	"github.com/nekogravitycat/venue-admin/internal/confirm"
	"github.com/nekogravitycat/venue-admin/internal/lodging"
	"github.com/nekogravitycat/venue-admin/internal/mutation"
	"github.com/nekogravitycat/venue-admin/internal/query"
	"github.com/nekogravitycat/venue-admin/internal/session"
	"github.com/nekogravitycat/venue-admin/internal/upload"
)

// Config carries the client-side settings the container needs.
type Config struct {
	BackendURL  string
	StateDir    string
	HTTPTimeout time.Duration
}

// Container wires the admin client together: one session gate, one API
// client reading its token, one query cache shared by every view, and the
// services on top. Built once at startup and passed by reference.
type Container struct {
	Session     *session.Gate
	Client      *api.Client
	Cache       *query.Cache
	Runner      *mutation.Runner
	Lodgings    lodging.Service
	Conferences conference.Service
	Bookings    booking.Service
	Resolver    *booking.Resolver
	Uploads     *upload.Service
	DeleteGate  *confirm.Gate
}

// NewContainer builds the object graph and restores any persisted session.
func NewContainer(cfg Config) (*Container, error) {
	store, err := session.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	gate := session.NewGate(store)
	gate.Restore()

	client := api.NewClient(cfg.BackendURL, cfg.HTTPTimeout, gate.Token)
	cache := query.NewCache()

	lodgings := lodging.NewService(client)
	conferences := conference.NewService(client)
	bookings := booking.NewService(client)

	resolver := booking.NewResolver(map[booking.Kind]booking.DetailFetcher{
		booking.KindLodging: func(ctx context.Context, id int64) (any, error) {
			return lodgings.GetByID(ctx, id)
		},
		booking.KindConference: func(ctx context.Context, id int64) (any, error) {
			return conferences.GetByID(ctx, id)
		},
	})

	return &Container{
		Session:     gate,
		Client:      client,
		Cache:       cache,
		Runner:      mutation.NewRunner(cache),
		Lodgings:    lodgings,
		Conferences: conferences,
		Bookings:    bookings,
		Resolver:    resolver,
		Uploads:     upload.NewService(client),
		DeleteGate:  confirm.NewGate(confirm.DefaultWindow),
	}, nil
}
