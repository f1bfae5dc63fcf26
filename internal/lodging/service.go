package lodging

import (
	"context"
	"fmt"
	"time"

	"github.com/nekogravitycat/venue-admin/internal/api"
	"github.com/nekogravitycat/venue-admin/internal/pkg/validate"
	"github.com/nekogravitycat/venue-admin/internal/query"
)

// Cache key prefixes fed by this service. AdminKey backs the management
// list; PublicKey is the guest-facing list the backend also serves, kept in
// sync on every mutation.
var (
	AdminKey  = query.K("admin-rooms")
	PublicKey = query.K("rooms")
)

type Service interface {
	List(ctx context.Context) ([]Lodging, error)
	GetByID(ctx context.Context, id int64) (*Lodging, error)
	Create(ctx context.Context, l Lodging) (*Lodging, error)
	Update(ctx context.Context, l Lodging) (*Lodging, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) List(ctx context.Context) ([]Lodging, error) {
	var out []Lodging
	if err := s.client.GetJSON(ctx, "/lodgings", &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Images = out[i].Images.Normalize()
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Lodging, error) {
	var out Lodging
	if err := s.client.GetJSON(ctx, fmt.Sprintf("/lodgings/%d", id), &out); err != nil {
		return nil, err
	}
	out.Images = out.Images.Normalize()
	return &out, nil
}

func (s *service) Create(ctx context.Context, l Lodging) (*Lodging, error) {
	if err := normalize(&l); err != nil {
		return nil, err
	}
	l.ID = 0
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt

	var out Lodging
	if err := s.client.PostJSON(ctx, "/lodgings", l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Update(ctx context.Context, l Lodging) (*Lodging, error) {
	if err := normalize(&l); err != nil {
		return nil, err
	}
	l.UpdatedAt = time.Now().UTC()

	var out Lodging
	if err := s.client.PutJSON(ctx, fmt.Sprintf("/lodgings/%d", l.ID), l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/lodgings/%d", id))
}

// normalize validates the editable fields and keeps the flat URL list in
// step with the gallery before the payload goes out.
func normalize(l *Lodging) error {
	l.Name = validate.SanitizeInput(l.Name)
	if l.Name == "" {
		return ErrEmptyName
	}
	if !validate.Amount(l.Price) {
		return ErrInvalidPrice
	}
	l.Description = validate.SanitizeInput(l.Description)
	if len(l.Images) > 0 {
		l.Images = l.Images.Normalize()
		l.ImageURLs = l.Images.URLs()
	}
	if l.ImageURLs == nil {
		l.ImageURLs = []string{}
	}
	if l.Amenities == nil {
		l.Amenities = []string{}
	}
	return nil
}
