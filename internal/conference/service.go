package conference

import (
	"context"
	"fmt"
	"time"

	"github.com/nekogravitycat/venue-admin/internal/api"
	"github.com/nekogravitycat/venue-admin/internal/pkg/validate"
	"github.com/nekogravitycat/venue-admin/internal/query"
)

// AdminKey backs the conference-room management list.
var AdminKey = query.K("admin-conference-rooms")

type Service interface {
	List(ctx context.Context) ([]Room, error)
	GetByID(ctx context.Context, id int64) (*Room, error)
	Create(ctx context.Context, r Room) (*Room, error)
	Update(ctx context.Context, r Room) (*Room, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	client *api.Client
}

func NewService(client *api.Client) Service {
	return &service{client: client}
}

func (s *service) List(ctx context.Context) ([]Room, error) {
	var out []Room
	if err := s.client.GetJSON(ctx, "/conferences", &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Images = out[i].Images.Normalize()
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Room, error) {
	var out Room
	if err := s.client.GetJSON(ctx, fmt.Sprintf("/conferences/%d", id), &out); err != nil {
		return nil, err
	}
	out.Images = out.Images.Normalize()
	return &out, nil
}

func (s *service) Create(ctx context.Context, r Room) (*Room, error) {
	if err := normalize(&r); err != nil {
		return nil, err
	}
	r.ID = 0
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt

	var out Room
	if err := s.client.PostJSON(ctx, "/conferences", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Update(ctx context.Context, r Room) (*Room, error) {
	if err := normalize(&r); err != nil {
		return nil, err
	}
	r.UpdatedAt = time.Now().UTC()

	var out Room
	if err := s.client.PutJSON(ctx, fmt.Sprintf("/conferences/%d", r.ID), r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/conferences/%d", id))
}

func normalize(r *Room) error {
	r.Name = validate.SanitizeInput(r.Name)
	if r.Name == "" {
		return ErrEmptyName
	}
	if !validate.Amount(r.Price) {
		return ErrInvalidPrice
	}
	r.Description = validate.SanitizeInput(r.Description)
	if len(r.Images) > 0 {
		r.Images = r.Images.Normalize()
		r.ImageURLs = r.Images.URLs()
	}
	if r.ImageURLs == nil {
		r.ImageURLs = []string{}
	}
	if r.Amenities == nil {
		r.Amenities = []string{}
	}
	return nil
}
