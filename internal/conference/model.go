package conference

import (
	"time"

	"github.com/nekogravitycat/venue-admin/internal/gallery"
	"github.com/nekogravitycat/venue-admin/internal/pkg/apperror"
)

var (
	ErrEmptyName    = apperror.New(apperror.KindValidation, "name cannot be empty")
	ErrInvalidPrice = apperror.New(apperror.KindValidation, "price is out of the accepted range")
)

// Room is a bookable conference room.
type Room struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Price       int64          `json:"price"`
	Size        int            `json:"size"`
	MaxUsers    int            `json:"max_users"`
	Amenities   []string       `json:"amenities"`
	Description string         `json:"description"`
	ImageURLs   []string       `json:"image_urls"`
	Images      gallery.Images `json:"images,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
