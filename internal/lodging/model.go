package lodging

import (
	"time"

	"github.com/nekogravitycat/venue-admin/internal/gallery"
	"github.com/nekogravitycat/venue-admin/internal/pkg/apperror"
)

var (
	ErrEmptyName    = apperror.New(apperror.KindValidation, "name cannot be empty")
	ErrInvalidPrice = apperror.New(apperror.KindValidation, "price is out of the accepted range")
)

// Lodging is a bookable hotel room.
type Lodging struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Occupancy   int            `json:"occupancy"`
	Price       int64          `json:"price"`
	Amenities   []string       `json:"amenities"`
	Description string         `json:"description"`
	ImageURLs   []string       `json:"image_urls"`
	Images      gallery.Images `json:"images,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
