package booking

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Kind discriminates which resource family a booking references. Ids are
// not unique across families, so a bare id is never enough to resolve one.
type Kind string

const (
	KindLodging    Kind = "lodging"
	KindConference Kind = "conference"
)

// Ref identifies the booked resource. The discriminator is resolved once
// at ingestion; downstream code never sniffs record shapes.
type Ref struct {
	Kind Kind
	ID   int64
}

// Booking is one reservation row. Bookings are immutable from the admin's
// perspective; the backend owns status transitions.
type Booking struct {
	ID              int64     `json:"id"`
	ResourceID      int64     `json:"booking_id"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	GuestPhone      string    `json:"guest_phone,omitempty"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Guests          int       `json:"guests"`
	Amount          int64     `json:"amount"`
	Reference       string    `json:"reference,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Ref is derived from ResourceID plus the endpoint the row came from.
	Ref Ref `json:"-"`
}

// IsConfirmed reports whether the booking counts as confirmed; every other
// status groups with pending in the admin views.
func (b Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}
