package stub

import (
	"context"
	"time"

	"github.com/nekogravitycat/venue-admin/internal/booking"
	"github.com/nekogravitycat/venue-admin/internal/conference"
	"github.com/nekogravitycat/venue-admin/internal/lodging"
	"github.com/nekogravitycat/venue-admin/internal/pkg/validate"
)

// Seed populates an empty database with a handful of rooms and bookings so
// the dashboard has something to show on first run. A non-empty database is
// left alone.
func Seed(ctx context.Context, db *Store) error {
	existing, err := db.ListLodgings(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	rooms := []lodging.Lodging{
		{Name: "Ocean View", Type: "deluxe", Occupancy: 2, Price: 15000,
			Amenities: []string{"wifi", "air conditioning", "balcony"}},
		{Name: "Garden Suite", Type: "suite", Occupancy: 4, Price: 24000,
			Amenities: []string{"wifi", "kitchenette"}},
		{Name: "Standard Twin", Type: "standard", Occupancy: 2, Price: 9000,
			Amenities: []string{"wifi"}},
	}
	for i := range rooms {
		if err := db.CreateLodging(ctx, &rooms[i]); err != nil {
			return err
		}
	}

	confs := []conference.Room{
		{Name: "Boardroom A", Price: 30000, Size: 40, MaxUsers: 12,
			Amenities: []string{"projector", "whiteboard"}},
		{Name: "Main Hall", Price: 90000, Size: 220, MaxUsers: 150,
			Amenities: []string{"stage", "sound system"}},
	}
	for i := range confs {
		if err := db.CreateConference(ctx, &confs[i]); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	seedBookings := []struct {
		kind booking.Kind
		b    booking.Booking
	}{
		{booking.KindLodging, booking.Booking{
			ResourceID: rooms[0].ID, GuestName: "Amina Yusuf", GuestEmail: "amina@example.com",
			StartDate: now.AddDate(0, 0, 2), EndDate: now.AddDate(0, 0, 5),
			Guests: 2, Amount: 45000, Status: booking.StatusConfirmed,
			Reference: validate.SecureReference("LDG"),
		}},
		{booking.KindLodging, booking.Booking{
			ResourceID: rooms[1].ID, GuestName: "John Mwangi", GuestEmail: "john@example.com",
			StartDate: now.AddDate(0, 0, 7), EndDate: now.AddDate(0, 0, 9),
			Guests: 3, Amount: 48000, Status: booking.StatusPending,
			Reference: validate.SecureReference("LDG"),
		}},
		{booking.KindConference, booking.Booking{
			ResourceID: confs[0].ID, GuestName: "Grace Njeri", GuestEmail: "grace@example.com",
			StartDate: now.AddDate(0, 0, 1), EndDate: now.AddDate(0, 0, 1),
			Guests: 10, Amount: 30000, Status: booking.StatusConfirmed,
			Reference: validate.SecureReference("CNF"),
		}},
	}
	for _, sb := range seedBookings {
		b := sb.b
		if err := db.CreateBooking(ctx, sb.kind, &b); err != nil {
			return err
		}
	}
	return nil
}
