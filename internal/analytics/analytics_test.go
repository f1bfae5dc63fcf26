package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/venue-admin/internal/booking"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestMonthlyBucketsAndRevenue(t *testing.T) {
	bookings := []booking.Booking{
		{Status: booking.StatusConfirmed, Amount: 15000, GuestEmail: "a@x.com", CreatedAt: day(2026, time.July, 3)},
		{Status: booking.StatusCompleted, Amount: 9000, GuestEmail: "b@x.com", CreatedAt: day(2026, time.July, 20)},
		{Status: booking.StatusCancelled, Amount: 5000, GuestEmail: "a@x.com", CreatedAt: day(2026, time.July, 21)},
		{Status: booking.StatusConfirmed, Amount: 4000, GuestEmail: "a@x.com", CreatedAt: day(2026, time.August, 1)},
	}

	reports := Monthly(bookings)
	require.Len(t, reports, 2)

	july := reports[0]
	assert.Equal(t, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), july.Month)
	assert.Equal(t, 3, july.TotalBookings)
	assert.Equal(t, 2, july.UniqueGuests, "same guest counted once")
	assert.Equal(t, int64(24000), july.TotalRevenue, "cancelled bookings carry no revenue")
	assert.Equal(t, int64(8000), july.AverageBookingValue)

	august := reports[1]
	assert.Equal(t, 1, august.TotalBookings)
	assert.Equal(t, int64(4000), august.TotalRevenue)
}

func TestMonthlyFallsBackToStartDate(t *testing.T) {
	reports := Monthly([]booking.Booking{
		{Status: booking.StatusConfirmed, Amount: 1000, StartDate: day(2026, time.June, 10)},
		{Status: booking.StatusPending}, // no usable date at all
	})
	require.Len(t, reports, 1)
	assert.Equal(t, time.June, reports[0].Month.Month())
}

func TestMonthlyEmpty(t *testing.T) {
	assert.Empty(t, Monthly(nil))
}

func TestStatsOccupancy(t *testing.T) {
	now := day(2026, time.July, 15)
	room := func(id int64) booking.Ref { return booking.Ref{Kind: booking.KindLodging, ID: id} }

	bookings := []booking.Booking{
		// Covers now: room 1 occupied.
		{Status: booking.StatusConfirmed, Amount: 15000, Ref: room(1),
			StartDate: day(2026, time.July, 14), EndDate: day(2026, time.July, 16)},
		// Two confirmed stays in the same room still occupy one room.
		{Status: booking.StatusConfirmed, Amount: 8000, Ref: room(1),
			StartDate: day(2026, time.July, 15), EndDate: day(2026, time.July, 17)},
		// Already ended.
		{Status: booking.StatusConfirmed, Amount: 6000, Ref: room(2),
			StartDate: day(2026, time.July, 1), EndDate: day(2026, time.July, 5)},
		// Pending stays do not block the room.
		{Status: booking.StatusPending, Amount: 7000, Ref: room(3),
			StartDate: day(2026, time.July, 14), EndDate: day(2026, time.July, 16)},
	}

	stats := Stats(bookings, 5, now)
	assert.Equal(t, 4, stats.TotalBookings)
	assert.Equal(t, 5, stats.TotalRooms)
	assert.Equal(t, 4, stats.AvailableRooms)
	assert.Equal(t, int64(29000), stats.TotalRevenue, "pending amounts are not recognized")
}

func TestStatsAvailableNeverNegative(t *testing.T) {
	now := day(2026, time.July, 15)
	bookings := []booking.Booking{
		{Status: booking.StatusConfirmed, Ref: booking.Ref{Kind: booking.KindLodging, ID: 1},
			StartDate: day(2026, time.July, 14), EndDate: day(2026, time.July, 16)},
	}
	stats := Stats(bookings, 0, now)
	assert.Equal(t, 0, stats.AvailableRooms)
}
