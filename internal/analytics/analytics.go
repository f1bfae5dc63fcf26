package analytics

import (
	"sort"
	"time"

	"github.com/nekogravitycat/venue-admin/internal/booking"
)

// MonthlyReport aggregates one calendar month of bookings. Revenue figures
// are in minor currency units.
type MonthlyReport struct {
	Month               time.Time
	TotalBookings       int
	UniqueGuests        int
	TotalRevenue        int64
	AverageBookingValue int64
}

// QuickStats is the dashboard summary card.
type QuickStats struct {
	TotalRevenue   int64
	TotalBookings  int
	TotalRooms     int
	AvailableRooms int
}

// countsTowardRevenue reports whether a booking's amount is recognized.
// Cancelled and still-pending bookings carry no revenue.
func countsTowardRevenue(b booking.Booking) bool {
	return b.Status == booking.StatusConfirmed || b.Status == booking.StatusCompleted
}

// Monthly buckets bookings by the calendar month they were created in and
// returns reports in chronological order. A pure function of the loaded
// lists; no fetch involved.
func Monthly(bookings []booking.Booking) []MonthlyReport {
	type bucket struct {
		report MonthlyReport
		guests map[string]bool
	}
	buckets := make(map[time.Time]*bucket)

	for _, b := range bookings {
		at := b.CreatedAt
		if at.IsZero() {
			at = b.StartDate
		}
		if at.IsZero() {
			continue
		}
		month := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)

		bk, ok := buckets[month]
		if !ok {
			bk = &bucket{report: MonthlyReport{Month: month}, guests: make(map[string]bool)}
			buckets[month] = bk
		}
		bk.report.TotalBookings++
		if b.GuestEmail != "" {
			bk.guests[b.GuestEmail] = true
		}
		if countsTowardRevenue(b) {
			bk.report.TotalRevenue += b.Amount
		}
	}

	out := make([]MonthlyReport, 0, len(buckets))
	for _, bk := range buckets {
		bk.report.UniqueGuests = len(bk.guests)
		if bk.report.TotalBookings > 0 {
			bk.report.AverageBookingValue = bk.report.TotalRevenue / int64(bk.report.TotalBookings)
		}
		out = append(out, bk.report)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// Stats computes the quick summary. A room counts as unavailable while a
// confirmed booking covers the given instant.
func Stats(bookings []booking.Booking, totalRooms int, now time.Time) QuickStats {
	stats := QuickStats{TotalRooms: totalRooms, TotalBookings: len(bookings)}

	occupied := make(map[booking.Ref]bool)
	for _, b := range bookings {
		if countsTowardRevenue(b) {
			stats.TotalRevenue += b.Amount
		}
		if b.Status == booking.StatusConfirmed &&
			!b.StartDate.After(now) && b.EndDate.After(now) {
			occupied[b.Ref] = true
		}
	}

	stats.AvailableRooms = totalRooms - len(occupied)
	if stats.AvailableRooms < 0 {
		stats.AvailableRooms = 0
	}
	return stats
}
