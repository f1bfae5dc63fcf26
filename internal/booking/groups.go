package booking

// Grouped is the presentation split of a booking list: confirmed bookings
// by resource kind, everything else on the pending side. A pure function of
// the loaded list; no fetch involved.
type Grouped struct {
	ConfirmedLodging    []Booking
	ConfirmedConference []Booking
	Pending             []Booking
}

// Group splits bookings by confirmation status and, within confirmed, by
// resource kind. Order within each group follows the input.
func Group(bookings []Booking) Grouped {
	var g Grouped
	for _, b := range bookings {
		switch {
		case !b.IsConfirmed():
			g.Pending = append(g.Pending, b)
		case b.Ref.Kind == KindConference:
			g.ConfirmedConference = append(g.ConfirmedConference, b)
		default:
			g.ConfirmedLodging = append(g.ConfirmedLodging, b)
		}
	}
	return g
}
