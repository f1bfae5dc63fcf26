package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nekogravitycat/venue-admin/internal/analytics"
	"github.com/nekogravitycat/venue-admin/internal/app"
	"github.com/nekogravitycat/venue-admin/internal/booking"
	"github.com/nekogravitycat/venue-admin/internal/conference"
	"github.com/nekogravitycat/venue-admin/internal/lodging"
	"github.com/nekogravitycat/venue-admin/internal/mutation"
	"github.com/nekogravitycat/venue-admin/internal/query"
)

// console maps terminal commands onto the admin SDK. It owns nothing
// itself; all state lives in the container so views stay consistent.
type console struct {
	c   *app.Container
	out io.Writer
}

func newConsole(c *app.Container, out io.Writer) *console {
	return &console{c: c, out: out}
}

// Dispatch runs one command line. Returns true when the console should quit.
func (cl *console) Dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		cl.help()
	case "login":
		cl.login(ctx, args)
	case "logout":
		cl.c.Session.Logout()
		fmt.Fprintln(cl.out, "logged out")
	case "whoami":
		cl.whoami()
	case "rooms":
		cl.rooms(ctx, args)
	case "confs":
		cl.conferences(ctx, args)
	case "bookings":
		cl.bookings(ctx, args)
	case "analytics":
		cl.analytics(ctx)
	case "upload":
		cl.upload(ctx, args)
	default:
		fmt.Fprintf(cl.out, "unknown command %q (type 'help')\n", cmd)
	}
	return false
}

func (cl *console) help() {
	fmt.Fprint(cl.out, `commands:
  login <email> <password>      authenticate against the backend
  logout                        clear the persisted session
  whoami                        show the authenticated admin
  rooms                         list lodging rooms
  rooms add <name> <price>      create a lodging room
  rooms rm <id>                 delete (click twice within 3s to confirm)
  confs                         list conference rooms
  confs add <name> <price>      create a conference room
  confs rm <id>                 delete (click twice within 3s to confirm)
  bookings [lodging|conference] grouped booking lists with room details
  analytics                     monthly revenue and quick stats
  upload <path>                 upload an image, prints its URL
  exit
`)
}

func (cl *console) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(cl.out, "usage: login <email> <password>")
		return
	}
	ident, err := cl.c.Session.Login(ctx, cl.c.Client, args[0], args[1])
	if err != nil {
		fmt.Fprintf(cl.out, "login failed: %v\n", err)
		return
	}
	fmt.Fprintf(cl.out, "welcome, %s <%s>\n", ident.Name, ident.Email)
}

func (cl *console) whoami() {
	ident, ok := cl.c.Session.Identity()
	if !ok || !cl.c.Session.IsAuthenticated() {
		fmt.Fprintln(cl.out, "not logged in")
		return
	}
	fmt.Fprintf(cl.out, "%s <%s> (id %s)\n", ident.Name, ident.Email, ident.ID)
}

// notify builds the success/error hooks every mutation shares.
func (cl *console) notify(success string) (func(), func(string)) {
	onSuccess := func() { fmt.Fprintln(cl.out, success) }
	onError := func(msg string) { fmt.Fprintf(cl.out, "error: %s\n", msg) }
	return onSuccess, onError
}

// ---- lodging rooms ----

func (cl *console) rooms(ctx context.Context, args []string) {
	if len(args) == 0 {
		cl.listRooms(ctx)
		return
	}
	switch args[0] {
	case "add":
		if len(args) != 3 {
			fmt.Fprintln(cl.out, "usage: rooms add <name> <price>")
			return
		}
		cl.addRoom(ctx, args[1], args[2])
	case "rm":
		if len(args) != 2 {
			fmt.Fprintln(cl.out, "usage: rooms rm <id>")
			return
		}
		cl.deleteRoom(ctx, args[1])
	default:
		fmt.Fprintln(cl.out, "usage: rooms [add|rm]")
	}
}

func (cl *console) listRooms(ctx context.Context) {
	state := cl.c.Cache.FetchIf(ctx, cl.c.Session.IsAuthenticated(), lodging.AdminKey,
		func(ctx context.Context) (any, error) {
			return cl.c.Lodgings.List(ctx)
		})
	if !cl.c.Session.IsAuthenticated() {
		fmt.Fprintln(cl.out, "login first")
		return
	}
	if state.Err != nil {
		fmt.Fprintf(cl.out, "error: %v\n", state.Err)
		return
	}
	rooms, _ := query.Typed[[]lodging.Lodging](state)

	w := tabwriter.NewWriter(cl.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tOCCUPANCY\tPRICE\tIMAGES")
	for _, r := range rooms {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.Name, r.Type, r.Occupancy, r.Price, len(r.ImageURLs))
	}
	w.Flush()
}

func (cl *console) addRoom(ctx context.Context, name, priceStr string) {
	price, err := strconv.ParseInt(priceStr, 10, 64)
	if err != nil {
		fmt.Fprintln(cl.out, "price must be an integer in minor units")
		return
	}
	onSuccess, onError := cl.notify("room created")
	_ = cl.c.Runner.Run(ctx, mutation.Mutation{
		Name: "create-room",
		Action: func(ctx context.Context) error {
			_, err := cl.c.Lodgings.Create(ctx, lodging.Lodging{Name: name, Price: price})
			return err
		},
		Invalidates: []query.Key{lodging.AdminKey, lodging.PublicKey},
		OnSuccess:   onSuccess,
		OnError:     onError,
	})
}

func (cl *console) deleteRoom(ctx context.Context, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		fmt.Fprintln(cl.out, "invalid id")
		return
	}
	if !cl.c.DeleteGate.Click("room:" + idStr) {
		fmt.Fprintln(cl.out, "repeat the command within 3s to confirm deletion")
		return
	}
	onSuccess, onError := cl.notify("room deleted")
	_ = cl.c.Runner.Run(ctx, mutation.Mutation{
		Name: "delete-room",
		Action: func(ctx context.Context) error {
			return cl.c.Lodgings.Delete(ctx, id)
		},
		Invalidates: []query.Key{lodging.AdminKey, lodging.PublicKey},
		OnSuccess:   onSuccess,
		OnError:     onError,
	})
}

// ---- conference rooms ----

func (cl *console) conferences(ctx context.Context, args []string) {
	if len(args) == 0 {
		cl.listConferences(ctx)
		return
	}
	switch args[0] {
	case "add":
		if len(args) != 3 {
			fmt.Fprintln(cl.out, "usage: confs add <name> <price>")
			return
		}
		cl.addConference(ctx, args[1], args[2])
	case "rm":
		if len(args) != 2 {
			fmt.Fprintln(cl.out, "usage: confs rm <id>")
			return
		}
		cl.deleteConference(ctx, args[1])
	default:
		fmt.Fprintln(cl.out, "usage: confs [add|rm]")
	}
}

func (cl *console) listConferences(ctx context.Context) {
	state := cl.c.Cache.FetchIf(ctx, cl.c.Session.IsAuthenticated(), conference.AdminKey,
		func(ctx context.Context) (any, error) {
			return cl.c.Conferences.List(ctx)
		})
	if !cl.c.Session.IsAuthenticated() {
		fmt.Fprintln(cl.out, "login first")
		return
	}
	if state.Err != nil {
		fmt.Fprintf(cl.out, "error: %v\n", state.Err)
		return
	}
	rooms, _ := query.Typed[[]conference.Room](state)

	w := tabwriter.NewWriter(cl.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tMAX USERS\tPRICE\tIMAGES")
	for _, r := range rooms {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.Name, r.Size, r.MaxUsers, r.Price, len(r.ImageURLs))
	}
	w.Flush()
}

func (cl *console) addConference(ctx context.Context, name, priceStr string) {
	price, err := strconv.ParseInt(priceStr, 10, 64)
	if err != nil {
		fmt.Fprintln(cl.out, "price must be an integer in minor units")
		return
	}
	onSuccess, onError := cl.notify("conference room created")
	_ = cl.c.Runner.Run(ctx, mutation.Mutation{
		Name: "create-conference",
		Action: func(ctx context.Context) error {
			_, err := cl.c.Conferences.Create(ctx, conference.Room{Name: name, Price: price})
			return err
		},
		Invalidates: []query.Key{conference.AdminKey},
		OnSuccess:   onSuccess,
		OnError:     onError,
	})
}

func (cl *console) deleteConference(ctx context.Context, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		fmt.Fprintln(cl.out, "invalid id")
		return
	}
	if !cl.c.DeleteGate.Click("conf:" + idStr) {
		fmt.Fprintln(cl.out, "repeat the command within 3s to confirm deletion")
		return
	}
	onSuccess, onError := cl.notify("conference room deleted")
	_ = cl.c.Runner.Run(ctx, mutation.Mutation{
		Name: "delete-conference",
		Action: func(ctx context.Context) error {
			return cl.c.Conferences.Delete(ctx, id)
		},
		Invalidates: []query.Key{conference.AdminKey},
		OnSuccess:   onSuccess,
		OnError:     onError,
	})
}

// ---- bookings ----

func (cl *console) bookings(ctx context.Context, args []string) {
	if !cl.c.Session.IsAuthenticated() {
		fmt.Fprintln(cl.out, "login first")
		return
	}

	which := "lodging"
	if len(args) > 0 {
		which = args[0]
	}

	var key query.Key
	var load query.Loader
	switch which {
	case "lodging":
		key = booking.LodgingKey
		load = func(ctx context.Context) (any, error) { return cl.c.Bookings.ListLodging(ctx) }
	case "conference":
		key = booking.ConferenceKey
		load = func(ctx context.Context) (any, error) { return cl.c.Bookings.ListConference(ctx) }
	default:
		fmt.Fprintln(cl.out, "usage: bookings [lodging|conference]")
		return
	}

	state := cl.c.Cache.Fetch(ctx, key, load)
	if state.Err != nil {
		fmt.Fprintf(cl.out, "error: %v\n", state.Err)
		return
	}
	list, _ := query.Typed[[]booking.Booking](state)

	cl.c.Resolver.ResolveAll(ctx, list)
	groups := booking.Group(list)

	fmt.Fprintln(cl.out, "== confirmed (lodging) ==")
	cl.printBookings(groups.ConfirmedLodging)
	fmt.Fprintln(cl.out, "== confirmed (conference) ==")
	cl.printBookings(groups.ConfirmedConference)
	fmt.Fprintln(cl.out, "== pending ==")
	cl.printBookings(groups.Pending)
}

func (cl *console) printBookings(list []booking.Booking) {
	if len(list) == 0 {
		fmt.Fprintln(cl.out, "  (none)")
		return
	}
	w := tabwriter.NewWriter(cl.out, 0, 4, 2, ' ', 0)
	for _, b := range list {
		name := "N/A"
		if detail, ok := cl.c.Resolver.Lookup(b.Ref); ok {
			switch d := detail.(type) {
			case *lodging.Lodging:
				name = d.Name
			case *conference.Room:
				name = d.Name
			}
		}
		fmt.Fprintf(w, "  #%d\t%s\t%s\t%s\t%s → %s\t%d guests\n",
			b.ID, b.GuestName, b.GuestEmail, name,
			b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"), b.Guests)
	}
	w.Flush()
}

// ---- analytics ----

func (cl *console) analytics(ctx context.Context) {
	if !cl.c.Session.IsAuthenticated() {
		fmt.Fprintln(cl.out, "login first")
		return
	}

	lodgingState := cl.c.Cache.Fetch(ctx, booking.LodgingKey,
		func(ctx context.Context) (any, error) { return cl.c.Bookings.ListLodging(ctx) })
	confState := cl.c.Cache.Fetch(ctx, booking.ConferenceKey,
		func(ctx context.Context) (any, error) { return cl.c.Bookings.ListConference(ctx) })
	roomsState := cl.c.Cache.Fetch(ctx, lodging.AdminKey,
		func(ctx context.Context) (any, error) { return cl.c.Lodgings.List(ctx) })
	for _, st := range []query.State{lodgingState, confState, roomsState} {
		if st.Err != nil {
			fmt.Fprintf(cl.out, "error: %v\n", st.Err)
			return
		}
	}

	lb, _ := query.Typed[[]booking.Booking](lodgingState)
	cb, _ := query.Typed[[]booking.Booking](confState)
	rooms, _ := query.Typed[[]lodging.Lodging](roomsState)
	all := append(append([]booking.Booking{}, lb...), cb...)

	stats := analytics.Stats(all, len(rooms), time.Now().UTC())
	fmt.Fprintf(cl.out, "revenue %d | bookings %d | rooms %d | available %d\n",
		stats.TotalRevenue, stats.TotalBookings, stats.TotalRooms, stats.AvailableRooms)

	w := tabwriter.NewWriter(cl.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tBOOKINGS\tGUESTS\tREVENUE\tAVG")
	for _, m := range analytics.Monthly(all) {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			m.Month.Format("2006-01"), m.TotalBookings, m.UniqueGuests, m.TotalRevenue, m.AverageBookingValue)
	}
	w.Flush()
}

// ---- upload ----

func (cl *console) upload(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(cl.out, "usage: upload <path>")
		return
	}
	file, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(cl.out, "error: %v\n", err)
		return
	}
	defer file.Close()

	url, err := cl.c.Uploads.UploadImage(ctx, file.Name(), file)
	if err != nil {
		fmt.Fprintf(cl.out, "upload failed: %v\n", err)
		return
	}
	fmt.Fprintln(cl.out, url)
}
