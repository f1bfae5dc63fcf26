package stub

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/nekogravitycat/venue-admin/internal/booking"
	"github.com/nekogravitycat/venue-admin/internal/conference"
	"github.com/nekogravitycat/venue-admin/internal/gallery"
	"github.com/nekogravitycat/venue-admin/internal/lodging"
)

var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS lodgings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT '',
	occupancy INTEGER NOT NULL DEFAULT 0,
	price INTEGER NOT NULL DEFAULT 0,
	amenities TEXT NOT NULL DEFAULT '[]',
	description TEXT NOT NULL DEFAULT '',
	images TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS conferences (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	price INTEGER NOT NULL DEFAULT 0,
	size INTEGER NOT NULL DEFAULT 0,
	max_users INTEGER NOT NULL DEFAULT 0,
	amenities TEXT NOT NULL DEFAULT '[]',
	description TEXT NOT NULL DEFAULT '',
	images TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	booking_type TEXT NOT NULL,
	resource_id INTEGER NOT NULL,
	guest_name TEXT NOT NULL,
	guest_email TEXT NOT NULL,
	guest_phone TEXT NOT NULL DEFAULT '',
	special_requests TEXT NOT NULL DEFAULT '',
	start_date TIMESTAMP NOT NULL,
	end_date TIMESTAMP NOT NULL,
	guests INTEGER NOT NULL DEFAULT 1,
	amount INTEGER NOT NULL DEFAULT 0,
	reference TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// Store persists the stub backend's data in an embedded sqlite database.
// Booking rows are polymorphic: booking_type discriminates which resource
// table resource_id points into.
type Store struct {
	db   *sql.DB
	psql squirrel.StatementBuilderType
}

// OpenStore opens (and if needed creates) the sqlite database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite handles one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func encodeJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ---- lodgings ----

func (s *Store) CreateLodging(ctx context.Context, l *lodging.Lodging) error {
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now

	query, args, err := s.psql.Insert("lodgings").
		Columns("name", "type", "occupancy", "price", "amenities", "description", "images", "created_at", "updated_at").
		Values(l.Name, l.Type, l.Occupancy, l.Price, encodeJSON(l.Amenities), l.Description, encodeJSON(l.Images), l.CreatedAt, l.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create lodging query failed: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create lodging failed: %w", err)
	}
	l.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetLodging(ctx context.Context, id int64) (*lodging.Lodging, error) {
	query, args, err := s.psql.Select(
		"id", "name", "type", "occupancy", "price", "amenities", "description", "images", "created_at", "updated_at",
	).From("lodgings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get lodging query failed: %w", err)
	}

	l, err := scanLodging(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get lodging failed: %w", err)
	}
	return l, nil
}

func (s *Store) ListLodgings(ctx context.Context) ([]lodging.Lodging, error) {
	query, args, err := s.psql.Select(
		"id", "name", "type", "occupancy", "price", "amenities", "description", "images", "created_at", "updated_at",
	).From("lodgings").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lodgings query failed: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lodgings failed: %w", err)
	}
	defer rows.Close()

	out := []lodging.Lodging{}
	for rows.Next() {
		l, err := scanLodging(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lodging failed: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (s *Store) UpdateLodging(ctx context.Context, l *lodging.Lodging) error {
	l.UpdatedAt = time.Now().UTC()
	query, args, err := s.psql.Update("lodgings").
		Set("name", l.Name).
		Set("type", l.Type).
		Set("occupancy", l.Occupancy).
		Set("price", l.Price).
		Set("amenities", encodeJSON(l.Amenities)).
		Set("description", l.Description).
		Set("images", encodeJSON(l.Images)).
		Set("updated_at", l.UpdatedAt).
		Where(squirrel.Eq{"id": l.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update lodging query failed: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update lodging failed: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteLodging(ctx context.Context, id int64) error {
	query, args, err := s.psql.Delete("lodgings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete lodging query failed: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete lodging failed: %w", err)
	}
	return requireRow(res)
}

// ---- conferences ----

func (s *Store) CreateConference(ctx context.Context, r *conference.Room) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	query, args, err := s.psql.Insert("conferences").
		Columns("name", "price", "size", "max_users", "amenities", "description", "images", "created_at", "updated_at").
		Values(r.Name, r.Price, r.Size, r.MaxUsers, encodeJSON(r.Amenities), r.Description, encodeJSON(r.Images), r.CreatedAt, r.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create conference query failed: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create conference failed: %w", err)
	}
	r.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetConference(ctx context.Context, id int64) (*conference.Room, error) {
	query, args, err := s.psql.Select(
		"id", "name", "price", "size", "max_users", "amenities", "description", "images", "created_at", "updated_at",
	).From("conferences").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get conference query failed: %w", err)
	}

	r, err := scanConference(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get conference failed: %w", err)
	}
	return r, nil
}

func (s *Store) ListConferences(ctx context.Context) ([]conference.Room, error) {
	query, args, err := s.psql.Select(
		"id", "name", "price", "size", "max_users", "amenities", "description", "images", "created_at", "updated_at",
	).From("conferences").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list conferences query failed: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conferences failed: %w", err)
	}
	defer rows.Close()

	out := []conference.Room{}
	for rows.Next() {
		r, err := scanConference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conference failed: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateConference(ctx context.Context, r *conference.Room) error {
	r.UpdatedAt = time.Now().UTC()
	query, args, err := s.psql.Update("conferences").
		Set("name", r.Name).
		Set("price", r.Price).
		Set("size", r.Size).
		Set("max_users", r.MaxUsers).
		Set("amenities", encodeJSON(r.Amenities)).
		Set("description", r.Description).
		Set("images", encodeJSON(r.Images)).
		Set("updated_at", r.UpdatedAt).
		Where(squirrel.Eq{"id": r.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update conference query failed: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update conference failed: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteConference(ctx context.Context, id int64) error {
	query, args, err := s.psql.Delete("conferences").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete conference query failed: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete conference failed: %w", err)
	}
	return requireRow(res)
}

// ---- bookings ----

func (s *Store) CreateBooking(ctx context.Context, kind booking.Kind, b *booking.Booking) error {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	if b.Status == "" {
		b.Status = booking.StatusPending
	}

	query, args, err := s.psql.Insert("bookings").
		Columns("booking_type", "resource_id", "guest_name", "guest_email", "guest_phone",
			"special_requests", "start_date", "end_date", "guests", "amount", "reference",
			"status", "created_at", "updated_at").
		Values(string(kind), b.ResourceID, b.GuestName, b.GuestEmail, b.GuestPhone,
			b.SpecialRequests, b.StartDate, b.EndDate, b.Guests, b.Amount, b.Reference,
			string(b.Status), b.CreatedAt, b.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	b.ID, err = res.LastInsertId()
	b.Ref = booking.Ref{Kind: kind, ID: b.ResourceID}
	return err
}

func (s *Store) ListBookings(ctx context.Context, kind booking.Kind) ([]booking.Booking, error) {
	query, args, err := s.psql.Select(
		"id", "resource_id", "guest_name", "guest_email", "guest_phone", "special_requests",
		"start_date", "end_date", "guests", "amount", "reference", "status", "created_at", "updated_at",
	).From("bookings").
		Where(squirrel.Eq{"booking_type": string(kind)}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	out := []booking.Booking{}
	for rows.Next() {
		var b booking.Booking
		var status string
		if err := rows.Scan(
			&b.ID, &b.ResourceID, &b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.SpecialRequests,
			&b.StartDate, &b.EndDate, &b.Guests, &b.Amount, &b.Reference, &status,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		b.Status = booking.Status(status)
		b.Ref = booking.Ref{Kind: kind, ID: b.ResourceID}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ---- scan helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLodging(row rowScanner) (*lodging.Lodging, error) {
	var l lodging.Lodging
	var amenities, images string
	if err := row.Scan(
		&l.ID, &l.Name, &l.Type, &l.Occupancy, &l.Price, &amenities, &l.Description, &images,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	decodeGallery(amenities, images, &l.Amenities, &l.Images)
	l.ImageURLs = l.Images.URLs()
	return &l, nil
}

func scanConference(row rowScanner) (*conference.Room, error) {
	var r conference.Room
	var amenities, images string
	if err := row.Scan(
		&r.ID, &r.Name, &r.Price, &r.Size, &r.MaxUsers, &amenities, &r.Description, &images,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	decodeGallery(amenities, images, &r.Amenities, &r.Images)
	r.ImageURLs = r.Images.URLs()
	return &r, nil
}

func decodeGallery(amenities, images string, amenitiesOut *[]string, imagesOut *gallery.Images) {
	if err := json.Unmarshal([]byte(amenities), amenitiesOut); err != nil || *amenitiesOut == nil {
		*amenitiesOut = []string{}
	}
	if err := json.Unmarshal([]byte(images), imagesOut); err != nil || *imagesOut == nil {
		*imagesOut = gallery.Images{}
	}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
