package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS confirmed_bookings (
		seq              BIGSERIAL PRIMARY KEY,
		id               UUID NOT NULL UNIQUE,
		booking_date     DATE NOT NULL,
		booking_time     TEXT NOT NULL,
		contact_method   TEXT NOT NULL,
		contact_info     TEXT NOT NULL,
		number_of_people INTEGER NOT NULL,
		occasion         TEXT NOT NULL,
		special_requests TEXT NOT NULL DEFAULT '',
		submitted_at     TIMESTAMPTZ NOT NULL
	)
`

// PostgresStore keeps one row per confirmed booking
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore on an open pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the bookings table if it does not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, booking models.ConfirmedBooking) error {
	if err := checkBooking(booking); err != nil {
		return err
	}
	id, err := uuid.Parse(booking.ID)
	if err != nil {
		return fmt.Errorf("invalid booking id %q: %w", booking.ID, err)
	}

	b := booking.Booking
	_, err = s.pool.Exec(ctx, `
		INSERT INTO confirmed_bookings (id, booking_date, booking_time, contact_method, contact_info,
		                                number_of_people, occasion, special_requests, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, b.Date, b.Time, string(b.ContactMethod), b.ContactInfo,
		b.NumberOfPeople, string(b.Occasion), b.SpecialRequests, booking.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.ConfirmedBooking, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, booking_date, booking_time, contact_method, contact_info,
		       number_of_people, occasion, special_requests, submitted_at
		FROM confirmed_bookings
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.ConfirmedBooking{}
	for rows.Next() {
		var (
			id            uuid.UUID
			date          time.Time
			contactMethod string
			occasion      string
			cb            models.ConfirmedBooking
		)
		err := rows.Scan(
			&id, &date, &cb.Booking.Time, &contactMethod, &cb.Booking.ContactInfo,
			&cb.Booking.NumberOfPeople, &occasion, &cb.Booking.SpecialRequests, &cb.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		cb.ID = id.String()
		cb.Booking.Date = date
		cb.Booking.ContactMethod = models.ContactMethod(contactMethod)
		cb.Booking.Occasion = models.Occasion(occasion)
		bookings = append(bookings, cb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	return bookings, nil
}
