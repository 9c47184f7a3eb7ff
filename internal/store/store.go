// Package store persists confirmed bookings. Every backend keeps an
// append-only list: bookings are never edited or removed here.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cx-tal-miterani/table-booking/internal/models"
)

// BookingsKey is the fixed key list-valued backends store bookings under
const BookingsKey = "confirmedBookings"

var ErrInvalidBooking = errors.New("booking has no id")

// Store is the persistence port for confirmed bookings
type Store interface {
	Append(ctx context.Context, booking models.ConfirmedBooking) error
	List(ctx context.Context) ([]models.ConfirmedBooking, error)
}

// appendEncoded decodes the stored array (nil meaning empty), appends
// booking and re-encodes it.
func appendEncoded(stored []byte, booking models.ConfirmedBooking) ([]byte, error) {
	bookings, err := decodeBookings(stored)
	if err != nil {
		return nil, err
	}
	bookings = append(bookings, booking)

	data, err := json.Marshal(bookings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bookings: %w", err)
	}
	return data, nil
}

func decodeBookings(stored []byte) ([]models.ConfirmedBooking, error) {
	bookings := []models.ConfirmedBooking{}
	if len(stored) == 0 {
		return bookings, nil
	}
	if err := json.Unmarshal(stored, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func checkBooking(booking models.ConfirmedBooking) error {
	if booking.ID == "" {
		return ErrInvalidBooking
	}
	return nil
}
