package store

import (
	"context"
	"sync"

	"github.com/cx-tal-miterani/table-booking/internal/models"
)

// MemoryStore keeps bookings for the lifetime of the process
type MemoryStore struct {
	mu       sync.RWMutex
	bookings []models.ConfirmedBooking
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, booking models.ConfirmedBooking) error {
	if err := checkBooking(booking); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, booking)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]models.ConfirmedBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ConfirmedBooking, len(s.bookings))
	copy(out, s.bookings)
	return out, nil
}
