package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps the booking list as one JSON array in an embedded
// key-value database, under BookingsKey.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the database at path. An empty path opens
// an in-memory database.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the database
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) Append(ctx context.Context, booking models.ConfirmedBooking) error {
	if err := checkBooking(booking); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		stored, err := readKey(txn)
		if err != nil {
			return err
		}
		data, err := appendEncoded(stored, booking)
		if err != nil {
			return err
		}
		return txn.Set([]byte(BookingsKey), data)
	})
}

func (s *BadgerStore) List(ctx context.Context) ([]models.ConfirmedBooking, error) {
	var bookings []models.ConfirmedBooking
	err := s.db.View(func(txn *badger.Txn) error {
		stored, err := readKey(txn)
		if err != nil {
			return err
		}
		bookings, err = decodeBookings(stored)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func readKey(txn *badger.Txn) ([]byte, error) {
	item, err := txn.Get([]byte(BookingsKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}
	return item.ValueCopy(nil)
}
