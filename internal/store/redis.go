package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the booking list as one JSON array under BookingsKey.
// Append is a plain read-append-write: concurrent writers race and the last
// one wins.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis
func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb}
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Append(ctx context.Context, booking models.ConfirmedBooking) error {
	if err := checkBooking(booking); err != nil {
		return err
	}
	stored, err := s.read(ctx)
	if err != nil {
		return err
	}
	data, err := appendEncoded(stored, booking)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, BookingsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write bookings: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.ConfirmedBooking, error) {
	stored, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeBookings(stored)
}

func (s *RedisStore) read(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, BookingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}
	return val, nil
}
