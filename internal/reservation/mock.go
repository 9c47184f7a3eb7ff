// Package reservation holds the reservation backends the booking page talks
// to: a latency-simulating mock and a Temporal workflow client.
package reservation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/availability"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultMinDelay = 100 * time.Millisecond
	DefaultJitter   = time.Second

	firstSlotHour = 17
	lastSlotHour  = 23
)

// MockService stands in for the reservations backend. Slot sets are
// repeatable per day of month; submissions always succeed.
type MockService struct {
	minDelay time.Duration
	jitter   time.Duration
	logger   *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// MockOption configures a MockService
type MockOption func(*MockService)

// WithLatency sets the simulated network delay to minDelay plus up to jitter
func WithLatency(minDelay, jitter time.Duration) MockOption {
	return func(s *MockService) {
		s.minDelay = minDelay
		s.jitter = jitter
	}
}

// WithRand replaces the latency random source
func WithRand(rnd *rand.Rand) MockOption {
	return func(s *MockService) {
		s.rnd = rnd
	}
}

// NewMockService creates a MockService
func NewMockService(logger *zap.Logger, opts ...MockOption) *MockService {
	s := &MockService{
		minDelay: DefaultMinDelay,
		jitter:   DefaultJitter,
		logger:   logger,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchSlots returns the "HH:MM" tokens the mock backend offers on date
func (s *MockService) FetchSlots(ctx context.Context, date time.Time) ([]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	random := newSeededRandom(int64(date.Day()))
	result := []string{}
	for hour := firstSlotHour; hour <= lastSlotHour; hour++ {
		if random.next() < 0.5 {
			result = append(result, fmt.Sprintf("%d:00", hour))
		}
		if random.next() < 0.5 {
			result = append(result, fmt.Sprintf("%d:30", hour))
		}
	}

	s.logger.Debug("Mock slots fetched",
		zap.String("date", date.Format(models.DateLayout)),
		zap.Strings("slots", result))
	return result, nil
}

// Slots implements availability.Source on top of FetchSlots
func (s *MockService) Slots(ctx context.Context, date time.Time) ([]models.TimeSlot, error) {
	tokens, err := s.FetchSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	slots := make([]models.TimeSlot, 0, len(tokens))
	for _, token := range tokens {
		minutes, err := availability.ParseToken(token)
		if err != nil {
			return nil, fmt.Errorf("mock returned bad slot: %w", err)
		}
		slots = append(slots, availability.SlotAt(minutes))
	}
	return slots, nil
}

// Submit accepts every booking after the simulated delay
func (s *MockService) Submit(ctx context.Context, form models.BookingForm) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}
	s.logger.Info("Mock booking accepted",
		zap.String("date", form.Date.Format(models.DateLayout)),
		zap.String("time", form.Time),
		zap.Int("party", form.NumberOfPeople))
	return true, nil
}

func (s *MockService) wait(ctx context.Context) error {
	delay := s.minDelay
	if s.jitter > 0 {
		s.mu.Lock()
		delay += time.Duration(s.rnd.Int63n(int64(s.jitter)))
		s.mu.Unlock()
	}
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
