package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockService is a mock implementation of booking.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) AvailableTimes(ctx context.Context, date time.Time) ([]models.TimeSlot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimeSlot), args.Error(1)
}

func (m *MockService) Availability(ctx context.Context, date time.Time, selected string) (*models.AvailabilityResponse, error) {
	args := m.Called(ctx, date, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AvailabilityResponse), args.Error(1)
}

func (m *MockService) Validate(form models.BookingForm) error {
	args := m.Called(form)
	return args.Error(0)
}

func (m *MockService) Submit(ctx context.Context, form models.BookingForm) (*models.ConfirmedBooking, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConfirmedBooking), args.Error(1)
}

func (m *MockService) ConfirmedBookings(ctx context.Context) ([]models.ConfirmedBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConfirmedBooking), args.Error(1)
}

// MockSubmitter is a mock implementation of booking.Submitter
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, form models.BookingForm) (bool, error) {
	args := m.Called(ctx, form)
	return args.Bool(0), args.Error(1)
}

// MockSource is a mock implementation of availability.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Slots(ctx context.Context, date time.Time) ([]models.TimeSlot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimeSlot), args.Error(1)
}

// MockStore is a mock implementation of store.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Append(ctx context.Context, booking models.ConfirmedBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockStore) List(ctx context.Context) ([]models.ConfirmedBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConfirmedBooking), args.Error(1)
}

// RecordingNavigator remembers every path it was asked to navigate to
type RecordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *RecordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

// Paths returns the recorded paths in order
func (n *RecordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}
