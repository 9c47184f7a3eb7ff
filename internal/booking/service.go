// Package booking ties availability, validation, submission and persistence
// together for the table booking page.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/availability"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/cx-tal-miterani/table-booking/internal/store"
	"github.com/cx-tal-miterani/table-booking/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmationPath is where the guest lands after a successful booking
const ConfirmationPath = "/confirmed-booking"

var (
	// ErrSubmissionRejected means the backend answered but did not accept the booking
	ErrSubmissionRejected = errors.New("booking was not accepted")
	// ErrSubmissionFailed wraps errors raised while talking to the backend
	ErrSubmissionFailed = errors.New("booking submission failed")
)

// Submitter sends a validated booking to the reservations backend
type Submitter interface {
	Submit(ctx context.Context, form models.BookingForm) (bool, error)
}

// Service defines the booking operations exposed to transports
type Service interface {
	AvailableTimes(ctx context.Context, date time.Time) ([]models.TimeSlot, error)
	Availability(ctx context.Context, date time.Time, selected string) (*models.AvailabilityResponse, error)
	Validate(form models.BookingForm) error
	Submit(ctx context.Context, form models.BookingForm) (*models.ConfirmedBooking, error)
	ConfirmedBookings(ctx context.Context) ([]models.ConfirmedBooking, error)
}

// BookingService implements Service
type BookingService struct {
	source    availability.Source
	submitter Submitter
	store     store.Store
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a BookingService. bookings may be nil, in which
// case confirmed bookings are not recorded.
func NewBookingService(source availability.Source, submitter Submitter, bookings store.Store, validator *validation.Validator, logger *zap.Logger) *BookingService {
	return &BookingService{
		source:    source,
		submitter: submitter,
		store:     bookings,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *BookingService) AvailableTimes(ctx context.Context, date time.Time) ([]models.TimeSlot, error) {
	slots, err := s.source.Slots(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	return slots, nil
}

// Availability returns the slots for date and, when selected is given, the
// slot nearest to it.
func (s *BookingService) Availability(ctx context.Context, date time.Time, selected string) (*models.AvailabilityResponse, error) {
	slots, err := s.AvailableTimes(ctx, date)
	if err != nil {
		return nil, err
	}

	resp := &models.AvailabilityResponse{
		Date:  date.Format(models.DateLayout),
		Times: slots,
	}
	if selected != "" {
		resp.Selected = availability.Nearest(selected, slots)
	}
	return resp, nil
}

func (s *BookingService) Validate(form models.BookingForm) error {
	return s.validator.Validate(form)
}

// Submit validates form, hands it to the backend and records it once
// accepted. A failure to record is logged but does not undo the booking.
func (s *BookingService) Submit(ctx context.Context, form models.BookingForm) (*models.ConfirmedBooking, error) {
	if normalized, err := availability.Normalize(form.Time); err == nil {
		form.Time = normalized
	}
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}

	ok, err := s.submitter.Submit(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	if !ok {
		return nil, ErrSubmissionRejected
	}

	booking := &models.ConfirmedBooking{
		ID:          uuid.New().String(),
		Booking:     form,
		SubmittedAt: s.now(),
	}

	if s.store != nil {
		if err := s.store.Append(ctx, *booking); err != nil {
			s.logger.Warn("Failed to record confirmed booking",
				zap.String("bookingId", booking.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("Booking submitted",
		zap.String("bookingId", booking.ID),
		zap.String("date", form.Date.Format(models.DateLayout)),
		zap.String("time", form.Time),
		zap.Int("party", form.NumberOfPeople))
	return booking, nil
}

func (s *BookingService) ConfirmedBookings(ctx context.Context) ([]models.ConfirmedBooking, error) {
	if s.store == nil {
		return []models.ConfirmedBooking{}, nil
	}
	return s.store.List(ctx)
}
