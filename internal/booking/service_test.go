package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/booking/mocks"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/cx-tal-miterani/table-booking/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Sunday
var testNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func testValidator() *validation.Validator {
	return validation.New(validation.Options{
		EnforceFreshness: true,
		Location:         time.UTC,
		Now:              func() time.Time { return testNow },
	})
}

func validForm() models.BookingForm {
	form := models.NewBookingForm(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC))
	form.Time = "18:00"
	form.ContactInfo = "test@example.com"
	form.NumberOfPeople = 4
	form.SpecialRequests = "Window seat please"
	return form
}

func TestBookingService_Availability(t *testing.T) {
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	source := new(mocks.MockSource)
	source.On("Slots", mock.Anything, date).Return([]models.TimeSlot{
		{Value: "09:00", Label: "9 AM"},
		{Value: "14:00", Label: "2 PM"},
		{Value: "18:00", Label: "6 PM"},
	}, nil)

	svc := NewBookingService(source, new(mocks.MockSubmitter), nil, testValidator(), zap.NewNop())
	resp, err := svc.Availability(context.Background(), date, "13:00")

	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", resp.Date)
	assert.Len(t, resp.Times, 3)
	assert.Equal(t, "14:00", resp.Selected)
	source.AssertExpectations(t)
}

func TestBookingService_AvailabilityError(t *testing.T) {
	source := new(mocks.MockSource)
	source.On("Slots", mock.Anything, mock.Anything).Return(nil, errors.New("backend down"))

	svc := NewBookingService(source, new(mocks.MockSubmitter), nil, testValidator(), zap.NewNop())
	_, err := svc.Availability(context.Background(), testNow, "")

	assert.ErrorContains(t, err, "backend down")
}

func TestBookingService_Submit(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	bookings := new(mocks.MockStore)
	form := validForm()

	submitter.On("Submit", mock.Anything, form).Return(true, nil).Once()
	bookings.On("Append", mock.Anything, mock.MatchedBy(func(b models.ConfirmedBooking) bool {
		return b.ID != "" && b.Booking == form
	})).Return(nil).Once()

	svc := NewBookingService(nil, submitter, bookings, testValidator(), zap.NewNop())
	svc.now = func() time.Time { return testNow }

	confirmed, err := svc.Submit(context.Background(), form)

	require.NoError(t, err)
	assert.NotEmpty(t, confirmed.ID)
	assert.Equal(t, testNow, confirmed.SubmittedAt)
	assert.Equal(t, form, confirmed.Booking)
	submitter.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestBookingService_SubmitNormalizesHourToken(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	submitter.On("Submit", mock.Anything, mock.MatchedBy(func(f models.BookingForm) bool {
		return f.Time == "13:00"
	})).Return(true, nil)

	form := validForm()
	form.Time = "13"

	svc := NewBookingService(nil, submitter, nil, testValidator(), zap.NewNop())
	confirmed, err := svc.Submit(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, "13:00", confirmed.Booking.Time)
}

func TestBookingService_SubmitFailures(t *testing.T) {
	tests := []struct {
		name         string
		form         models.BookingForm
		submitOK     bool
		submitErr    error
		callsBackend bool
		check        func(t *testing.T, err error)
	}{
		{
			name: "invalid form never reaches backend",
			form: func() models.BookingForm {
				f := validForm()
				f.NumberOfPeople = 21
				return f
			}(),
			check: func(t *testing.T, err error) {
				fe, ok := validation.AsFieldErrors(err)
				require.True(t, ok)
				assert.Equal(t, "Maximum of 20 people allowed", fe["numberOfPeople"])
			},
		},
		{
			name:         "backend declines",
			form:         validForm(),
			submitOK:     false,
			callsBackend: true,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrSubmissionRejected)
			},
		},
		{
			name:         "backend errors",
			form:         validForm(),
			submitErr:    errors.New("connection reset"),
			callsBackend: true,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrSubmissionFailed)
				assert.ErrorContains(t, err, "connection reset")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := new(mocks.MockSubmitter)
			bookings := new(mocks.MockStore)
			if tt.callsBackend {
				submitter.On("Submit", mock.Anything, tt.form).Return(tt.submitOK, tt.submitErr)
			}

			svc := NewBookingService(nil, submitter, bookings, testValidator(), zap.NewNop())
			confirmed, err := svc.Submit(context.Background(), tt.form)

			assert.Nil(t, confirmed)
			tt.check(t, err)
			submitter.AssertExpectations(t)
			bookings.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_SubmitSurvivesStoreFailure(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	bookings := new(mocks.MockStore)
	submitter.On("Submit", mock.Anything, mock.Anything).Return(true, nil)
	bookings.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := NewBookingService(nil, submitter, bookings, testValidator(), zap.NewNop())
	confirmed, err := svc.Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.NotNil(t, confirmed)
}

func TestBookingService_ConfirmedBookings(t *testing.T) {
	svc := NewBookingService(nil, nil, nil, testValidator(), zap.NewNop())
	list, err := svc.ConfirmedBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	bookings := new(mocks.MockStore)
	bookings.On("List", mock.Anything).Return([]models.ConfirmedBooking{{ID: "b-1"}}, nil)
	svc = NewBookingService(nil, nil, bookings, testValidator(), zap.NewNop())

	list, err = svc.ConfirmedBookings(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
