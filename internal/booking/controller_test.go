package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/availability"
	"github.com/cx-tal-miterani/table-booking/internal/booking/mocks"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/cx-tal-miterani/table-booking/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

func newTestController(svc Service, nav Navigator) *Controller {
	opts := []ControllerOption{WithClock(func() time.Time { return testNow }, time.UTC)}
	if nav != nil {
		opts = append(opts, WithNavigator(nav))
	}
	return NewController(svc, zap.NewNop(), opts...)
}

func scheduleService(submitter Submitter, bookings store.Store) *BookingService {
	return NewBookingService(availability.ScheduleSource{}, submitter, bookings, testValidator(), zap.NewNop())
}

// gatedSource blocks fetches for gated dates until their gate is closed
type gatedSource struct {
	calls chan time.Time
	gates map[time.Time]chan struct{}
}

func (s *gatedSource) Slots(ctx context.Context, date time.Time) ([]models.TimeSlot, error) {
	s.calls <- date
	if gate, ok := s.gates[date]; ok {
		<-gate
	}
	return availability.ForDate(date), nil
}

func TestController_Mount(t *testing.T) {
	c := newTestController(scheduleService(nil, nil), nil)

	assert.Equal(t, PhaseIdle, c.View().Phase)

	view := c.Mount(context.Background())

	assert.Equal(t, PhaseReady, view.Phase)
	assert.Equal(t, availability.ForDate(day(18)), view.AvailableTimes)
	assert.Equal(t, day(18), view.Form.Date)
	assert.Equal(t, "12:00", view.Form.Time)
	assert.Equal(t, models.ContactMethodEmail, view.Form.ContactMethod)
	assert.Equal(t, 2, view.Form.NumberOfPeople)
	assert.Equal(t, models.OccasionOther, view.Form.Occasion)
	assert.Empty(t, view.Errors)
	assert.Nil(t, view.Notice)
}

func TestController_MountFetchFailure(t *testing.T) {
	svc := new(mocks.MockService)
	svc.On("AvailableTimes", mock.Anything, day(18)).Return(nil, errors.New("unreachable"))

	c := newTestController(svc, nil)
	view := c.Mount(context.Background())

	assert.Equal(t, PhaseReady, view.Phase)
	assert.NotNil(t, view.AvailableTimes)
	assert.Empty(t, view.AvailableTimes)
	assert.Equal(t, availability.DefaultTime, view.Form.Time)
}

func TestController_SelectDate(t *testing.T) {
	c := newTestController(scheduleService(nil, nil), nil)
	c.Mount(context.Background())

	// Saturday offers everything, so 12:00 survives
	view, err := c.SelectDate(context.Background(), day(24))
	require.NoError(t, err)
	assert.Equal(t, PhaseReady, view.Phase)
	assert.Equal(t, day(24), view.Form.Date)
	assert.Len(t, view.AvailableTimes, 13)
	assert.Equal(t, "12:00", view.Form.Time)

	form := view.Form
	form.Time = "09:00"
	c.UpdateForm(form)

	// Monday starts at 11
	view, err = c.SelectDate(context.Background(), day(19))
	require.NoError(t, err)
	assert.Equal(t, "11:00", view.Form.Time)
	assert.Equal(t, "11:00", view.AvailableTimes[0].Value)
}

func TestController_SelectDateBeforeMount(t *testing.T) {
	c := newTestController(scheduleService(nil, nil), nil)

	_, err := c.SelectDate(context.Background(), day(20))
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestController_StaleAvailabilityDiscarded(t *testing.T) {
	slow := day(24)
	fast := day(19)
	source := &gatedSource{
		calls: make(chan time.Time, 4),
		gates: map[time.Time]chan struct{}{slow: make(chan struct{})},
	}
	svc := NewBookingService(source, nil, nil, testValidator(), zap.NewNop())
	c := newTestController(svc, nil)

	c.Mount(context.Background())
	<-source.calls

	done := make(chan View, 1)
	go func() {
		view, _ := c.SelectDate(context.Background(), slow)
		done <- view
	}()
	require.Equal(t, slow, <-source.calls)

	view, err := c.SelectDate(context.Background(), fast)
	require.NoError(t, err)
	<-source.calls
	assert.Equal(t, PhaseReady, view.Phase)
	assert.Equal(t, availability.ForDate(fast), view.AvailableTimes)

	close(source.gates[slow])
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("slow fetch never returned")
	}

	final := c.View()
	assert.Equal(t, availability.ForDate(fast), final.AvailableTimes)
	assert.Equal(t, fast, final.Form.Date)
	assert.Equal(t, PhaseReady, final.Phase)
}

func TestController_UpdateFormKeepsDate(t *testing.T) {
	c := newTestController(scheduleService(nil, nil), nil)
	c.Mount(context.Background())

	form := models.NewBookingForm(day(30))
	form.ContactInfo = "guest@example.com"
	view := c.UpdateForm(form)

	assert.Equal(t, day(18), view.Form.Date)
	assert.Equal(t, "guest@example.com", view.Form.ContactInfo)
}

func TestController_SubmitEndToEnd(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	bookings := store.NewMemoryStore()
	nav := &mocks.RecordingNavigator{}

	submitter.On("Submit", mock.Anything, mock.MatchedBy(func(f models.BookingForm) bool {
		return f.ContactMethod == models.ContactMethodEmail &&
			f.ContactInfo == "test@example.com" &&
			f.NumberOfPeople == 4 &&
			f.Occasion == models.OccasionOther &&
			f.SpecialRequests == "Window seat please"
	})).Return(true, nil).Once()

	c := newTestController(scheduleService(submitter, bookings), nav)
	view := c.Mount(context.Background())

	form := view.Form
	form.Time = "18:00"
	form.ContactInfo = "test@example.com"
	form.NumberOfPeople = 4
	form.SpecialRequests = "Window seat please"

	view, err := c.Submit(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, PhaseSubmittedOK, view.Phase)
	assert.Empty(t, view.Errors)
	require.NotNil(t, view.Notice)
	assert.Equal(t, NoticeSuccess, view.Notice.Kind)
	assert.Equal(t, MessageSubmitted, view.Notice.Message)
	assert.Equal(t, []string{ConfirmationPath}, nav.Paths())
	submitter.AssertNumberOfCalls(t, "Submit", 1)

	recorded, err := bookings.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, "18:00", recorded[0].Booking.Time)
}

func TestController_SubmitValidationErrors(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	nav := &mocks.RecordingNavigator{}
	c := newTestController(scheduleService(submitter, nil), nav)
	view := c.Mount(context.Background())

	form := view.Form
	form.ContactMethod = models.ContactMethodSMS
	form.ContactInfo = "not a phone"
	form.NumberOfPeople = 0

	view, err := c.Submit(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, PhaseReady, view.Phase)
	assert.Equal(t, "Invalid phone number", view.Errors["contactInfo"])
	assert.Equal(t, "At least one person is required", view.Errors["numberOfPeople"])
	assert.Nil(t, view.Notice)
	assert.Equal(t, form, view.Form)
	assert.Empty(t, nav.Paths())
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestController_SubmitFailureNotices(t *testing.T) {
	tests := []struct {
		name    string
		ok      bool
		err     error
		message string
	}{
		{name: "rejected", ok: false, message: MessageSubmitRejected},
		{name: "errored", err: errors.New("timeout"), message: MessageSubmitErrored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := new(mocks.MockSubmitter)
			submitter.On("Submit", mock.Anything, mock.Anything).Return(tt.ok, tt.err)
			nav := &mocks.RecordingNavigator{}

			c := newTestController(scheduleService(submitter, nil), nav)
			view := c.Mount(context.Background())

			form := view.Form
			form.ContactInfo = "test@example.com"
			form.SpecialRequests = "Quiet corner"

			view, err := c.Submit(context.Background(), form)
			require.NoError(t, err)

			assert.Equal(t, PhaseReady, view.Phase)
			require.NotNil(t, view.Notice)
			assert.Equal(t, NoticeFailure, view.Notice.Kind)
			assert.Equal(t, tt.message, view.Notice.Message)
			assert.Equal(t, form, view.Form)
			assert.Empty(t, nav.Paths())

			// the guest can try again straight away
			_, err = c.Submit(context.Background(), form)
			assert.NoError(t, err)
			submitter.AssertNumberOfCalls(t, "Submit", 2)
		})
	}
}

func TestController_SubmitKeepsSelectedDate(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	submitter.On("Submit", mock.Anything, mock.Anything).Return(false, nil)

	c := newTestController(scheduleService(submitter, nil), nil)
	view := c.Mount(context.Background())

	// Saturday would offer 09:00, Sunday does not
	form := view.Form
	form.Date = day(24)
	form.Time = "09:00"
	form.ContactInfo = "test@example.com"

	view, err := c.Submit(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, day(18), view.Form.Date)
	assert.Equal(t, availability.ForDate(day(18)), view.AvailableTimes)
	submitter.AssertCalled(t, "Submit", mock.Anything, mock.MatchedBy(func(f models.BookingForm) bool {
		return f.Date.Equal(day(18))
	}))
}

func TestController_SubmitWhileSubmitting(t *testing.T) {
	release := make(chan time.Time)
	submitter := new(mocks.MockSubmitter)
	submitter.On("Submit", mock.Anything, mock.Anything).WaitUntil(release).Return(true, nil).Once()

	c := newTestController(scheduleService(submitter, nil), nil)
	view := c.Mount(context.Background())
	form := view.Form
	form.ContactInfo = "first@example.com"

	done := make(chan View, 1)
	go func() {
		v, _ := c.Submit(context.Background(), form)
		done <- v
	}()
	require.Eventually(t, func() bool { return c.View().Phase == PhaseSubmitting }, 2*time.Second, 5*time.Millisecond)

	second := form
	second.ContactInfo = "second@example.com"
	view, err := c.Submit(context.Background(), second)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, "first@example.com", view.Form.ContactInfo)

	close(release)
	final := <-done
	assert.Equal(t, PhaseSubmittedOK, final.Phase)
	assert.Equal(t, "first@example.com", final.Form.ContactInfo)
	submitter.AssertNumberOfCalls(t, "Submit", 1)
}

func TestController_SubmitNotReady(t *testing.T) {
	c := newTestController(scheduleService(nil, nil), nil)

	_, err := c.Submit(context.Background(), models.NewBookingForm(day(18)))
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestController_RemountResetsForm(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	submitter.On("Submit", mock.Anything, mock.Anything).Return(true, nil)

	c := newTestController(scheduleService(submitter, nil), nil)
	view := c.Mount(context.Background())
	form := view.Form
	form.ContactInfo = "test@example.com"
	_, err := c.Submit(context.Background(), form)
	require.NoError(t, err)

	view = c.Mount(context.Background())
	assert.Equal(t, PhaseReady, view.Phase)
	assert.Empty(t, view.Form.ContactInfo)
	assert.Nil(t, view.Notice)
}
