package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/availability"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/cx-tal-miterani/table-booking/internal/validation"
	"go.uber.org/zap"
)

const (
	MessageSubmitted      = "Booking successfully submitted!"
	MessageSubmitRejected = "Failed to submit booking. Please try again."
	MessageSubmitErrored  = "An error occurred. Please try again."
)

// ErrNotReady is returned when an action arrives in a phase that cannot take it
var ErrNotReady = errors.New("booking form is not ready for this action")

// Navigator moves the guest to another page
type Navigator interface {
	Navigate(path string)
}

// NoticeKind classifies the acknowledgment shown after a submission
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeFailure NoticeKind = "failure"
)

// Notice is the acknowledgment shown to the guest
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// View is a snapshot of everything the booking page renders
type View struct {
	Phase          Phase              `json:"phase"`
	AvailableTimes []models.TimeSlot  `json:"availableTimes"`
	Form           models.BookingForm `json:"form"`
	Errors         map[string]string  `json:"errors,omitempty"`
	Notice         *Notice            `json:"notice,omitempty"`
}

// Controller owns the state of one visit to the booking page.
//
// Fetches run without holding the lock. Every fetch is tagged with a
// generation number and its result is dropped if a newer fetch has started
// since, so the slots shown always belong to the last date requested.
type Controller struct {
	service   Service
	navigator Navigator
	logger    *zap.Logger
	now       func() time.Time
	location  *time.Location

	mu         sync.Mutex
	phase      Phase
	times      *availability.State
	form       models.BookingForm
	errors     validation.FieldErrors
	notice     *Notice
	generation uint64
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithClock sets the clock and time zone used to decide what "today" is
func WithClock(now func() time.Time, loc *time.Location) ControllerOption {
	return func(c *Controller) {
		c.now = now
		if loc != nil {
			c.location = loc
		}
	}
}

// WithNavigator sets where the controller sends the guest after booking
func WithNavigator(n Navigator) ControllerOption {
	return func(c *Controller) {
		c.navigator = n
	}
}

// NewController creates a Controller in PhaseIdle
func NewController(service Service, logger *zap.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		service:  service,
		logger:   logger,
		now:      time.Now,
		location: time.Local,
		phase:    PhaseIdle,
		times:    availability.NewState(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount resets the form to its defaults and loads availability for today.
// A failed load leaves the page usable with no slots.
func (c *Controller) Mount(ctx context.Context) View {
	c.mu.Lock()
	if !c.phase.Accepts(EventMount) {
		defer c.mu.Unlock()
		return c.viewLocked()
	}
	today := c.today()
	c.phase = c.phase.Apply(EventMount)
	c.form = models.NewBookingForm(today)
	c.errors = nil
	c.notice = nil
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	slots, err := c.service.AvailableTimes(ctx, today)
	if err != nil {
		c.logger.Warn("Initial availability fetch failed", zap.Error(err))
		slots = nil
	}
	return c.applyTimes(gen, slots)
}

// SelectDate switches the form to date and refreshes availability. The
// chosen time is kept when still offered, otherwise moved to the nearest slot.
func (c *Controller) SelectDate(ctx context.Context, date time.Time) (View, error) {
	c.mu.Lock()
	if !c.phase.Accepts(EventDateSelected) {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrNotReady
	}
	c.phase = c.phase.Apply(EventDateSelected)
	c.form.Date = date
	c.times = availability.Reduce(c.times, availability.MarkFetching(date))
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	slots, err := c.service.AvailableTimes(ctx, date)
	if err != nil {
		c.logger.Warn("Availability fetch failed",
			zap.String("date", date.Format(models.DateLayout)),
			zap.Error(err))
		slots = nil
	}
	return c.applyTimes(gen, slots), nil
}

func (c *Controller) applyTimes(gen uint64, slots []models.TimeSlot) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("Discarding stale availability", zap.Uint64("generation", gen), zap.Uint64("current", c.generation))
		return c.viewLocked()
	}

	c.times = availability.Reduce(c.times, availability.Replace(slots))
	c.form.Time = availability.Nearest(c.form.Time, c.times.Slots)
	c.phase = c.phase.Apply(EventTimesLoaded)
	return c.viewLocked()
}

// UpdateForm records what the guest has typed so far. The date is only
// changed through SelectDate.
func (c *Controller) UpdateForm(form models.BookingForm) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	form.Date = c.form.Date
	c.form = form
	return c.viewLocked()
}

// Submit validates form and sends it to the backend. The form stays
// populated whatever the outcome, so a failed attempt can be retried. The
// date is only changed through SelectDate.
func (c *Controller) Submit(ctx context.Context, form models.BookingForm) (View, error) {
	c.mu.Lock()
	if !c.phase.Accepts(EventSubmit) {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrNotReady
	}
	form.Date = c.form.Date
	c.form = form
	c.notice = nil
	if err := c.service.Validate(form); err != nil {
		defer c.mu.Unlock()
		if fe, ok := validation.AsFieldErrors(err); ok {
			c.errors = fe
			return c.viewLocked(), nil
		}
		return c.viewLocked(), err
	}
	c.errors = nil
	c.phase = c.phase.Apply(EventSubmit)
	c.mu.Unlock()

	_, err := c.service.Submit(ctx, form)

	c.mu.Lock()
	navigate := false
	switch {
	case err == nil:
		c.phase = c.phase.Apply(EventSubmitSucceeded)
		c.notice = &Notice{Kind: NoticeSuccess, Message: MessageSubmitted}
		navigate = c.navigator != nil
	case errors.Is(err, ErrSubmissionRejected):
		c.phase = c.phase.Apply(EventSubmitFailed)
		c.notice = &Notice{Kind: NoticeFailure, Message: MessageSubmitRejected}
		c.logger.Warn("Booking rejected by backend")
	default:
		c.phase = c.phase.Apply(EventSubmitFailed)
		if fe, ok := validation.AsFieldErrors(err); ok {
			c.errors = fe
		} else {
			c.notice = &Notice{Kind: NoticeFailure, Message: MessageSubmitErrored}
			c.logger.Error("Error submitting booking", zap.Error(err))
		}
	}
	view := c.viewLocked()
	c.mu.Unlock()

	if navigate {
		c.navigator.Navigate(ConfirmationPath)
	}
	return view, nil
}

// View returns the current snapshot
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	times := make([]models.TimeSlot, len(c.times.Slots))
	copy(times, c.times.Slots)
	v := View{
		Phase:          c.phase,
		AvailableTimes: times,
		Form:           c.form,
		Notice:         c.notice,
	}
	if len(c.errors) > 0 {
		v.Errors = make(map[string]string, len(c.errors))
		for field, msg := range c.errors {
			v.Errors[field] = msg
		}
	}
	return v
}

func (c *Controller) today() time.Time {
	now := c.now().In(c.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.location)
}
