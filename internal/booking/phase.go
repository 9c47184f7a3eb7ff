package booking

// Phase is where the booking page is in its lifecycle
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseFetchingInitialTimes Phase = "fetching_initial_times"
	PhaseReady                Phase = "ready"
	PhaseFetchingForDate      Phase = "fetching_for_date"
	PhaseSubmitting           Phase = "submitting"
	PhaseSubmittedOK          Phase = "submitted_ok"
)

// Event drives Phase transitions
type Event string

const (
	EventMount           Event = "mount"
	EventTimesLoaded     Event = "times_loaded"
	EventDateSelected    Event = "date_selected"
	EventSubmit          Event = "submit"
	EventSubmitSucceeded Event = "submit_succeeded"
	EventSubmitFailed    Event = "submit_failed"
)

var transitions = map[Phase]map[Event]Phase{
	PhaseIdle: {
		EventMount: PhaseFetchingInitialTimes,
	},
	PhaseFetchingInitialTimes: {
		EventTimesLoaded:  PhaseReady,
		EventDateSelected: PhaseFetchingForDate,
	},
	PhaseReady: {
		EventDateSelected: PhaseFetchingForDate,
		EventSubmit:       PhaseSubmitting,
	},
	PhaseFetchingForDate: {
		EventDateSelected: PhaseFetchingForDate,
		EventTimesLoaded:  PhaseReady,
	},
	PhaseSubmitting: {
		EventSubmitSucceeded: PhaseSubmittedOK,
		EventSubmitFailed:    PhaseReady,
	},
	PhaseSubmittedOK: {
		EventMount: PhaseFetchingInitialTimes,
	},
}

// Accepts reports whether e is a valid event in phase p
func (p Phase) Accepts(e Event) bool {
	_, ok := transitions[p][e]
	return ok
}

// Apply returns the phase after e. Events p does not accept leave it unchanged.
func (p Phase) Apply(e Event) Phase {
	if next, ok := transitions[p][e]; ok {
		return next
	}
	return p
}
