package availability

import (
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/models"
)

// ActionKind names a transition of the availability state
type ActionKind string

const (
	ActionReplace      ActionKind = "REPLACE"
	ActionMarkFetching ActionKind = "MARK_FETCHING"
)

// Action is a transition request dispatched to Reduce
type Action struct {
	Kind  ActionKind
	Slots []models.TimeSlot
	Date  time.Time
}

// Replace returns the action that swaps in a freshly derived slot set
func Replace(slots []models.TimeSlot) Action {
	return Action{Kind: ActionReplace, Slots: slots}
}

// MarkFetching returns the action announcing a fetch for date
func MarkFetching(date time.Time) Action {
	return Action{Kind: ActionMarkFetching, Date: date}
}

// State is the slot set currently offered for selection. It is never
// mutated; every replacement produces a new State.
type State struct {
	Slots []models.TimeSlot
}

// NewState seeds the state, copying initial
func NewState(initial []models.TimeSlot) *State {
	return &State{Slots: cloneSlots(initial)}
}

// Reduce applies action to state. It is total: anything other than a
// replacement hands back the very same state.
func Reduce(state *State, action Action) *State {
	if state == nil {
		state = NewState(nil)
	}
	switch action.Kind {
	case ActionReplace:
		return NewState(action.Slots)
	case ActionMarkFetching:
		return state
	default:
		return state
	}
}

// Values lists the slot tokens in order
func (s *State) Values() []string {
	if s == nil {
		return nil
	}
	values := make([]string, len(s.Slots))
	for i, slot := range s.Slots {
		values[i] = slot.Value
	}
	return values
}

func cloneSlots(slots []models.TimeSlot) []models.TimeSlot {
	out := make([]models.TimeSlot, len(slots))
	copy(out, slots)
	return out
}
