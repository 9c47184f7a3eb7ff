// Package availability derives the bookable time slots for a day and keeps
// the currently offered set in sync with date changes.
package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/models"
)

// band is a contiguous run of whole hours offered for a meal service
type band struct {
	first, last int
}

var (
	breakfast = band{first: 9, last: 11}
	lunch     = band{first: 12, last: 15}
	dinner    = band{first: 17, last: 22}
)

// FullSchedule returns every slot the restaurant offers, in order, before
// any weekday restriction is applied.
func FullSchedule() []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, 13)
	for _, b := range []band{breakfast, lunch, dinner} {
		for hour := b.first; hour <= b.last; hour++ {
			slots = append(slots, SlotAt(hour*60))
		}
	}
	return slots
}

// ForDate returns the slots offered on the weekday of date:
// Sunday 12–20, Saturday everything, weekdays from 11 onwards.
func ForDate(date time.Time) []models.TimeSlot {
	all := FullSchedule()
	switch date.Weekday() {
	case time.Sunday:
		return filterHours(all, func(hour int) bool { return hour >= 12 && hour <= 20 })
	case time.Saturday:
		return all
	default:
		return filterHours(all, func(hour int) bool { return hour >= 11 })
	}
}

func filterHours(slots []models.TimeSlot, keep func(hour int) bool) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		minutes, err := ParseToken(s.Value)
		if err != nil {
			continue
		}
		if keep(minutes / 60) {
			out = append(out, s)
		}
	}
	return out
}

// SlotAt builds the slot for a time of day given in minutes after midnight
func SlotAt(minutes int) models.TimeSlot {
	return models.TimeSlot{Value: FormatToken(minutes), Label: Label(minutes)}
}

// FormatToken renders minutes after midnight as "HH:MM"
func FormatToken(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Label renders minutes after midnight on a 12-hour clock: "9 AM", "12 PM", "5:30 PM".
func Label(minutes int) string {
	hour, minute := minutes/60, minutes%60
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	if minute == 0 {
		return fmt.Sprintf("%d %s", display, suffix)
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

// ParseToken accepts "HH:MM", "H:MM" or an hour-only token ("18") and
// returns minutes after midnight.
func ParseToken(token string) (int, error) {
	token = strings.TrimSpace(token)
	layout := "15:04"
	if !strings.Contains(token, ":") {
		layout = "15"
	}
	t, err := time.Parse(layout, token)
	if err != nil {
		return 0, fmt.Errorf("invalid time token %q: %w", token, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Normalize rewrites a token into its canonical "HH:MM" form
func Normalize(token string) (string, error) {
	minutes, err := ParseToken(token)
	if err != nil {
		return "", err
	}
	return FormatToken(minutes), nil
}

// Source produces the ordered availability set for a date
type Source interface {
	Slots(ctx context.Context, date time.Time) ([]models.TimeSlot, error)
}

// ScheduleSource serves the weekday schedule synchronously
type ScheduleSource struct{}

// Slots implements Source
func (ScheduleSource) Slots(ctx context.Context, date time.Time) ([]models.TimeSlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ForDate(date), nil
}
