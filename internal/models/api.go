package models

import "time"

// AvailabilityResponse is returned by GET /api/availability
type AvailabilityResponse struct {
	Date     string     `json:"date"`
	Times    []TimeSlot `json:"times"`
	Selected string     `json:"selected,omitempty"`
}

// TimeSlot is a bookable time option on the wire
type TimeSlot struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// BookingResponse is returned after a successful submission
type BookingResponse struct {
	Booking  *ConfirmedBooking `json:"booking"`
	Redirect string            `json:"redirect"`
	Message  string            `json:"message"`
}

// ValidationErrorResponse carries one message per offending field
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DateLayout is the calendar-day format used in query strings and session messages
const DateLayout = "2006-01-02"

// ParseDate parses a calendar day in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}
