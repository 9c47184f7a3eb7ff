package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContactMethod is how the restaurant reaches the guest about a booking
type ContactMethod string

const (
	ContactMethodSMS   ContactMethod = "SMS"
	ContactMethodEmail ContactMethod = "Email"
)

// Occasion is the reason for the visit
type Occasion string

const (
	OccasionBirthday    Occasion = "Birthday"
	OccasionAnniversary Occasion = "Anniversary"
	OccasionDate        Occasion = "Date"
	OccasionBusiness    Occasion = "Business"
	OccasionOther       Occasion = "Other"
)

const (
	DefaultContactMethod  = ContactMethodEmail
	DefaultNumberOfPeople = 2
	DefaultOccasion       = OccasionOther
)

// BookingForm is the guest's in-progress or submitted reservation
type BookingForm struct {
	Date            time.Time     `json:"date" validate:"date_required,not_past"`
	Time            string        `json:"time" validate:"required"`
	ContactMethod   ContactMethod `json:"contactMethod" validate:"oneof=SMS Email"`
	ContactInfo     string        `json:"contactInfo" validate:"required"`
	NumberOfPeople  int           `json:"numberOfPeople" validate:"min=1,max=20"`
	Occasion        Occasion      `json:"occasion" validate:"oneof=Birthday Anniversary Date Business Other"`
	SpecialRequests string        `json:"specialRequests,omitempty" validate:"max=500"`
}

// NewBookingForm returns a form populated with the booking page defaults
func NewBookingForm(date time.Time) BookingForm {
	return BookingForm{
		Date:           date,
		ContactMethod:  DefaultContactMethod,
		NumberOfPeople: DefaultNumberOfPeople,
		Occasion:       DefaultOccasion,
	}
}

// UnmarshalJSON accepts the date either as a calendar day ("2026-10-20") or
// as an RFC 3339 timestamp. Fields absent from data keep their current value.
func (f *BookingForm) UnmarshalJSON(data []byte) error {
	type formAlias BookingForm
	aux := struct {
		*formAlias
		Date string `json:"date"`
	}{formAlias: (*formAlias)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Date == "" {
		return nil
	}

	layout := time.RFC3339
	if len(aux.Date) == len(DateLayout) {
		layout = DateLayout
	}
	d, err := time.Parse(layout, aux.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", aux.Date, err)
	}
	f.Date = d
	return nil
}

// Contact is the tagged contact variant: Kind selects which shape Value must have.
type Contact struct {
	Kind  ContactMethod `json:"kind"`
	Value string        `json:"value"`
}

// Contact returns the form's contact information as a tagged variant
func (f BookingForm) Contact() Contact {
	return Contact{Kind: f.ContactMethod, Value: f.ContactInfo}
}

// ConfirmedBooking is a form snapshot recorded after a successful submission
type ConfirmedBooking struct {
	ID          string      `json:"id"`
	Booking     BookingForm `json:"booking"`
	SubmittedAt time.Time   `json:"submittedAt"`
}
