// Package validation checks a booking form as a whole and reports one
// message per offending field, keyed by the field's JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// optional "+", optional country digits, optional "(area)", then digits and separators
	phonePattern = regexp.MustCompile(`^\+?[0-9]{0,4}[-\s.]?(\([0-9]{1,4}\))?[-\s./0-9]*[0-9]$`)
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// messages maps "<field>.<failed tag>" to the text shown beside the input
var messages = map[string]string{
	"date.date_required":   "Date is required",
	"date.not_past":        "Date must be today or in the future",
	"time.required":        "Time is required",
	"contactMethod.oneof":  "Please select a contact method",
	"contactInfo.required": "Contact information is required",
	"contactInfo.phone":    "Invalid phone number",
	"contactInfo.email":    "Invalid email address",
	"numberOfPeople.min":   "At least one person is required",
	"numberOfPeople.max":   "Maximum of 20 people allowed",
	"occasion.oneof":       "Please select an occasion",
	"specialRequests.max":  "Special requests can't exceed 500 characters",
}

// FieldErrors maps a form field path to its error message
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fmt.Sprintf("%s: %s", field, e[field])
	}
	return "invalid booking: " + strings.Join(parts, "; ")
}

// AsFieldErrors extracts FieldErrors from err
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Options tune the date freshness rule
type Options struct {
	// EnforceFreshness rejects dates before the current calendar day
	EnforceFreshness bool
	Location         *time.Location
	Now              func() time.Time
}

// Validator is the booking form schema
type Validator struct {
	validate *validator.Validate
	opts     Options
}

// New builds the schema
func New(opts Options) *Validator {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	v := &Validator{validate: validator.New(), opts: opts}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// time.Time fields get their own presence check, "required" on a struct
	// type depends on validator options.
	mustRegister(v.validate.RegisterValidation("date_required", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(time.Time)
		return ok && !d.IsZero()
	}))
	mustRegister(v.validate.RegisterValidation("not_past", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		if !v.opts.EnforceFreshness {
			return true
		}
		today := v.opts.Now().In(v.opts.Location)
		return !calendarDay(d, v.opts.Location).Before(calendarDay(today, v.opts.Location))
	}))

	v.validate.RegisterStructValidation(validateContact, models.BookingForm{})
	return v
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

// calendarDay keeps the day as written in t and drops the time of day
func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// validateContact checks the contact value against the shape its kind
// requires. Errors land on contactInfo, never on contactMethod.
func validateContact(sl validator.StructLevel) {
	form := sl.Current().Interface().(models.BookingForm)
	contact := form.Contact()
	if contact.Value == "" {
		return
	}

	switch contact.Kind {
	case models.ContactMethodSMS:
		if !phonePattern.MatchString(contact.Value) {
			sl.ReportError(contact.Value, "contactInfo", "ContactInfo", "phone", "")
		}
	case models.ContactMethodEmail:
		if !emailPattern.MatchString(contact.Value) {
			sl.ReportError(contact.Value, "contactInfo", "ContactInfo", "email", "")
		}
	}
}

// Validate checks the whole form. It returns nil or FieldErrors.
func (v *Validator) Validate(form models.BookingForm) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate booking: %w", err)
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("Invalid value for %s", field)
		}
		fields[field] = msg
	}
	return fields
}
