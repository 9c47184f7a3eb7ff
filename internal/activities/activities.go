package activities

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/availability"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
)

// CheckScheduleInput is the input for CheckSchedule
type CheckScheduleInput struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// SendConfirmationInput is the input for SendConfirmation
type SendConfirmationInput struct {
	RequestID string         `json:"requestId"`
	Contact   models.Contact `json:"contact"`
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	Party     int            `json:"party"`
}

// Activities holds the reservation activities registered on the worker
type Activities struct {
	newCode func() string
}

// NewActivities creates a new Activities instance
func NewActivities() *Activities {
	return &Activities{newCode: confirmationCode}
}

func confirmationCode() string {
	return "LL-" + strings.ToUpper(uuid.New().String()[:8])
}

// CheckSchedule reports whether the requested time is offered on the requested day
func (a *Activities) CheckSchedule(ctx context.Context, input CheckScheduleInput) (*models.CheckScheduleResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Checking schedule", "date", input.Date, "time", input.Time)

	date, err := time.Parse(models.DateLayout, input.Date)
	if err != nil {
		return &models.CheckScheduleResult{Reason: "invalid date"}, nil
	}
	minutes, err := availability.ParseToken(input.Time)
	if err != nil {
		return &models.CheckScheduleResult{Reason: "invalid time"}, nil
	}

	token := availability.FormatToken(minutes)
	for _, slot := range availability.ForDate(date) {
		if slot.Value == token {
			return &models.CheckScheduleResult{Available: true}, nil
		}
	}

	logger.Info("Requested time not offered", "date", input.Date, "time", token)
	return &models.CheckScheduleResult{
		Reason: fmt.Sprintf("%s is not offered on %s", availability.Label(minutes), date.Weekday()),
	}, nil
}

// SendConfirmation notifies the guest through their chosen channel
func (a *Activities) SendConfirmation(ctx context.Context, input SendConfirmationInput) (*models.SendConfirmationResult, error) {
	logger := activity.GetLogger(ctx)

	if input.Contact.Value == "" {
		return nil, fmt.Errorf("no contact information for request %s", input.RequestID)
	}

	code := a.newCode()
	logger.Info("Sending confirmation",
		"requestId", input.RequestID,
		"channel", string(input.Contact.Kind),
		"to", input.Contact.Value,
		"code", code,
		"date", input.Date,
		"time", input.Time,
		"party", input.Party)

	return &models.SendConfirmationResult{
		ConfirmationCode: code,
		Channel:          string(input.Contact.Kind),
	}, nil
}
