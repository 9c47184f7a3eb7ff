package workflows

import (
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/activities"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// ActivityTimeout bounds a single activity attempt
	ActivityTimeout = 30 * time.Second
	// MaxActivityAttempts is how often a failing activity is retried
	MaxActivityAttempts = 3
)

// ReservationWorkflow checks the requested slot against the schedule and,
// when it is offered, sends the guest a confirmation.
func ReservationWorkflow(ctx workflow.Context, input models.ReservationWorkflowInput) (*models.ReservationWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Reservation workflow started", "requestId", input.RequestID)

	// Activity options
	activityOpts := workflow.ActivityOptions{
		StartToCloseTimeout: ActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    MaxActivityAttempts,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOpts)

	form := input.Booking
	date := form.Date.Format(models.DateLayout)

	var schedule models.CheckScheduleResult
	err := workflow.ExecuteActivity(ctx, models.ActivityCheckSchedule, activities.CheckScheduleInput{
		Date: date,
		Time: form.Time,
	}).Get(ctx, &schedule)
	if err != nil {
		logger.Error("Schedule check failed", "error", err)
		return nil, err
	}
	if !schedule.Available {
		logger.Info("Reservation declined", "reason", schedule.Reason)
		return &models.ReservationWorkflowResult{
			Success:       false,
			FailureReason: schedule.Reason,
		}, nil
	}

	var confirmation models.SendConfirmationResult
	err = workflow.ExecuteActivity(ctx, models.ActivitySendConfirmation, activities.SendConfirmationInput{
		RequestID: input.RequestID,
		Contact:   form.Contact(),
		Date:      date,
		Time:      form.Time,
		Party:     form.NumberOfPeople,
	}).Get(ctx, &confirmation)
	if err != nil {
		logger.Error("Failed to send confirmation", "error", err)
		return nil, err
	}

	logger.Info("Reservation confirmed", "confirmationCode", confirmation.ConfirmationCode)
	return &models.ReservationWorkflowResult{
		Success:          true,
		ConfirmationCode: confirmation.ConfirmationCode,
	}, nil
}
