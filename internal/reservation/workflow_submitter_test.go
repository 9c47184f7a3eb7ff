package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.uber.org/zap"
)

func TestWorkflowSubmitter_Submit(t *testing.T) {
	form := models.NewBookingForm(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC))
	form.Time = "18:00"
	form.ContactInfo = "guest@example.com"

	tests := []struct {
		name      string
		result    models.ReservationWorkflowResult
		startErr  error
		getErr    error
		wantOK    bool
		wantError bool
	}{
		{
			name:   "workflow confirms",
			result: models.ReservationWorkflowResult{Success: true, ConfirmationCode: "LL-1234"},
			wantOK: true,
		},
		{
			name:   "workflow declines",
			result: models.ReservationWorkflowResult{Success: false, FailureReason: "outside opening hours"},
			wantOK: false,
		},
		{
			name:      "workflow cannot start",
			startErr:  errors.New("temporal unavailable"),
			wantError: true,
		},
		{
			name:      "workflow errors",
			getErr:    errors.New("activity timeout"),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			temporalClient := &mocks.Client{}
			run := &mocks.WorkflowRun{}

			matchOptions := mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
				return o.TaskQueue == "test-queue" && len(o.ID) > len("reservation-")
			})
			matchInput := mock.MatchedBy(func(in models.ReservationWorkflowInput) bool {
				return in.Booking.Time == "18:00" && in.RequestID != ""
			})

			if tt.startErr != nil {
				temporalClient.On("ExecuteWorkflow", mock.Anything, matchOptions, models.WorkflowReservation, matchInput).
					Return(nil, tt.startErr)
			} else {
				temporalClient.On("ExecuteWorkflow", mock.Anything, matchOptions, models.WorkflowReservation, matchInput).
					Return(run, nil)
				run.On("Get", mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) {
						*args.Get(1).(*models.ReservationWorkflowResult) = tt.result
					}).
					Return(tt.getErr)
			}

			submitter := NewWorkflowSubmitter(temporalClient, "test-queue", zap.NewNop())
			ok, err := submitter.Submit(context.Background(), form)

			if tt.wantError {
				assert.Error(t, err)
				assert.False(t, ok)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOK, ok)
			}
			temporalClient.AssertExpectations(t)
		})
	}
}

func TestNewWorkflowSubmitter_DefaultQueue(t *testing.T) {
	submitter := NewWorkflowSubmitter(&mocks.Client{}, "", zap.NewNop())
	assert.Equal(t, DefaultTaskQueue, submitter.taskQueue)
}
