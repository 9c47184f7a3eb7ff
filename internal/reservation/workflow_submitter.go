package reservation

import (
	"context"
	"fmt"

	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

const DefaultTaskQueue = "reservation-queue"

// WorkflowStarter is the part of the Temporal client the submitter needs
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// WorkflowSubmitter submits bookings by running the reservation workflow and
// waiting for its verdict.
type WorkflowSubmitter struct {
	temporal  WorkflowStarter
	taskQueue string
	logger    *zap.Logger
}

// NewWorkflowSubmitter creates a WorkflowSubmitter
func NewWorkflowSubmitter(temporal WorkflowStarter, taskQueue string, logger *zap.Logger) *WorkflowSubmitter {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}
	return &WorkflowSubmitter{
		temporal:  temporal,
		taskQueue: taskQueue,
		logger:    logger,
	}
}

// Submit returns the workflow's success flag. Workflow failures surface as errors.
func (s *WorkflowSubmitter) Submit(ctx context.Context, form models.BookingForm) (bool, error) {
	requestID := uuid.New().String()
	workflowOptions := client.StartWorkflowOptions{
		ID:        "reservation-" + requestID,
		TaskQueue: s.taskQueue,
	}

	run, err := s.temporal.ExecuteWorkflow(ctx, workflowOptions, models.WorkflowReservation, models.ReservationWorkflowInput{
		RequestID: requestID,
		Booking:   form,
	})
	if err != nil {
		return false, fmt.Errorf("failed to start workflow: %w", err)
	}

	var result models.ReservationWorkflowResult
	if err := run.Get(ctx, &result); err != nil {
		return false, fmt.Errorf("reservation workflow failed: %w", err)
	}

	if !result.Success {
		s.logger.Info("Reservation declined",
			zap.String("workflowId", workflowOptions.ID),
			zap.String("reason", result.FailureReason))
		return false, nil
	}

	s.logger.Info("Reservation confirmed",
		zap.String("workflowId", workflowOptions.ID),
		zap.String("confirmationCode", result.ConfirmationCode))
	return true, nil
}
