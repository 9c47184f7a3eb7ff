package models

// ReservationWorkflowInput is the input of the reservation workflow
type ReservationWorkflowInput struct {
	RequestID string      `json:"requestId"`
	Booking   BookingForm `json:"booking"`
}

// ReservationWorkflowResult is the outcome of the reservation workflow
type ReservationWorkflowResult struct {
	Success          bool   `json:"success"`
	ConfirmationCode string `json:"confirmationCode,omitempty"`
	FailureReason    string `json:"failureReason,omitempty"`
}

// Workflow and activity names registered on the worker
const (
	WorkflowReservation      = "ReservationWorkflow"
	ActivityCheckSchedule    = "CheckSchedule"
	ActivitySendConfirmation = "SendConfirmation"
)

// CheckScheduleResult reports whether the requested time is offered on that day
type CheckScheduleResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// SendConfirmationResult carries the confirmation code sent to the guest
type SendConfirmationResult struct {
	ConfirmationCode string `json:"confirmationCode"`
	Channel          string `json:"channel"`
}
