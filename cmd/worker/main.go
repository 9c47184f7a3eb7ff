package main

import (
	"log"

	"github.com/cx-tal-miterani/table-booking/internal/activities"
	"github.com/cx-tal-miterani/table-booking/internal/config"
	"github.com/cx-tal-miterani/table-booking/internal/logger"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/cx-tal-miterani/table-booking/internal/workflows"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to Temporal
	logger.Info("Connecting to Temporal", zap.String("host", cfg.TemporalHost))
	c, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", zap.Error(err))
	}
	defer c.Close()

	// Create worker
	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflowWithOptions(workflows.ReservationWorkflow, workflow.RegisterOptions{Name: models.WorkflowReservation})

	// Create and register activities
	acts := activities.NewActivities()
	w.RegisterActivityWithOptions(acts.CheckSchedule, activity.RegisterOptions{Name: models.ActivityCheckSchedule})
	w.RegisterActivityWithOptions(acts.SendConfirmation, activity.RegisterOptions{Name: models.ActivitySendConfirmation})

	// Start worker
	logger.Info("Starting Temporal worker", zap.String("taskQueue", cfg.TaskQueue))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("Worker failed", zap.Error(err))
	}
}
