package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/availability"
	"github.com/cx-tal-miterani/table-booking/internal/booking"
	"github.com/cx-tal-miterani/table-booking/internal/config"
	"github.com/cx-tal-miterani/table-booking/internal/handlers"
	"github.com/cx-tal-miterani/table-booking/internal/logger"
	"github.com/cx-tal-miterani/table-booking/internal/reservation"
	"github.com/cx-tal-miterani/table-booking/internal/router"
	"github.com/cx-tal-miterani/table-booking/internal/store"
	"github.com/cx-tal-miterani/table-booking/internal/validation"
	"github.com/cx-tal-miterani/table-booking/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/client"
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

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err))
	}

	ctx := context.Background()

	bookings, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open booking store", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer closeStore()

	// Initialize services
	mock := reservation.NewMockService(logger, reservation.WithLatency(cfg.MockMinDelay, cfg.MockJitter))

	var source availability.Source = availability.ScheduleSource{}
	if cfg.AvailabilitySource == config.SourceMock {
		source = mock
	}

	var submitter booking.Submitter = mock
	if cfg.Submitter == config.SubmitterTemporal {
		temporalClient, err := client.Dial(client.Options{
			HostPort: cfg.TemporalHost,
		})
		if err != nil {
			logger.Fatal("Failed to create Temporal client", zap.Error(err))
		}
		defer temporalClient.Close()
		submitter = reservation.NewWorkflowSubmitter(temporalClient, cfg.TaskQueue, logger)
		logger.Info("Connected to Temporal server", zap.String("host", cfg.TemporalHost))
	}

	validator := validation.New(validation.Options{
		EnforceFreshness: cfg.EnforceFutureDates,
		Location:         loc,
	})
	bookingService := booking.NewBookingService(source, submitter, bookings, validator, logger)

	// Initialize handlers
	h := handlers.NewHandler(bookingService, logger, loc)

	hub := websocket.NewHub(logger)
	go hub.Run()
	ws := websocket.NewHandler(hub, bookingService, logger, loc, booking.WithClock(time.Now, loc))

	// Create router
	r := router.SetupRouter(h, ws)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("API server starting",
			zap.String("port", cfg.AppPort),
			zap.String("availability", cfg.AvailabilitySource),
			zap.String("submitter", cfg.Submitter),
			zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	hub.Close()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// openStore connects the configured booking store. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	switch cfg.Store {
	case config.StoreBadger:
		s, err := store.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using badger store", zap.String("path", cfg.BadgerPath))
		return s, func() { s.Close() }, nil

	case config.StoreRedis:
		s := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info("Using redis store", zap.String("addr", cfg.RedisAddr))
		return s, func() { s.Close() }, nil

	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		s := store.NewPostgresStore(pool)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("Using postgres store")
		return s, pool.Close, nil

	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}
