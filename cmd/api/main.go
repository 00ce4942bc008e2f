package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowcrm/pipeline-api/internal/config"
	"github.com/flowcrm/pipeline-api/internal/database"
	"github.com/flowcrm/pipeline-api/internal/http/handler"
	"github.com/flowcrm/pipeline-api/internal/http/middleware"
	"github.com/flowcrm/pipeline-api/internal/http/router"
	"github.com/flowcrm/pipeline-api/internal/jobs"
	"github.com/flowcrm/pipeline-api/internal/logger"
	"github.com/flowcrm/pipeline-api/internal/repository"
	"github.com/flowcrm/pipeline-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to the record store
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// The sqlite variant has no migration runner; keep its schema in step
	// automatically
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	contactRepo := repository.NewContactRepository(db)
	dealRepo := repository.NewDealRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)

	// Initialize services
	settingsService := service.NewSettingsService(preferenceRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	contactService := service.NewContactService(contactRepo, dealRepo, log)
	dealService := service.NewDealService(dealRepo, contactRepo, settingsService, notificationService, log)
	activityService := service.NewActivityService(activityRepo, contactRepo, dealRepo, log)
	exportService := service.NewExportService(contactRepo, dealRepo, activityRepo, settingsService, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	contactHandler := handler.NewContactHandler(contactService, activityService, log)
	dealHandler := handler.NewDealHandler(dealService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)
	settingsHandler := handler.NewSettingsHandler(settingsService, log)
	exportHandler := handler.NewExportHandler(exportService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		rateLimiter,
		contactHandler,
		dealHandler,
		activityHandler,
		settingsHandler,
		exportHandler,
		notificationHandler,
	)

	// Initialize and start the scheduler for the autosave export job
	var scheduler *jobs.Scheduler
	if cfg.Autosave.Enabled {
		scheduler = jobs.NewScheduler(log)
		autosave := jobs.NewAutosaveJob(scheduler, exportService, settingsService, cfg.Autosave.Dir, log)
		if err := autosave.Register(ctx); err != nil {
			log.Error("Failed to register autosave job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with autosave job",
				zap.String("export_dir", cfg.Autosave.Dir))
		}
	} else {
		log.Info("Autosave export disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
