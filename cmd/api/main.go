package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/auth"
	"github.com/fruta004-ux/olens-crm-api/internal/config"
	"github.com/fruta004-ux/olens-crm-api/internal/database"
	"github.com/fruta004-ux/olens-crm-api/internal/http/handler"
	"github.com/fruta004-ux/olens-crm-api/internal/http/middleware"
	"github.com/fruta004-ux/olens-crm-api/internal/http/router"
	"github.com/fruta004-ux/olens-crm-api/internal/jobs"
	"github.com/fruta004-ux/olens-crm-api/internal/logger"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/service"
	"github.com/fruta004-ux/olens-crm-api/internal/storage"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize document archive storage
	docStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	contactRepo := repository.NewContactRepository(db)
	dealRepo := repository.NewDealRepository(db)
	dealStageHistoryRepo := repository.NewDealStageHistoryRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	presetRepo := repository.NewQuotationPresetRepository(db)
	issuerRepo := repository.NewIssuerRepository(db)
	sequenceRepo := repository.NewDocumentSequenceRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	memoRepo := repository.NewMemoRepository(db)
	featureRequestRepo := repository.NewFeatureRequestRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	accountService := service.NewAccountService(accountRepo, contactRepo, dealRepo, activityRepo, log)
	contactService := service.NewContactService(contactRepo, accountRepo, log)
	dealService := service.NewDealService(dealRepo, dealStageHistoryRepo, accountRepo, activityRepo, notificationRepo, log, db)
	quotationService := service.NewQuotationService(quotationRepo, presetRepo, issuerRepo, sequenceRepo, activityRepo, log)
	documentService := service.NewDocumentService(quotationRepo, issuerRepo, docStorage, log)
	settingService := service.NewSettingService(settingRepo, log)
	taskService := service.NewTaskService(taskRepo, userRepo, log)
	memoService := service.NewMemoService(memoRepo, log)
	featureRequestService := service.NewFeatureRequestService(featureRequestRepo, log)
	activityService := service.NewActivityService(activityRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	reportService := service.NewReportService(dealRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountService, log)
	contactHandler := handler.NewContactHandler(contactService, log)
	dealHandler := handler.NewDealHandler(dealService, reportService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, documentService, log)
	settingHandler := handler.NewSettingHandler(settingService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	memoHandler := handler.NewMemoHandler(memoService, log)
	featureRequestHandler := handler.NewFeatureRequestHandler(featureRequestService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	authHandler := handler.NewAuthHandler(userRepo, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		accountHandler,
		contactHandler,
		dealHandler,
		quotationHandler,
		settingHandler,
		taskHandler,
		memoHandler,
		featureRequestHandler,
		activityHandler,
		notificationHandler,
		authHandler,
	)

	// Start the background scheduler with the recontact reminder sweep
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		recontactJob := jobs.NewRecontactJob(dealRepo, notificationRepo, log)
		if err := scheduler.AddJob("recontact-sweep", cfg.Jobs.RecontactCron, func() {
			recontactJob.Run(context.Background())
		}); err != nil {
			log.Error("Failed to register recontact sweep job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started",
				zap.String("cron_expr", cfg.Jobs.RecontactCron),
			)
		}
	} else {
		log.Info("Background scheduler disabled")
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
