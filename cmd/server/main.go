package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/application/dispatcher"
	"github.com/plazholdr/job-finder-sub006/internal/application/service"
	"github.com/plazholdr/job-finder-sub006/internal/application/workflow"
	"github.com/plazholdr/job-finder-sub006/internal/config"
	"github.com/plazholdr/job-finder-sub006/internal/infrastructure/notify"
	"github.com/plazholdr/job-finder-sub006/internal/infrastructure/persistence/repository"
	"github.com/plazholdr/job-finder-sub006/internal/infrastructure/persistence/sqlite"
	httpiface "github.com/plazholdr/job-finder-sub006/internal/interfaces/http"
	"github.com/plazholdr/job-finder-sub006/internal/worker"
	"github.com/plazholdr/job-finder-sub006/pkg/database"
	"github.com/plazholdr/job-finder-sub006/pkg/utils"
)

func main() {
	// Local overrides from .env, ignored when absent
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting status workflow engine",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer sqlDB.Close()

	migrator := database.NewMigrator(sqlDB, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db := sqlite.NewDB(sqlDB, logger)

	// Repositories
	listingRepo := repository.NewListingRepository(db, logger)
	applicationRepo := repository.NewApplicationRepository(db, logger)
	employmentRepo := repository.NewEmploymentRepository(db, logger)
	verificationRepo := repository.NewVerificationRepository(db, logger)
	instanceRepo := repository.NewInstanceRepository(db, logger)
	historyRepo := repository.NewHistoryRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)

	// Application layer
	kvLogger := utils.NewKVLogger(logger)

	events := dispatcher.NewDispatcher(dispatcher.WithLogger(kvLogger))
	defer events.Close()

	statusService := service.NewStatusService(
		listingRepo,
		applicationRepo,
		employmentRepo,
		verificationRepo,
		historyRepo,
		db,
		events,
		kvLogger,
	)

	engine := workflow.NewEngine(
		instanceRepo,
		historyRepo,
		notificationRepo,
		employmentRepo,
		verificationRepo,
		db,
		kvLogger,
		workflow.WithDispatcher(events),
	)

	notificationService := service.NewNotificationService(
		notificationRepo,
		notify.NewLogDispatcher(logger),
		kvLogger,
	)
	notificationService.SubscribeTo(events)

	// Background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workers := worker.NewManager(logger)
	workers.Register(worker.NewSLAPoller(
		instanceRepo,
		notificationRepo,
		logger,
		worker.WithPollInterval(cfg.SLA.PollInterval),
		worker.WithBatchSize(cfg.SLA.BatchSize),
		worker.WithPollerDispatcher(events),
	))
	workers.Register(worker.NewNotificationFlusher(notificationService, logger))

	if err := workers.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}

	// HTTP surface
	server := httpiface.NewServer(
		httpiface.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		statusService,
		engine,
		kvLogger,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	cancel()
	workers.StopAll()
	if err := server.Stop(); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
