package main

import (
	"github.com/yorumdesk/backend/internal/config"
	"github.com/yorumdesk/backend/internal/handlers"
	"github.com/yorumdesk/backend/internal/models"
	"github.com/yorumdesk/backend/internal/services"
	"github.com/yorumdesk/backend/internal/utils"
	"github.com/yorumdesk/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	commentService     *services.CommentService
	dailyReportService *services.DailyReportService
	taskQueue          services.TaskQueue
	worker             *services.Worker
	authHandler        *handlers.AuthHandler
	commentHandler     *handlers.CommentHandler
	systemHandler      *handlers.SystemHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Start system log cleanup scheduler
	services.StartLogCleanupScheduler(models.GetDB())

	// Core services
	emailService := services.NewEmailService(&cfg.SMTP)
	llmService := services.NewLLMService(models.GetDB(), &cfg.Anthropic)
	commentService := services.NewCommentService(models.GetDB(), llmService)
	authService := services.NewAuthService(models.GetDB(), &cfg.JWT, emailService)

	// Initialize and start the daily digest scheduler
	holidayService := services.NewHolidayService()
	dailyReportService := services.NewDailyReportService(models.GetDB(), emailService, holidayService)
	dailyReportService.StartScheduler()

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(commentService.ProcessTask)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(commentService.ProcessTask)
			worker.Start()
		}
	}

	// Create default admin user
	if err := authService.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		commentService:     commentService,
		dailyReportService: dailyReportService,
		taskQueue:          taskQueue,
		worker:             worker,
		authHandler:        handlers.NewAuthHandler(authService),
		commentHandler:     handlers.NewCommentHandler(commentService),
		systemHandler:      handlers.NewSystemHandler(models.GetDB(), dailyReportService),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.dailyReportService.StopScheduler()

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("Shutdown complete")
}
