package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abrefacil/briefing-backend/config"
	"github.com/abrefacil/briefing-backend/internal/app/controller"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/internal/app/service"
	"github.com/abrefacil/briefing-backend/internal/db"
	"github.com/abrefacil/briefing-backend/internal/middleware"
	"github.com/abrefacil/briefing-backend/internal/router"
	"github.com/abrefacil/briefing-backend/internal/scheduler"
	"github.com/abrefacil/briefing-backend/internal/storage"
	"github.com/abrefacil/briefing-backend/pkg/cep"
	"github.com/abrefacil/briefing-backend/pkg/logger"
	"github.com/abrefacil/briefing-backend/pkg/redis"
	"github.com/abrefacil/briefing-backend/pkg/registry/infosimples"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting AbreFácil Briefing Backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional: without it, lookups just skip the cache
	if cfg.Redis.Addr != "" {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, lookup cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if redis.Enabled() {
		defer redis.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	briefingRepo := repository.NewBriefingRepository(db.GetDB())

	// External lookup clients
	registryClient, err := infosimples.NewClient(infosimples.Config{
		Token:   cfg.Infosimples.Token,
		BaseURL: cfg.Infosimples.BaseURL,
		Timeout: cfg.Infosimples.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to build CNPJ lookup client", err)
	}
	cepClient := cep.NewClient(cfg.ViaCEP.BaseURL, cfg.ViaCEP.Timeout)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	briefingService := service.NewBriefingService(briefingRepo)
	exportService := service.NewExportService(briefingRepo)
	registryService := service.NewRegistryService(registryClient, cfg.Redis.LookupTTL)
	cepService := service.NewCEPService(cepClient, cfg.Redis.LookupTTL)
	userService := service.NewUserService(userRepo)

	// Document storage
	documentStorage := storage.NewDocumentStorage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	briefingController := controller.NewBriefingController(briefingService, exportService)
	registryController := controller.NewRegistryController(registryService)
	cepController := controller.NewCEPController(cepService)
	userController := controller.NewUserController(userService)
	uploadController := controller.NewUploadController(documentStorage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Stale draft cleanup runs only when retention is configured
	if cfg.Cleanup.DraftRetentionDays > 0 {
		cleanupScheduler := scheduler.NewCleanupScheduler(
			briefingRepo,
			cfg.Cleanup.DraftRetentionDays,
			cfg.Cleanup.Schedule,
		)
		if err := cleanupScheduler.Start(); err != nil {
			logger.Error("Failed to start draft cleanup scheduler", err)
		} else {
			defer cleanupScheduler.Stop()
		}
	}

	// Setup router
	r := router.NewRouter(
		authController,
		briefingController,
		registryController,
		cepController,
		userController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
