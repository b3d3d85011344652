package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/registreqc/registreqc-backend/config"
	"github.com/registreqc/registreqc-backend/internal/app/controller"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/app/service"
	"github.com/registreqc/registreqc-backend/internal/db"
	"github.com/registreqc/registreqc-backend/internal/middleware"
	"github.com/registreqc/registreqc-backend/internal/router"
	"github.com/registreqc/registreqc-backend/internal/scheduler"
	"github.com/registreqc/registreqc-backend/internal/storage"
	"github.com/registreqc/registreqc-backend/internal/websocket"
	"github.com/registreqc/registreqc-backend/pkg/logger"
	"github.com/registreqc/registreqc-backend/pkg/places"
	"github.com/registreqc/registreqc-backend/pkg/redis"
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

	logger.Info("Starting Registre QC Backend Server", map[string]interface{}{
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

	// Seed reference data (categories, code mappings)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis is optional; batch jobs and lookups fall back to the database.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	claimRepo := repository.NewClaimRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// WebSocket hub for the admin dashboard
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	businessService := service.NewBusinessService(businessRepo, notificationService)
	categoryService := service.NewCategoryService(categoryRepo)
	claimService := service.NewClaimService(claimRepo, businessRepo, notificationService)
	reviewService := service.NewReviewService(reviewRepo, businessRepo)

	var placesClient service.PlacesClient
	if cfg.Places.APIKey != "" {
		placesClient = places.NewClient(cfg.Places.APIKey, cfg.Places.BaseURL)
	}
	enrichmentService := service.NewEnrichmentService(cfg, businessRepo, categoryRepo, placesClient)

	// S3 storage for claim proof uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	businessController := controller.NewBusinessController(businessService, reviewService)
	categoryController := controller.NewCategoryController(categoryService)
	claimController := controller.NewClaimController(claimService)
	reviewController := controller.NewReviewController(reviewService)
	adminController := controller.NewAdminController(businessService, claimService, reviewService)
	uploadController := controller.NewUploadController(s3Storage)
	notificationController := controller.NewNotificationController(notificationService)
	wsController := controller.NewWebSocketController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		businessController,
		categoryController,
		claimController,
		reviewController,
		adminController,
		uploadController,
		notificationController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Nightly enrichment batch
	enrichmentScheduler := scheduler.NewEnrichmentScheduler(enrichmentService, cfg.Batch.PageSize)
	if err := enrichmentScheduler.Start(); err != nil {
		logger.Warn("Failed to start enrichment scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer enrichmentScheduler.Stop()

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
