package main

import (
	"github.com/gin-gonic/gin"
	"github.com/mobelio/mobelio-api/internal/application/service"
	"github.com/mobelio/mobelio-api/internal/config"
	"github.com/mobelio/mobelio-api/internal/infrastructure/database"
	"github.com/mobelio/mobelio-api/internal/infrastructure/repository"
	"github.com/mobelio/mobelio-api/internal/presentation/http/handler"
	"github.com/mobelio/mobelio-api/internal/presentation/http/routes"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Configure logging
	log := logrus.StandardLogger()
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize storage and the metrics engine
	storage := repository.NewStorageRepository(db)
	metricsService := service.NewMetricsService(storage, cfg.Metrics, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Dashboard: handler.NewDashboardHandler(metricsService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg: cfg,
		Log: log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Infof("Starting %s server on port %s (env: %s)", cfg.App.Name, port, cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
