package main

import (
	"context"

	"github.com/vizzylabs/creator-platform/internal/spotlight/handlers"
	"github.com/vizzylabs/creator-platform/internal/spotlight/seed"
	"github.com/vizzylabs/creator-platform/pkg/config"
	"github.com/vizzylabs/creator-platform/pkg/database"
	"github.com/vizzylabs/creator-platform/pkg/logging"
	"github.com/vizzylabs/creator-platform/pkg/monitoring"
	"github.com/vizzylabs/creator-platform/pkg/server"
	"github.com/vizzylabs/creator-platform/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("spotlight")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Spotlight (Creator Discovery & Analytics API)")

	dbURL := config.RequireEnv("DATABASE_URL")

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = dbURL
	db := database.MustConnect(dbConfig, logger)
	defer db.Close()

	// Apply schema and optionally seed demo data
	if err := seed.ApplySchema(context.Background(), db); err != nil {
		logger.WithError(err).Fatal("Failed to apply database schema")
	}
	if config.GetEnvBool("SEED_DEMO_DATA", false) {
		if err := seed.Demo(context.Background(), db, logger, seed.Options{}); err != nil {
			logger.WithError(err).Fatal("Failed to seed demo data")
		}
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("spotlight", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("spotlight", version.Version, version.GitCommit)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": dbURL,
	}))

	// Create custom query metrics
	handlerMetrics := &handlers.HandlerMetrics{
		DBQueries:  metricsCollector.NewCounter("db_queries_total", "Database queries by name and status", []string{"query", "status"}),
		DBDuration: metricsCollector.NewHistogram("db_query_duration_seconds", "Database query duration", []string{"query"}, nil),
	}

	handlers.Init(db, logger, handlerMetrics)

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "spotlight", healthChecker, metricsCollector)

	router.GET("/api/creators/feed", handlers.GetCreatorFeed)
	router.GET("/api/analytics/creators/:id/videos", handlers.GetCreatorVideoAnalytics)

	serverConfig := server.DefaultConfig("spotlight", "18011")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
}
