package main

import (
	"github.com/vizzylabs/creator-platform/internal/gatekeeper/handlers"
	"github.com/vizzylabs/creator-platform/pkg/config"
	"github.com/vizzylabs/creator-platform/pkg/logging"
	"github.com/vizzylabs/creator-platform/pkg/moderation"
	"github.com/vizzylabs/creator-platform/pkg/monitoring"
	"github.com/vizzylabs/creator-platform/pkg/server"
	"github.com/vizzylabs/creator-platform/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("gatekeeper")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Gatekeeper (Content Moderation API)")

	// Build moderation providers
	primaryCfg := moderation.LoadPrimaryConfig()
	secondaryCfg := moderation.LoadSecondaryConfig()

	primary, err := moderation.NewProvider(primaryCfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create primary moderation provider")
	}
	secondary, err := moderation.NewProvider(secondaryCfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create secondary moderation provider")
	}

	orchestrator := moderation.NewOrchestrator(primary, secondary, logger, moderation.Options{
		Timeout: config.GetEnvDuration("MODERATION_TIMEOUT", moderation.DefaultTimeout),
	})

	logger.WithFields(logging.Fields{
		"primary":   primary.Name(),
		"secondary": secondary.Name(),
	}).Info("Moderation providers configured")

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("gatekeeper", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("gatekeeper", version.Version, version.GitCommit)

	healthChecker.AddCheck("providers", monitoring.StaticHealthCheck(
		"primary="+primary.Name()+" secondary="+secondary.Name()))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"MODERATION_PRIMARY_PROVIDER":   primaryCfg.Provider,
		"MODERATION_SECONDARY_PROVIDER": secondaryCfg.Provider,
	}))

	// Probe provider endpoints only when pointed at self-hosted URLs
	if primaryCfg.APIURL != "" {
		healthChecker.AddCheck("primary_endpoint", monitoring.HTTPServiceHealthCheck(primary.Name(), primaryCfg.APIURL))
	}
	if secondaryCfg.APIURL != "" {
		healthChecker.AddCheck("secondary_endpoint", monitoring.HTTPServiceHealthCheck(secondary.Name(), secondaryCfg.APIURL))
	}

	// Create custom moderation metrics
	handlerMetrics := &handlers.HandlerMetrics{
		ModerationRequests: metricsCollector.NewCounter("moderation_requests_total", "Moderation requests by outcome", []string{"outcome"}),
		ModerationDuration: metricsCollector.NewHistogram("moderation_duration_seconds", "Moderation request duration", []string{"operation"}, nil),
		ProviderFallbacks:  metricsCollector.NewCounter("moderation_fallbacks_total", "Requests served by the fallback provider", []string{"provider"}),
	}

	handlers.Init(orchestrator, logger, handlerMetrics)

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "gatekeeper", healthChecker, metricsCollector)

	router.POST("/api/moderate", handlers.ModerateContent)

	serverConfig := server.DefaultConfig("gatekeeper", "18010")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
}
