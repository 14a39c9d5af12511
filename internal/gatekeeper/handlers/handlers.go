package handlers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	gatekeeperapi "github.com/vizzylabs/creator-platform/pkg/api/gatekeeper"
	"github.com/vizzylabs/creator-platform/pkg/logging"
	"github.com/vizzylabs/creator-platform/pkg/moderation"
)

// HandlerMetrics holds the metrics for moderation operations
type HandlerMetrics struct {
	ModerationRequests *prometheus.CounterVec
	ModerationDuration *prometheus.HistogramVec
	ProviderFallbacks  *prometheus.CounterVec
}

var orchestrator *moderation.Orchestrator
var logger logging.Logger
var metrics *HandlerMetrics

func Init(o *moderation.Orchestrator, log logging.Logger, m *HandlerMetrics) {
	orchestrator = o
	logger = log
	metrics = m
}

// ModerateContent evaluates a piece of content against the primary moderation
// provider and falls back to the secondary when the primary fails.
func ModerateContent(c *gin.Context) {
	start := time.Now()

	if orchestrator == nil {
		c.JSON(http.StatusServiceUnavailable, gatekeeperapi.ErrorResponse{Error: "Moderation service not available"})
		return
	}

	var req moderation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		recordOutcome("invalid_request")
		c.JSON(http.StatusBadRequest, gatekeeperapi.ErrorResponse{Error: err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		recordOutcome("invalid_request")
		c.JSON(http.StatusBadRequest, gatekeeperapi.ErrorResponse{Error: err.Error()})
		return
	}

	verdict, err := orchestrator.Evaluate(c.Request.Context(), req.Content)
	duration := time.Since(start)
	if metrics != nil {
		metrics.ModerationDuration.WithLabelValues("moderate").Observe(duration.Seconds())
	}

	if err != nil {
		var bothFailed *moderation.BothProvidersFailedError
		if errors.As(err, &bothFailed) {
			recordOutcome("both_failed")
			logger.WithFields(logging.Fields{
				"creator_id": req.CreatorID,
				"video_id":   req.VideoID,
				"error":      err.Error(),
			}).Error("All moderation providers failed")
			c.JSON(http.StatusInternalServerError, gatekeeperapi.ErrorResponse{Error: "Content moderation unavailable: " + err.Error()})
			return
		}
		recordOutcome("error")
		logger.WithError(err).Error("Moderation evaluation failed")
		c.JSON(http.StatusInternalServerError, gatekeeperapi.ErrorResponse{Error: "Content moderation failed"})
		return
	}

	if verdict.Provider != orchestrator.PrimaryName() && metrics != nil {
		metrics.ProviderFallbacks.WithLabelValues(verdict.Provider).Inc()
	}

	if verdict.IsSafe {
		recordOutcome("safe")
	} else {
		recordOutcome("flagged")
	}

	logger.WithFields(logging.Fields{
		"creator_id":     req.CreatorID,
		"video_id":       req.VideoID,
		"is_safe":        verdict.IsSafe,
		"violation_type": verdict.ViolationType,
		"provider":       verdict.Provider,
		"duration_ms":    duration.Milliseconds(),
	}).Info("Content moderated")

	c.JSON(http.StatusOK, gatekeeperapi.ModerationResponse{
		VideoID:          req.VideoID,
		Moderation:       *verdict,
		ProcessingTimeMs: roundMs(duration),
	})
}

func recordOutcome(outcome string) {
	if metrics != nil {
		metrics.ModerationRequests.WithLabelValues(outcome).Inc()
	}
}

// roundMs converts a duration to milliseconds rounded to two decimals
func roundMs(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/10) / 100
}
