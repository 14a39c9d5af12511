package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	spotlightapi "github.com/vizzylabs/creator-platform/pkg/api/spotlight"
	"github.com/vizzylabs/creator-platform/pkg/logging"
	"github.com/vizzylabs/creator-platform/pkg/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	topVideosLimit  = 10
)

// HandlerMetrics holds the metrics for spotlight query operations
type HandlerMetrics struct {
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
}

var db *sql.DB
var logger logging.Logger
var metrics *HandlerMetrics

func Init(database *sql.DB, log logging.Logger, m *HandlerMetrics) {
	db = database
	logger = log
	metrics = m
}

// GetCreatorFeed returns a page of creators that have published at least one
// video. A single query with an EXISTS subquery serves the whole page; the
// stable ORDER BY id keeps pagination deterministic.
func GetCreatorFeed(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	offset := (page - 1) * pageSize

	start := time.Now()
	rows, err := db.QueryContext(c.Request.Context(), `
		SELECT c.id, c.username, c.display_name, c.follower_count, c.avg_engagement_rate
		FROM creators c
		WHERE EXISTS (SELECT 1 FROM videos v WHERE v.creator_id = c.id)
		ORDER BY c.id
		LIMIT $1 OFFSET $2`, pageSize, offset)
	recordQuery("creator_feed", start, err)
	if err != nil {
		logger.WithError(err).Error("Failed to query creator feed")
		c.JSON(http.StatusInternalServerError, spotlightapi.ErrorResponse{Error: "Failed to fetch creator feed"})
		return
	}
	defer rows.Close()

	creators := []spotlightapi.FeedCreator{}
	for rows.Next() {
		var creator models.Creator
		if err := rows.Scan(&creator.ID, &creator.Username, &creator.DisplayName, &creator.FollowerCount, &creator.AvgEngagementRate); err != nil {
			logger.WithError(err).Error("Failed to scan creator row")
			c.JSON(http.StatusInternalServerError, spotlightapi.ErrorResponse{Error: "Failed to fetch creator feed"})
			return
		}
		creators = append(creators, toFeedCreator(creator))
	}
	if err := rows.Err(); err != nil {
		logger.WithError(err).Error("Creator feed iteration failed")
		c.JSON(http.StatusInternalServerError, spotlightapi.ErrorResponse{Error: "Failed to fetch creator feed"})
		return
	}

	c.JSON(http.StatusOK, spotlightapi.CreatorFeedResponse{
		Creators: creators,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetCreatorVideoAnalytics returns the creator's top videos ranked by
// engagement rate, computed in SQL with a zero-views guard.
func GetCreatorVideoAnalytics(c *gin.Context) {
	creatorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || creatorID <= 0 {
		c.JSON(http.StatusBadRequest, spotlightapi.ErrorResponse{Error: "Creator ID must be a positive integer"})
		return
	}

	var exists bool
	start := time.Now()
	err = db.QueryRowContext(c.Request.Context(),
		`SELECT EXISTS (SELECT 1 FROM creators WHERE id = $1)`, creatorID).Scan(&exists)
	recordQuery("creator_lookup", start, err)
	if err != nil {
		logger.WithError(err).Error("Failed to look up creator")
		c.JSON(http.StatusInternalServerError, spotlightapi.ErrorResponse{Error: "Failed to fetch video analytics"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, spotlightapi.ErrorResponse{Error: "Creator not found"})
		return
	}

	start = time.Now()
	rows, err := db.QueryContext(c.Request.Context(), `
		SELECT id, title, view_count,
		       CASE WHEN view_count > 0
		            THEN (like_count + comment_count)::float / view_count
		            ELSE 0 END AS engagement_rate
		FROM videos
		WHERE creator_id = $1
		ORDER BY engagement_rate DESC
		LIMIT $2`, creatorID, topVideosLimit)
	recordQuery("video_analytics", start, err)
	if err != nil {
		logger.WithError(err).Error("Failed to query video analytics")
		c.JSON(http.StatusInternalServerError, spotlightapi.ErrorResponse{Error: "Failed to fetch video analytics"})
		return
	}
	defer rows.Close()

	videos := []spotlightapi.VideoAnalytics{}
	for rows.Next() {
		var video models.Video
		var engagementRate float64
		if err := rows.Scan(&video.ID, &video.Title, &video.ViewCount, &engagementRate); err != nil {
			logger.WithError(err).Error("Failed to scan video row")
			c.JSON(http.StatusInternalServerError, spotlightapi.ErrorResponse{Error: "Failed to fetch video analytics"})
			return
		}
		videos = append(videos, toVideoAnalytics(video, engagementRate))
	}
	if err := rows.Err(); err != nil {
		logger.WithError(err).Error("Video analytics iteration failed")
		c.JSON(http.StatusInternalServerError, spotlightapi.ErrorResponse{Error: "Failed to fetch video analytics"})
		return
	}

	c.JSON(http.StatusOK, spotlightapi.VideoAnalyticsResponse{
		CreatorID: creatorID,
		Videos:    videos,
	})
}

// toFeedCreator trims a creator to the mobile feed payload
func toFeedCreator(creator models.Creator) spotlightapi.FeedCreator {
	return spotlightapi.FeedCreator{
		ID:                creator.ID,
		Username:          creator.Username,
		DisplayName:       creator.DisplayName,
		FollowerCount:     creator.FollowerCount,
		AvgEngagementRate: creator.AvgEngagementRate,
	}
}

// toVideoAnalytics pairs a video with its SQL-computed engagement rate
func toVideoAnalytics(video models.Video, engagementRate float64) spotlightapi.VideoAnalytics {
	return spotlightapi.VideoAnalytics{
		ID:             video.ID,
		Title:          video.Title,
		ViewCount:      video.ViewCount,
		EngagementRate: engagementRate,
	}
}

func recordQuery(query string, start time.Time, err error) {
	if metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueries.WithLabelValues(query, status).Inc()
	metrics.DBDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
