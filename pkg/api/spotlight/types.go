package spotlight

import (
	"github.com/vizzylabs/creator-platform/pkg/api/common"
)

// FeedCreator is the mobile-optimized creator summary returned by the feed
type FeedCreator struct {
	ID                int64   `json:"id"`
	Username          string  `json:"username"`
	DisplayName       string  `json:"display_name"`
	FollowerCount     int64   `json:"follower_count"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

// CreatorFeedResponse is one page of the creator feed
type CreatorFeedResponse struct {
	Creators []FeedCreator `json:"creators"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// VideoAnalytics is a video annotated with its computed engagement rate
type VideoAnalytics struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	ViewCount      int64   `json:"view_count"`
	EngagementRate float64 `json:"engagement_rate"`
}

// VideoAnalyticsResponse lists a creator's top videos by engagement
type VideoAnalyticsResponse struct {
	CreatorID int64            `json:"creator_id"`
	Videos    []VideoAnalytics `json:"videos"`
}

// ErrorResponse is a type alias to the common error response
type ErrorResponse = common.ErrorResponse
