package models

import (
	"time"
)

// Creator represents a content creator account
type Creator struct {
	ID                int64     `json:"id"`
	Username          string    `json:"username"`
	DisplayName       string    `json:"display_name"`
	FollowerCount     int64     `json:"follower_count"`
	TotalViews        int64     `json:"total_views"`
	AvgEngagementRate float64   `json:"avg_engagement_rate"`
	CreatedAt         time.Time `json:"created_at"`
}

// Video represents an uploaded video with engagement counters
type Video struct {
	ID           int64     `json:"id"`
	CreatorID    int64     `json:"creator_id"`
	Title        string    `json:"title"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}
