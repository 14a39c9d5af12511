package gatekeeper

import (
	"github.com/vizzylabs/creator-platform/pkg/api/common"
	"github.com/vizzylabs/creator-platform/pkg/moderation"
)

// ModerateRequest is the request body accepted by the moderation endpoint
type ModerateRequest = moderation.Request

// ModerationResponse wraps a verdict with request metadata and timing
type ModerationResponse struct {
	VideoID          string             `json:"video_id,omitempty"`
	Moderation       moderation.Verdict `json:"moderation"`
	ProcessingTimeMs float64            `json:"processing_time_ms"`
}

// ErrorResponse is a type alias to the common error response
type ErrorResponse = common.ErrorResponse
