package moderation

import (
	"fmt"
	"strings"
)

// ViolationType is the closed set of policy violation categories a verdict
// can carry.
type ViolationType string

const (
	ViolationHateSpeech   ViolationType = "hate_speech"
	ViolationViolence     ViolationType = "violence"
	ViolationAdultContent ViolationType = "adult_content"
	ViolationSpam         ViolationType = "spam"
	ViolationNone         ViolationType = "none"
)

// ParseViolationType converts a raw string into a ViolationType, rejecting
// anything outside the closed set.
func ParseViolationType(s string) (ViolationType, error) {
	switch v := ViolationType(s); v {
	case ViolationHateSpeech, ViolationViolence, ViolationAdultContent, ViolationSpam, ViolationNone:
		return v, nil
	}
	return "", fmt.Errorf("unknown violation type %q", s)
}

// Verdict is the normalized moderation outcome returned to callers.
// Invariant: IsSafe == true exactly when ViolationType == ViolationNone.
type Verdict struct {
	IsSafe        bool          `json:"is_safe"`
	Confidence    float64       `json:"confidence"`
	ViolationType ViolationType `json:"violation_type"`
	Reasoning     string        `json:"reasoning"`
	Provider      string        `json:"provider"`
}

// Validate checks the verdict invariants
func (v *Verdict) Validate() error {
	if v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", v.Confidence)
	}
	if v.IsSafe && v.ViolationType != ViolationNone {
		return fmt.Errorf("safe verdict must carry violation type none, got %q", v.ViolationType)
	}
	if !v.IsSafe && v.ViolationType == ViolationNone {
		return fmt.Errorf("unsafe verdict must carry a violation type")
	}
	return nil
}

// Request is a single moderation request. Content and CreatorID are
// required; VideoID is optional and echoed back by the HTTP boundary.
type Request struct {
	Content   string `json:"content" binding:"required"`
	CreatorID string `json:"creator_id" binding:"required"`
	VideoID   string `json:"video_id,omitempty"`
}

// Validate rejects requests with empty or whitespace-only fields
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty or whitespace"}
	}
	if strings.TrimSpace(r.CreatorID) == "" {
		return &ValidationError{Field: "creator_id", Reason: "must not be empty"}
	}
	return nil
}
