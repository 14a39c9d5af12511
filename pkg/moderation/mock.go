package moderation

import (
	"context"
	"encoding/json"
	"strings"
)

// flagWords trigger an overall flag in the mock providers
var flagWords = []string{"violence", "hate", "nsfw", "spam", "attack"}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// MockPrimary is a keyword-based stand-in for the OpenAI moderations
// endpoint. It reports the same provider name as the real client so verdicts
// are indistinguishable to callers.
type MockPrimary struct{}

func NewMockPrimary() *MockPrimary {
	return &MockPrimary{}
}

func (*MockPrimary) Name() string {
	return "openai"
}

func (*MockPrimary) Moderate(_ context.Context, content string) (*RawResult, error) {
	text := strings.ToLower(content)

	categories := map[string]bool{
		"hate":     strings.Contains(text, "hate"),
		"violence": containsAny(text, "violence", "attack"),
		"sexual":   containsAny(text, "nsfw", "adult"),
		"spam":     strings.Contains(text, "spam"),
	}

	score := func(cat string, hit, miss float64) float64 {
		if categories[cat] {
			return hit
		}
		return miss
	}
	scores := map[string]float64{
		"hate":     score("hate", 0.85, 0.05),
		"violence": score("violence", 0.78, 0.03),
		"sexual":   score("sexual", 0.92, 0.02),
		"spam":     score("spam", 0.65, 0.04),
	}

	return &RawResult{
		Flagged:    containsAny(text, flagWords...),
		Categories: categories,
		Scores:     scores,
	}, nil
}

// MockSecondary is a keyword-based stand-in for the Anthropic messages
// endpoint. It emits the strict JSON the orchestrator's prompt asks for.
type MockSecondary struct{}

func NewMockSecondary() *MockSecondary {
	return &MockSecondary{}
}

func (*MockSecondary) Name() string {
	return "anthropic"
}

func (*MockSecondary) Moderate(_ context.Context, content string) (*RawResult, error) {
	text := strings.ToLower(content)

	isSafe := !containsAny(text, flagWords...)

	violation := ViolationNone
	switch {
	case strings.Contains(text, "hate"):
		violation = ViolationHateSpeech
	case containsAny(text, "violence", "attack"):
		violation = ViolationViolence
	case containsAny(text, "nsfw", "adult"):
		violation = ViolationAdultContent
	case strings.Contains(text, "spam"):
		violation = ViolationSpam
	}

	confidence := 0.95
	reasoning := "Content analyzed for policy violations. No violations found."
	if !isSafe {
		confidence = 0.75
		reasoning = "Content analyzed for policy violations. Potential violation detected."
	}

	payload, err := json.Marshal(map[string]interface{}{
		"is_safe":        isSafe,
		"confidence":     confidence,
		"violation_type": violation,
		"reasoning":      reasoning,
	})
	if err != nil {
		return nil, err
	}

	return &RawResult{Text: string(payload)}, nil
}
