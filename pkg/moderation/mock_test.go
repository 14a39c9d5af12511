package moderation

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMockPrimary_FlagsKeywords(t *testing.T) {
	p := NewMockPrimary()

	raw, err := p.Moderate(context.Background(), "I will attack you")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !raw.Flagged {
		t.Fatal("expected flagged")
	}
	if !raw.Categories["violence"] {
		t.Fatal("expected violence category")
	}
	if raw.Scores["violence"] != 0.78 {
		t.Fatalf("expected triggered violence score 0.78, got %v", raw.Scores["violence"])
	}
	if raw.Scores["hate"] != 0.05 {
		t.Fatalf("expected untriggered hate score 0.05, got %v", raw.Scores["hate"])
	}
}

func TestMockPrimary_CleanContent(t *testing.T) {
	p := NewMockPrimary()

	raw, err := p.Moderate(context.Background(), "kittens playing in the sun")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Flagged {
		t.Fatal("expected not flagged")
	}
	for cat, set := range raw.Categories {
		if set {
			t.Fatalf("expected no categories set, got %s", cat)
		}
	}
}

func TestMockSecondary_EmitsStrictJSON(t *testing.T) {
	p := NewMockSecondary()

	raw, err := p.Moderate(context.Background(), "this is spam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed struct {
		IsSafe        bool    `json:"is_safe"`
		Confidence    float64 `json:"confidence"`
		ViolationType string  `json:"violation_type"`
		Reasoning     string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw.Text), &parsed); err != nil {
		t.Fatalf("mock secondary must emit valid JSON: %v", err)
	}
	if parsed.IsSafe {
		t.Fatal("expected unsafe")
	}
	if parsed.ViolationType != "spam" || parsed.Confidence != 0.75 {
		t.Fatalf("unexpected payload: %+v", parsed)
	}
}

func TestMockSecondary_SafeContent(t *testing.T) {
	p := NewMockSecondary()

	raw, err := p.Moderate(context.Background(), "a lovely afternoon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	verdict, err := parseSecondaryText(raw.Text)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !verdict.IsSafe || verdict.ViolationType != ViolationNone || verdict.Confidence != 0.95 {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
}

func TestMockProviderNames(t *testing.T) {
	if NewMockPrimary().Name() != "openai" {
		t.Fatal("mock primary must report the provider it simulates")
	}
	if NewMockSecondary().Name() != "anthropic" {
		t.Fatal("mock secondary must report the provider it simulates")
	}
}
