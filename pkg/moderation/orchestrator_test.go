package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vizzylabs/creator-platform/pkg/logging"
)

// stubProvider is a controllable provider for orchestrator tests
type stubProvider struct {
	name   string
	result *RawResult
	err    error
	delay  time.Duration
	calls  int32
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) Moderate(ctx context.Context, _ string) (*RawResult, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestOrchestrator(primary, secondary Provider, timeout time.Duration) *Orchestrator {
	return NewOrchestrator(primary, secondary, logging.NewLogger(), Options{Timeout: timeout})
}

func TestEvaluate_PrimaryFlagsHighestScoringCategory(t *testing.T) {
	o := newTestOrchestrator(NewMockPrimary(), NewMockSecondary(), 0)

	verdict, err := o.Evaluate(context.Background(), "I love violence and hate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.IsSafe {
		t.Fatal("expected unsafe verdict")
	}
	// hate scores 0.85, violence 0.78; the higher score wins
	if verdict.ViolationType != ViolationHateSpeech {
		t.Fatalf("expected hate_speech, got %s", verdict.ViolationType)
	}
	if verdict.Confidence != 0.85 {
		t.Fatalf("expected confidence 0.85, got %v", verdict.Confidence)
	}
	if verdict.Provider != "openai" {
		t.Fatalf("expected primary provider name, got %s", verdict.Provider)
	}
	if !strings.Contains(verdict.Reasoning, "hate") || !strings.Contains(verdict.Reasoning, "violence") {
		t.Fatalf("expected reasoning to list triggered categories, got %q", verdict.Reasoning)
	}
	if err := verdict.Validate(); err != nil {
		t.Fatalf("verdict violates invariants: %v", err)
	}
}

func TestEvaluate_PrimaryCleanContent(t *testing.T) {
	o := newTestOrchestrator(NewMockPrimary(), NewMockSecondary(), 0)

	verdict, err := o.Evaluate(context.Background(), "nice sunny day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.IsSafe {
		t.Fatal("expected safe verdict")
	}
	if verdict.ViolationType != ViolationNone {
		t.Fatalf("expected none, got %s", verdict.ViolationType)
	}
	// max untriggered category score in the mock is hate at 0.05
	if verdict.Confidence != 0.05 {
		t.Fatalf("expected confidence 0.05, got %v", verdict.Confidence)
	}
	if verdict.Provider != "openai" {
		t.Fatalf("expected primary provider name, got %s", verdict.Provider)
	}
}

func TestEvaluate_FallbackOnPrimaryError(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("connection refused")}
	secondary := &stubProvider{name: "secondary", result: &RawResult{
		Text: `{"is_safe":false,"confidence":0.8,"violation_type":"spam","reasoning":"promotional content"}`,
	}}
	o := newTestOrchestrator(primary, secondary, 0)

	verdict, err := o.Evaluate(context.Background(), "buy now")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.IsSafe || verdict.ViolationType != ViolationSpam || verdict.Confidence != 0.8 {
		t.Fatalf("verdict does not match secondary output: %+v", verdict)
	}
	if verdict.Reasoning != "promotional content" {
		t.Fatalf("expected reasoning to round-trip, got %q", verdict.Reasoning)
	}
	if verdict.Provider != "secondary" {
		t.Fatalf("expected fallback provider name, got %s", verdict.Provider)
	}
}

func TestEvaluate_PrimaryTimeoutTriggersExactlyOneSecondaryCall(t *testing.T) {
	primary := &stubProvider{name: "primary", delay: 500 * time.Millisecond, result: &RawResult{}}
	secondary := &stubProvider{name: "secondary", result: &RawResult{
		Text: `{"is_safe":true,"confidence":0.9,"violation_type":"none","reasoning":"clean"}`,
	}}
	o := newTestOrchestrator(primary, secondary, 50*time.Millisecond)

	verdict, err := o.Evaluate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Provider != "secondary" {
		t.Fatalf("expected fallback verdict, got provider %s", verdict.Provider)
	}
	if got := atomic.LoadInt32(&secondary.calls); got != 1 {
		t.Fatalf("expected exactly one secondary call, got %d", got)
	}
	if got := atomic.LoadInt32(&primary.calls); got != 1 {
		t.Fatalf("expected exactly one primary call, got %d", got)
	}
}

func TestEvaluate_BothProvidersFail(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("unavailable")}
	secondary := &stubProvider{name: "secondary", err: errors.New("rate limited")}
	o := newTestOrchestrator(primary, secondary, 0)

	_, err := o.Evaluate(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error when both providers fail")
	}

	var both *BothProvidersFailedError
	if !errors.As(err, &both) {
		t.Fatalf("expected BothProvidersFailedError, got %T", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "primary") || !strings.Contains(msg, "secondary") {
		t.Fatalf("expected message to name both failures, got %q", msg)
	}
	if both.Primary.Provider != "primary" || both.Secondary.Provider != "secondary" {
		t.Fatalf("unexpected provider attribution: %+v", both)
	}
}

func TestEvaluate_BothTimeout(t *testing.T) {
	primary := &stubProvider{name: "primary", delay: 500 * time.Millisecond, result: &RawResult{}}
	secondary := &stubProvider{name: "secondary", delay: 500 * time.Millisecond, result: &RawResult{}}
	o := newTestOrchestrator(primary, secondary, 30*time.Millisecond)

	_, err := o.Evaluate(context.Background(), "anything")
	var both *BothProvidersFailedError
	if !errors.As(err, &both) {
		t.Fatalf("expected BothProvidersFailedError, got %v", err)
	}
	if !both.Primary.Timeout || !both.Secondary.Timeout {
		t.Fatalf("expected both failures marked as timeouts: %+v", both)
	}
}

func TestEvaluate_MalformedSecondaryOutputYieldsSafeDefault(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("down")}
	secondary := &stubProvider{name: "secondary", result: &RawResult{
		Text: "I cannot comply with that request.",
	}}
	o := newTestOrchestrator(primary, secondary, 0)

	verdict, err := o.Evaluate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("malformed output must not surface as error, got %v", err)
	}
	if !verdict.IsSafe || verdict.Confidence != 0.5 || verdict.ViolationType != ViolationNone {
		t.Fatalf("expected safe default verdict, got %+v", verdict)
	}
	if verdict.Reasoning != "parse failure" {
		t.Fatalf("expected parse failure reasoning, got %q", verdict.Reasoning)
	}
	if verdict.Provider != "secondary" {
		t.Fatalf("expected fallback provider name, got %s", verdict.Provider)
	}
}

func TestEvaluate_FencedSecondaryOutput(t *testing.T) {
	payload := `{"is_safe":false,"confidence":0.8,"violation_type":"spam","reasoning":"ads"}`
	for _, text := range []string{
		payload,
		"```json\n" + payload + "\n```",
		"Here is my analysis:\n```\n" + payload + "\n```\nLet me know if you need more.",
	} {
		primary := &stubProvider{name: "primary", err: errors.New("down")}
		secondary := &stubProvider{name: "secondary", result: &RawResult{Text: text}}
		o := newTestOrchestrator(primary, secondary, 0)

		verdict, err := o.Evaluate(context.Background(), "anything")
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", text, err)
		}
		if verdict.ViolationType != ViolationSpam || verdict.Confidence != 0.8 {
			t.Fatalf("wrapped and unwrapped JSON must parse identically, got %+v for %q", verdict, text)
		}
	}
}

func TestEvaluate_EmptyScores(t *testing.T) {
	primary := &stubProvider{name: "primary", result: &RawResult{}}
	o := newTestOrchestrator(primary, NewMockSecondary(), 0)

	verdict, err := o.Evaluate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.IsSafe || verdict.Confidence != 0 {
		t.Fatalf("empty score map must yield safe verdict with zero confidence, got %+v", verdict)
	}
}

func TestEvaluate_SequentialNotConcurrent(t *testing.T) {
	// The secondary must never be called when the primary succeeds.
	primary := &stubProvider{name: "primary", result: &RawResult{
		Scores: map[string]float64{"hate": 0.05},
	}}
	secondary := &stubProvider{name: "secondary", result: &RawResult{Text: "{}"}}
	o := newTestOrchestrator(primary, secondary, 0)

	if _, err := o.Evaluate(context.Background(), "anything"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&secondary.calls); got != 0 {
		t.Fatalf("secondary must not be called on primary success, got %d calls", got)
	}
}

func TestProviderError_Message(t *testing.T) {
	err := &ProviderError{Provider: "openai", Err: fmt.Errorf("boom")}
	if !strings.Contains(err.Error(), "openai") {
		t.Fatalf("expected provider name in message, got %q", err.Error())
	}
	timeoutErr := &ProviderError{Provider: "openai", Timeout: true}
	if !strings.Contains(timeoutErr.Error(), "timed out") {
		t.Fatalf("expected timeout message, got %q", timeoutErr.Error())
	}
}
