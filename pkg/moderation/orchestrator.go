package moderation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/timeout"

	"github.com/vizzylabs/creator-platform/pkg/logging"
)

// DefaultTimeout bounds each individual provider call
const DefaultTimeout = 5 * time.Second

// categoryViolations maps classifier category names to violation types.
// Categories outside this map are ignored by normalization.
var categoryViolations = map[string]ViolationType{
	"hate":     ViolationHateSpeech,
	"violence": ViolationViolence,
	"sexual":   ViolationAdultContent,
	"spam":     ViolationSpam,
}

// Options configures an Orchestrator
type Options struct {
	// Timeout bounds each provider call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Orchestrator evaluates content against a primary provider and falls back
// to a secondary provider when the primary errors or times out. Providers
// are never called concurrently; the secondary is attempted only after the
// primary is confirmed failed.
type Orchestrator struct {
	primary   Provider
	secondary Provider
	// timeout policies are stateless; one instance bounds both provider calls
	timeout timeout.Timeout[*RawResult]
	logger  logging.Logger
}

// NewOrchestrator constructs an orchestrator over the two providers
func NewOrchestrator(primary, secondary Provider, logger logging.Logger, opts Options) *Orchestrator {
	d := opts.Timeout
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Orchestrator{
		primary:   primary,
		secondary: secondary,
		timeout:   timeout.New[*RawResult](d),
		logger:    logger,
	}
}

// PrimaryName returns the configured primary provider name
func (o *Orchestrator) PrimaryName() string {
	return o.primary.Name()
}

// SecondaryName returns the configured fallback provider name
func (o *Orchestrator) SecondaryName() string {
	return o.secondary.Name()
}

// Evaluate produces a normalized verdict for the given content. It returns
// *BothProvidersFailedError only when the primary and the secondary both
// error or time out; a fully-formed verdict is returned in every other case.
func (o *Orchestrator) Evaluate(ctx context.Context, content string) (*Verdict, error) {
	raw, primaryErr := o.callProvider(ctx, o.primary, content)
	if primaryErr == nil {
		return normalizeClassification(raw, o.primary.Name()), nil
	}

	o.logger.WithError(primaryErr).WithFields(logging.Fields{
		"provider": o.primary.Name(),
		"timeout":  primaryErr.Timeout,
	}).Warn("Primary moderation provider failed, falling back")

	raw, secondaryErr := o.callProvider(ctx, o.secondary, content)
	if secondaryErr != nil {
		return nil, &BothProvidersFailedError{Primary: primaryErr, Secondary: secondaryErr}
	}

	verdict, err := parseSecondaryText(raw.Text)
	if err != nil {
		o.logger.WithError(err).WithField("provider", o.secondary.Name()).Warn("Unparseable fallback provider output, returning safe default")
		verdict = &Verdict{
			IsSafe:        true,
			Confidence:    0.5,
			ViolationType: ViolationNone,
			Reasoning:     "parse failure",
		}
	}
	verdict.Provider = o.secondary.Name()
	return verdict, nil
}

// callProvider runs a single provider call bounded by the timeout policy
func (o *Orchestrator) callProvider(ctx context.Context, p Provider, content string) (*RawResult, *ProviderError) {
	result, err := failsafe.With(o.timeout).WithContext(ctx).GetWithExecution(
		func(exec failsafe.Execution[*RawResult]) (*RawResult, error) {
			return p.Moderate(exec.Context(), content)
		})
	if err != nil {
		if errors.Is(err, timeout.ErrExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &ProviderError{Provider: p.Name(), Timeout: true, Err: err}
		}
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}
	return result, nil
}

// normalizeClassification maps a classifier result into the verdict shape.
// The category with the highest score decides the outcome: if its flag is
// set the verdict is unsafe with that category's violation type and score;
// otherwise the verdict is safe with confidence equal to the highest score
// observed (zero when the provider returned no scores).
func normalizeClassification(raw *RawResult, provider string) *Verdict {
	cats := make([]string, 0, len(categoryViolations))
	for c := range categoryViolations {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	top := ""
	topScore := -1.0
	var triggered []string
	for _, c := range cats {
		score, ok := raw.Scores[c]
		if ok && score > topScore {
			top = c
			topScore = score
		}
		if raw.Categories[c] {
			triggered = append(triggered, fmt.Sprintf("%s (%.2f)", c, raw.Scores[c]))
		}
	}

	if top != "" && raw.Categories[top] {
		return &Verdict{
			IsSafe:        false,
			Confidence:    clamp01(topScore),
			ViolationType: categoryViolations[top],
			Reasoning:     "flagged categories: " + strings.Join(triggered, ", "),
			Provider:      provider,
		}
	}

	maxScore := 0.0
	if topScore > 0 {
		maxScore = topScore
	}
	reasoning := fmt.Sprintf("no violations detected (max category score %.2f)", maxScore)
	if top == "" {
		reasoning = "no violations detected (no category scores)"
	}
	return &Verdict{
		IsSafe:        true,
		Confidence:    clamp01(maxScore),
		ViolationType: ViolationNone,
		Reasoning:     reasoning,
		Provider:      provider,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
