package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/vizzylabs/creator-platform/pkg/config"
)

// RawResult is the unnormalized output of a single provider call.
// Classifier-style providers fill Flagged/Categories/Scores; completion-style
// providers return free-form Text that the orchestrator parses.
type RawResult struct {
	Flagged    bool
	Categories map[string]bool
	Scores     map[string]float64
	Text       string
}

// Provider is the capability interface for moderation backends.
type Provider interface {
	Name() string
	Moderate(ctx context.Context, content string) (*RawResult, error)
}

// Config holds provider configuration
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	APIURL    string
	MaxTokens int
}

// LoadPrimaryConfig loads the primary provider configuration from
// MODERATION_PRIMARY_* env vars.
func LoadPrimaryConfig() Config {
	return Config{
		Provider: config.GetEnv("MODERATION_PRIMARY_PROVIDER", "openai"),
		Model:    config.GetEnv("MODERATION_PRIMARY_MODEL", ""),
		APIKey:   config.GetEnv("MODERATION_PRIMARY_API_KEY", ""),
		APIURL:   config.GetEnv("MODERATION_PRIMARY_API_URL", ""),
	}
}

// LoadSecondaryConfig loads the fallback provider configuration from
// MODERATION_SECONDARY_* env vars.
func LoadSecondaryConfig() Config {
	return Config{
		Provider:  config.GetEnv("MODERATION_SECONDARY_PROVIDER", "anthropic"),
		Model:     config.GetEnv("MODERATION_SECONDARY_MODEL", ""),
		APIKey:    config.GetEnv("MODERATION_SECONDARY_API_KEY", ""),
		APIURL:    config.GetEnv("MODERATION_SECONDARY_API_URL", ""),
		MaxTokens: config.GetEnvInt("MODERATION_SECONDARY_MAX_TOKENS", 0),
	}
}

// NewProvider builds a provider from its configuration. The mock variants
// serve local development and tests without real API keys.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	case "anthropic":
		return NewAnthropicProvider(cfg), nil
	case "mock-primary":
		return NewMockPrimary(), nil
	case "mock-secondary":
		return NewMockSecondary(), nil
	default:
		return nil, fmt.Errorf("unknown moderation provider %q", cfg.Provider)
	}
}
