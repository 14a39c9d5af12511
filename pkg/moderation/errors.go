package moderation

import "fmt"

// ValidationError reports a malformed request field. The HTTP boundary maps
// it to a 4xx response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// ProviderError wraps a failed provider call. Timeout distinguishes deadline
// expiry from other call failures; both recover locally via fallback.
type ProviderError struct {
	Provider string
	Timeout  bool
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("provider %s timed out", e.Provider)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// BothProvidersFailedError is returned when the primary and the fallback
// provider both error or time out. It is fatal to the call.
type BothProvidersFailedError struct {
	Primary   *ProviderError
	Secondary *ProviderError
}

func (e *BothProvidersFailedError) Error() string {
	return fmt.Sprintf("both moderation providers failed: primary: %v; secondary: %v", e.Primary, e.Secondary)
}
