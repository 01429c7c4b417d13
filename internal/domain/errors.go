package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldError is one field-level problem found during blueprint validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports that a blueprint failed local shape validation.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "blueprint validation failed: " + strings.Join(msgs, "; ")
}

// ProviderAPIError is a non-2xx response from a provider API that does not
// map to a more specific error kind. Retryable is true for 5xx statuses.
type ProviderAPIError struct {
	ProviderID string
	StatusCode int
	Endpoint   string
	Message    string
	Retryable  bool
}

func (e *ProviderAPIError) Error() string {
	return fmt.Sprintf("provider %s: %s returned status %d: %s",
		e.ProviderID, e.Endpoint, e.StatusCode, e.Message)
}

// RateLimitError reports provider backpressure. ResetAt is the time the
// provider's rate-limit window is expected to reset, taken from the
// adapter's cached rate-limit snapshot.
type RateLimitError struct {
	ProviderAPIError
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("provider %s: rate limit exceeded, resets at %s",
		e.ProviderID, e.ResetAt.UTC().Format(time.RFC3339))
}

// NotFoundError reports that a referenced blueprint does not exist on the
// provider side.
type NotFoundError struct {
	BlueprintID string
	ProviderID  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("blueprint %s not found on provider %s", e.BlueprintID, e.ProviderID)
}

// AuthenticationError reports bad or expired provider credentials.
type AuthenticationError struct {
	ProviderID string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for provider %s", e.ProviderID)
}

// ProviderUnavailableError reports that a provider's availability probe
// failed or the provider explicitly reported itself down.
type ProviderUnavailableError struct {
	ProviderID string
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %s is currently unavailable", e.ProviderID)
}

// NetworkError is a transport-level failure (connectivity, timeout).
// Retryable by default.
type NetworkError struct {
	ProviderID string
	Err        error
	Retryable  bool
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling provider %s: %v", e.ProviderID, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the given error represents a failure that an
// idempotent caller may retry.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Retryable
	}
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return true
	}
	var apiErr *ProviderAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}

// UserMessage maps an error to a message suitable for direct display.
// Authentication, rate-limit, and availability failures get distinct,
// specific messages; anything else falls back to a generic one.
func UserMessage(err error) string {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return fmt.Sprintf("Authentication failed for provider %s. Check the configured API key.", authErr.ProviderID)
	}
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return fmt.Sprintf("Rate limit exceeded for provider %s. Retry after %s.",
			rlErr.ProviderID, rlErr.ResetAt.UTC().Format(time.RFC1123))
	}
	var unavailErr *ProviderUnavailableError
	if errors.As(err, &unavailErr) {
		return fmt.Sprintf("Provider %s is currently unavailable.", unavailErr.ProviderID)
	}
	var nfErr *NotFoundError
	if errors.As(err, &nfErr) {
		return fmt.Sprintf("Blueprint %s was not found on provider %s.", nfErr.BlueprintID, nfErr.ProviderID)
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return fmt.Sprintf("Could not reach provider %s. Try again shortly.", netErr.ProviderID)
	}
	return "Something went wrong while talking to the print providers."
}
