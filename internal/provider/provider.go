// Package provider defines the contract every print-provider adapter
// implements, the registry that constructs adapters by id, and a shared base
// client handling auth headers, retries, rate-limit tracking, and error
// classification. Adapters translate one provider's wire format into the
// normalized domain model and nothing else.
package provider

import (
	"context"
	"time"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
)

// Config holds per-provider credentials and tuning. BaseURL overrides the
// catalog default, which is what tests point at a local server.
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	Environment   string
	WebhookSecret string
}

// RateLimits is a snapshot of a provider's request budget as last observed
// from response headers. Remaining and ResetAt are zero until the first
// response carrying rate-limit headers arrives.
type RateLimits struct {
	RequestLimit int           `json:"request_limit"`
	WindowSize   time.Duration `json:"window_size"`
	Remaining    int           `json:"remaining"`
	ResetAt      time.Time     `json:"reset_at"`
}

// ValidationResult is the outcome of checking a blueprint's shape against a
// provider's technical requirements.
type ValidationResult struct {
	Valid  bool                `json:"valid"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

// Provider is a print-provider adapter. Implementations are safe for
// concurrent use.
type Provider interface {
	ID() string
	Name() string
	APIEndpoint() string
	APIVersion() string

	// FetchBlueprints returns one normalized catalog page.
	FetchBlueprints(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error)

	// FetchBlueprintDetails returns one blueprint with full variant,
	// printing-option, and pricing data.
	FetchBlueprintDetails(ctx context.Context, blueprintID string) (*domain.Blueprint, error)

	// CheckAvailability probes a cheap endpoint and reports reachability.
	// It never returns an error; any failure means false.
	CheckAvailability(ctx context.Context) bool

	// RateLimits returns the last observed rate-limit snapshot.
	RateLimits() RateLimits

	// ValidateBlueprint checks the blueprint against provider requirements.
	ValidateBlueprint(ctx context.Context, bp *domain.Blueprint) (*ValidationResult, error)
}

// Factory constructs an adapter from its config.
type Factory func(cfg Config) (Provider, error)
