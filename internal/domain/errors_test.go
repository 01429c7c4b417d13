package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "network error retryable",
			err:  &NetworkError{ProviderID: "printify", Err: errors.New("dial tcp: timeout"), Retryable: true},
			want: true,
		},
		{
			name: "network error not retryable",
			err:  &NetworkError{ProviderID: "printify", Err: errors.New("bad url")},
			want: false,
		},
		{
			name: "rate limit always retryable",
			err: &RateLimitError{
				ProviderAPIError: ProviderAPIError{ProviderID: "printful", StatusCode: 429},
				ResetAt:          time.Now().Add(time.Minute),
			},
			want: true,
		},
		{
			name: "server error retryable",
			err:  &ProviderAPIError{ProviderID: "gooten", StatusCode: 503, Retryable: true},
			want: true,
		},
		{
			name: "client error not retryable",
			err:  &ProviderAPIError{ProviderID: "gooten", StatusCode: 422},
			want: false,
		},
		{
			name: "authentication not retryable",
			err:  &AuthenticationError{ProviderID: "gelato"},
			want: false,
		},
		{
			name: "wrapped errors unwrap",
			err:  fmt.Errorf("fetch: %w", &ProviderAPIError{ProviderID: "printify", StatusCode: 500, Retryable: true}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	reset := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)

	authMsg := UserMessage(&AuthenticationError{ProviderID: "printify"})
	assert.Contains(t, authMsg, "printify")
	assert.Contains(t, authMsg, "API key")

	rlMsg := UserMessage(&RateLimitError{
		ProviderAPIError: ProviderAPIError{ProviderID: "printful", StatusCode: 429},
		ResetAt:          reset,
	})
	assert.Contains(t, rlMsg, "printful")
	assert.Contains(t, rlMsg, "Retry after")

	nfMsg := UserMessage(&NotFoundError{BlueprintID: "bp-1", ProviderID: "gooten"})
	assert.Contains(t, nfMsg, "bp-1")
	assert.Contains(t, nfMsg, "gooten")

	genericMsg := UserMessage(errors.New("boom"))
	assert.Contains(t, genericMsg, "Something went wrong")
}

func TestValidationError_JoinsFields(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "id", Message: "id is required"},
		{Field: "variants", Message: "at least one variant is required"},
	}}

	assert.Contains(t, err.Error(), "id: id is required")
	assert.Contains(t, err.Error(), "variants: at least one variant is required")
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{ProviderID: "gelato", Err: cause, Retryable: true}

	assert.ErrorIs(t, err, cause)
}
