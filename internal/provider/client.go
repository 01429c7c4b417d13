package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/catalog"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/httpclient"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// BaseClient is the shared HTTP plumbing for adapters: URL construction,
// default headers, an authorize hook, a per-provider circuit breaker,
// rate-limit snapshot tracking, and classification of non-2xx responses
// into the domain error taxonomy.
type BaseClient struct {
	def       catalog.Definition
	baseURL   string
	http      *httpclient.CircuitBreakerClient
	authorize func(req *http.Request)

	mu     sync.Mutex
	limits RateLimits
}

// NewBaseClient builds a client for the given provider definition. The
// authorize hook attaches credentials to each outgoing request; a nil hook
// sends requests unauthenticated.
func NewBaseClient(def catalog.Definition, cfg Config, authorize func(req *http.Request)) *BaseClient {
	hc := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	if cfg.MaxRetries > 0 {
		hc.MaxRetries = cfg.MaxRetries
	}

	baseURL := def.BaseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	cbCfg := httpclient.DefaultCircuitBreakerConfig("provider-" + def.ID)

	return &BaseClient{
		def:       def,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpclient.NewCircuitBreakerClient(httpclient.New(hc), cbCfg, slog.Default()),
		authorize: authorize,
		limits: RateLimits{
			RequestLimit: def.RateLimit.RequestsPerMinute,
			WindowSize:   time.Minute,
			Remaining:    def.RateLimit.RequestsPerMinute,
		},
	}
}

// BaseURL returns the effective base URL after config overrides.
func (c *BaseClient) BaseURL() string {
	return c.baseURL
}

// GetJSON issues a GET against path (relative to the base URL) and decodes a
// 2xx body into out. blueprintID, when known, names the resource for 404
// classification; pass "" for list endpoints.
func (c *BaseClient) GetJSON(ctx context.Context, path, blueprintID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.def.DefaultHeaders {
		req.Header.Set(k, v)
	}
	if c.authorize != nil {
		c.authorize(req)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			return &domain.ProviderUnavailableError{ProviderID: c.def.ID}
		}
		return &domain.NetworkError{
			ProviderID: c.def.ID,
			Err:        err,
			Retryable:  true,
		}
	}
	defer resp.Body.Close()

	c.observeRateLimits(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify(resp, path, blueprintID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ProviderAPIError{
			ProviderID: c.def.ID,
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    fmt.Sprintf("malformed response body: %v", err),
		}
	}
	return nil
}

// Probe issues a GET against path and reports whether it returned 2xx.
// All failures, transport or status, reduce to false.
func (c *BaseClient) Probe(ctx context.Context, path string) bool {
	err := c.GetJSON(ctx, path, "", nil)
	return err == nil
}

// Limits returns the last observed rate-limit snapshot.
func (c *BaseClient) Limits() RateLimits {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limits
}

// observeRateLimits folds X-RateLimit-* headers from the response into the
// cached snapshot. Responses without the headers leave it untouched.
func (c *BaseClient) observeRateLimits(resp *http.Response) {
	h := httpclient.ParseRateLimitHeaders(resp)
	if h.Empty() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if h.Limit != nil {
		c.limits.RequestLimit = *h.Limit
	}
	if h.Remaining != nil {
		c.limits.Remaining = *h.Remaining
	}
	if h.Reset != nil {
		c.limits.ResetAt = time.Unix(*h.Reset, 0).UTC()
	}
}

// classify maps a non-2xx response to the domain error taxonomy.
func (c *BaseClient) classify(resp *http.Response, endpoint, blueprintID string) error {
	msg := readErrorMessage(resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domain.AuthenticationError{ProviderID: c.def.ID}
	case http.StatusNotFound:
		return &domain.NotFoundError{BlueprintID: blueprintID, ProviderID: c.def.ID}
	case http.StatusTooManyRequests:
		return &domain.RateLimitError{
			ProviderAPIError: domain.ProviderAPIError{
				ProviderID: c.def.ID,
				StatusCode: resp.StatusCode,
				Endpoint:   endpoint,
				Message:    msg,
				Retryable:  true,
			},
			ResetAt: c.Limits().ResetAt,
		}
	default:
		return &domain.ProviderAPIError{
			ProviderID: c.def.ID,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    msg,
			Retryable:  resp.StatusCode >= 500,
		}
	}
}

// readErrorMessage extracts a human-readable message from an error body.
// Providers disagree on the field name, so several are tried before falling
// back to the raw body or the status text.
func readErrorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		for _, key := range []string{"message", "error", "Message", "ErrorMessage"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}

	s := strings.TrimSpace(string(body))
	if s == "" {
		return http.StatusText(resp.StatusCode)
	}
	return s
}
