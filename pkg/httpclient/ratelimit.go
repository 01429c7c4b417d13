package httpclient

import (
	"net/http"
	"strconv"
)

// RateLimitHeaders holds the values of the standard X-RateLimit-* response
// headers. A nil pointer field means the corresponding header was absent.
type RateLimitHeaders struct {
	Limit     *int
	Remaining *int
	Reset     *int64 // epoch seconds
}

// ParseRateLimitHeaders reads X-RateLimit-Limit, X-RateLimit-Remaining, and
// X-RateLimit-Reset from the response. Malformed values are treated as absent.
func ParseRateLimitHeaders(resp *http.Response) RateLimitHeaders {
	var h RateLimitHeaders

	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			h.Limit = &n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			h.Remaining = &n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			h.Reset = &n
		}
	}

	return h
}

// Empty reports whether none of the rate-limit headers were present.
func (h RateLimitHeaders) Empty() bool {
	return h.Limit == nil && h.Remaining == nil && h.Reset == nil
}
