package pagination

import (
	"net/http"
	"strconv"
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Page:   1,
		Limit:  20,
		Offset: 0,
	}
}

// FromRequest extracts pagination parameters from an HTTP request.
// Accepted query parameters are "page" (>= 1) and "limit" (1..100).
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= 100 {
			p.Limit = v
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// HasMore reports whether another page exists after the given page for the
// given total: page*limit < total.
func HasMore(page, limit, total int) bool {
	return page*limit < total
}

// Result wraps a paginated response.
type Result[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// NewResult creates a paginated result.
func NewResult[T any](items []T, total int, params Params) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:   items,
		Total:   total,
		Page:    params.Page,
		Limit:   params.Limit,
		HasMore: HasMore(params.Page, params.Limit, total),
	}
}
