package domain

// Sort orders accepted by SearchParams.SortBy.
const (
	SortByName      = "name"
	SortByPrice     = "price"
	SortByUpdatedAt = "updated_at"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// PriceRange bounds a search by base price in minor units. A zero Max means
// no upper bound.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// SearchParams is a provider-agnostic catalog query. An empty ProviderID
// means "all registered providers".
type SearchParams struct {
	Query      string      `json:"query,omitempty"`
	Category   string      `json:"category,omitempty"`
	ProviderID string      `json:"provider_id,omitempty"`
	PriceRange *PriceRange `json:"price_range,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Techniques []string    `json:"techniques,omitempty"`
	InStock    *bool       `json:"in_stock,omitempty"`

	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
}

// Normalize clamps pagination to sane bounds: page >= 1, 1 <= limit <= 100.
func (p *SearchParams) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// SearchResult is one page of blueprints from a single provider or a merged
// page across providers.
type SearchResult struct {
	Items   []Blueprint `json:"items"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	HasMore bool        `json:"has_more"`
}

// MergeResults combines per-provider pages into one. Items are concatenated
// in the order given (provider registration order), totals are summed, page
// and limit come from the first result, and HasMore is true if any input
// reports more. An empty input yields an empty result.
func MergeResults(results []SearchResult) SearchResult {
	merged := SearchResult{Items: []Blueprint{}}
	for i, r := range results {
		if i == 0 {
			merged.Page = r.Page
			merged.Limit = r.Limit
		}
		merged.Items = append(merged.Items, r.Items...)
		merged.Total += r.Total
		if r.HasMore {
			merged.HasMore = true
		}
	}
	return merged
}
