// Package printful adapts the Printful product API to the normalized
// blueprint model.
package printful

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/catalog"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/pagination"
)

// Adapter implements provider.Provider for Printful.
type Adapter struct {
	def  catalog.Definition
	base *provider.BaseClient
}

// New constructs the adapter. The API key is required.
func New(cfg provider.Config) (provider.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("printful: api key is required")
	}
	def, ok := catalog.Get(catalog.Printful)
	if !ok {
		return nil, fmt.Errorf("printful: missing catalog definition")
	}

	key := cfg.APIKey
	base := provider.NewBaseClient(def, cfg, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+key)
	})
	return &Adapter{def: def, base: base}, nil
}

func (a *Adapter) ID() string          { return a.def.ID }
func (a *Adapter) Name() string        { return a.def.Name }
func (a *Adapter) APIEndpoint() string { return a.base.BaseURL() }
func (a *Adapter) APIVersion() string  { return a.def.APIVersion }

// FetchBlueprints lists the product catalog. Printful does not paginate this
// endpoint server-side; the page window is applied locally and HasMore is
// computed against the reported total.
func (a *Adapter) FetchBlueprints(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	params.Normalize()

	var resp listResponse
	if err := a.base.GetJSON(ctx, a.def.Endpoints.Blueprints, "", &resp); err != nil {
		return domain.SearchResult{}, err
	}

	total := resp.Total
	if total == 0 {
		total = len(resp.Result)
	}

	start := (params.Page - 1) * params.Limit
	end := start + params.Limit
	if start > len(resp.Result) {
		start = len(resp.Result)
	}
	if end > len(resp.Result) {
		end = len(resp.Result)
	}

	items := make([]domain.Blueprint, 0, end-start)
	for _, rec := range resp.Result[start:end] {
		items = append(items, normalize(rec))
	}

	return domain.SearchResult{
		Items:   items,
		Total:   total,
		Page:    params.Page,
		Limit:   params.Limit,
		HasMore: pagination.HasMore(params.Page, params.Limit, total),
	}, nil
}

// FetchBlueprintDetails returns one normalized blueprint. Printful wraps the
// record in {result: {...}}.
func (a *Adapter) FetchBlueprintDetails(ctx context.Context, blueprintID string) (*domain.Blueprint, error) {
	path := fmt.Sprintf(a.def.Endpoints.Blueprint, url.PathEscape(blueprintID))

	var resp detailResponse
	if err := a.base.GetJSON(ctx, path, blueprintID, &resp); err != nil {
		return nil, err
	}

	bp := normalize(resp.Result)
	return &bp, nil
}

// CheckAvailability probes the store endpoint.
func (a *Adapter) CheckAvailability(ctx context.Context) bool {
	return a.base.Probe(ctx, a.def.Endpoints.Availability)
}

// RateLimits returns the last observed snapshot.
func (a *Adapter) RateLimits() provider.RateLimits {
	return a.base.Limits()
}

// ValidateBlueprint runs local shape validation. No network calls.
func (a *Adapter) ValidateBlueprint(_ context.Context, bp *domain.Blueprint) (*provider.ValidationResult, error) {
	errs := provider.ValidateShape(bp)
	if bp.ProviderID != "" && bp.ProviderID != a.def.ID {
		errs = append(errs, domain.FieldError{
			Field:   "provider_id",
			Message: fmt.Sprintf("must be %q", a.def.ID),
		})
	}
	return &provider.ValidationResult{Valid: len(errs) == 0, Errors: errs}, nil
}
