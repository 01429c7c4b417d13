// Package gelato adapts the Gelato product API to the normalized blueprint
// model. Gelato authenticates with an X-API-KEY header and paginates with
// limit/offset.
package gelato

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

// Adapter implements provider.Provider for Gelato.
type Adapter struct {
	def  catalog.Definition
	base *provider.BaseClient
}

// New constructs the adapter. The API key is required.
func New(cfg provider.Config) (provider.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gelato: api key is required")
	}
	def, ok := catalog.Get(catalog.Gelato)
	if !ok {
		return nil, fmt.Errorf("gelato: missing catalog definition")
	}

	key := cfg.APIKey
	base := provider.NewBaseClient(def, cfg, func(req *http.Request) {
		req.Header.Set("X-API-KEY", key)
	})
	return &Adapter{def: def, base: base}, nil
}

func (a *Adapter) ID() string          { return a.def.ID }
func (a *Adapter) Name() string        { return a.def.Name }
func (a *Adapter) APIEndpoint() string { return a.base.BaseURL() }
func (a *Adapter) APIVersion() string  { return a.def.APIVersion }

// FetchBlueprints lists one catalog page via limit/offset.
func (a *Adapter) FetchBlueprints(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	params.Normalize()

	q := url.Values{}
	q.Set("limit", fmt.Sprint(params.Limit))
	q.Set("offset", fmt.Sprint((params.Page-1)*params.Limit))

	var resp listResponse
	if err := a.base.GetJSON(ctx, a.def.Endpoints.Blueprints+"?"+q.Encode(), "", &resp); err != nil {
		return domain.SearchResult{}, err
	}

	items := make([]domain.Blueprint, 0, len(resp.Products))
	for _, rec := range resp.Products {
		items = append(items, normalize(rec))
	}

	return domain.SearchResult{
		Items:   items,
		Total:   resp.TotalCount,
		Page:    params.Page,
		Limit:   params.Limit,
		HasMore: pagination.HasMore(params.Page, params.Limit, resp.TotalCount),
	}, nil
}

// FetchBlueprintDetails returns one normalized blueprint.
func (a *Adapter) FetchBlueprintDetails(ctx context.Context, blueprintID string) (*domain.Blueprint, error) {
	path := fmt.Sprintf(a.def.Endpoints.Blueprint, url.PathEscape(blueprintID))

	var rec productRecord
	if err := a.base.GetJSON(ctx, path, blueprintID, &rec); err != nil {
		return nil, err
	}

	bp := normalize(rec)
	return &bp, nil
}

// CheckAvailability probes the catalogs endpoint.
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
