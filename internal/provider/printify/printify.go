// Package printify adapts the Printify catalog API to the normalized
// blueprint model.
package printify

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

// Adapter implements provider.Provider for Printify.
type Adapter struct {
	def  catalog.Definition
	base *provider.BaseClient
}

// New constructs the adapter. The API key is required.
func New(cfg provider.Config) (provider.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("printify: api key is required")
	}
	def, ok := catalog.Get(catalog.Printify)
	if !ok {
		return nil, fmt.Errorf("printify: missing catalog definition")
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

// FetchBlueprints lists one catalog page. Printify paginates with limit/page
// query parameters and wraps records in {data, total}.
func (a *Adapter) FetchBlueprints(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	params.Normalize()

	q := url.Values{}
	q.Set("limit", fmt.Sprint(params.Limit))
	q.Set("page", fmt.Sprint(params.Page))

	var resp listResponse
	if err := a.base.GetJSON(ctx, a.def.Endpoints.Blueprints+"?"+q.Encode(), "", &resp); err != nil {
		return domain.SearchResult{}, err
	}

	items := make([]domain.Blueprint, 0, len(resp.Data))
	for _, rec := range resp.Data {
		items = append(items, normalize(rec))
	}

	return domain.SearchResult{
		Items:   items,
		Total:   resp.Total,
		Page:    params.Page,
		Limit:   params.Limit,
		HasMore: pagination.HasMore(params.Page, params.Limit, resp.Total),
	}, nil
}

// FetchBlueprintDetails returns one normalized blueprint.
func (a *Adapter) FetchBlueprintDetails(ctx context.Context, blueprintID string) (*domain.Blueprint, error) {
	path := fmt.Sprintf(a.def.Endpoints.Blueprint, url.PathEscape(blueprintID))

	var rec blueprintRecord
	if err := a.base.GetJSON(ctx, path, blueprintID, &rec); err != nil {
		return nil, err
	}

	bp := normalize(rec)
	return &bp, nil
}

// CheckAvailability probes the shops endpoint.
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
