package printify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider"
)

const listFixture = `{
  "data": [
    {
      "id": 384,
      "title": "Unisex Heavy Cotton Tee",
      "description": "Classic fit tee.",
      "brand": "Gildan",
      "model": "5000",
      "tags": ["t-shirt", "cotton"],
      "is_active": true,
      "images": [
        {"id": "img-2", "src": "https://img.example/2.png", "position": 2},
        {"id": "img-1", "src": "https://img.example/1.png", "position": 1, "type": "mockup"}
      ],
      "variants": [
        {"id": 101, "sku": "GIL-5000-S-BLK", "title": "S / Black",
         "options": {"size": "S", "color": "Black"},
         "is_available": true, "price": 1499, "currency": "USD"},
        {"id": 102, "sku": "GIL-5000-M-BLK", "title": "M / Black",
         "options": {"size": "M", "color": "Black"},
         "is_available": false, "price": 1299, "currency": "USD"}
      ],
      "print_areas": [
        {"id": "pa-1", "position": "front", "technique": "dtg",
         "constraints": {"dpi": {"min": 150, "max": 300}, "width": 300, "height": 400, "file_types": ["png"]}},
        {"id": "pa-2", "position": "back", "technique": "dtg",
         "constraints": {"dpi": {"min": 120, "max": 350}, "width": 280, "height": 380, "file_types": ["png", "jpg"]}},
        {"id": "pa-3", "position": "sleeve", "technique": "embroidery",
         "constraints": {"dpi": {"min": 200, "max": 200}, "width": 80, "height": 80}}
      ],
      "production_time": {"min": 2, "max": 5, "unit": "business_days"},
      "created_at": "2025-01-10T08:00:00Z",
      "updated_at": "2025-06-01T12:30:00Z"
    }
  ],
  "total": 57
}`

func newTestAdapter(t *testing.T, handler http.Handler) provider.Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(provider.Config{APIKey: "pfy-key", BaseURL: srv.URL, MaxRetries: 1})
	require.NoError(t, err)
	return p
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(provider.Config{})
	assert.ErrorContains(t, err, "api key")
}

func TestFetchBlueprints_Normalizes(t *testing.T) {
	var gotPath, gotAuth string
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(listFixture))
	}))

	res, err := p.FetchBlueprints(context.Background(), domain.SearchParams{Page: 3, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, "/catalog/blueprints?limit=20&page=3", gotPath)
	assert.Equal(t, "Bearer pfy-key", gotAuth)

	require.Len(t, res.Items, 1)
	bp := res.Items[0]
	assert.Equal(t, "384", bp.ID)
	assert.Equal(t, "printify", bp.ProviderID)
	assert.Equal(t, "t-shirt", bp.Category)

	// Every variant is preserved; availability becomes the stock sentinel.
	require.Len(t, bp.Variants, 2)
	assert.Equal(t, domain.InStockSentinel, bp.Variants[0].Stock)
	assert.Equal(t, 0, bp.Variants[1].Stock)
	assert.Equal(t, "S", bp.Variants[0].Attributes["size"])

	// Cheapest variant sets the base price even when it is out of stock.
	assert.Equal(t, int64(1299), bp.Pricing.Base.Amount)
	assert.Equal(t, "USD", bp.Pricing.Base.Currency)

	// Areas of one technique aggregate: min of mins, max of maxes.
	require.Len(t, bp.PrintingOptions, 2)
	dtg := bp.PrintingOptions[0]
	assert.Equal(t, "dtg", dtg.Technique)
	assert.Equal(t, []string{"front", "back"}, dtg.Locations)
	assert.Equal(t, 120, dtg.Constraints.MinDPI)
	assert.Equal(t, 350, dtg.Constraints.MaxDPI)
	assert.Equal(t, []string{"png", "jpg"}, dtg.Constraints.FileTypes)

	emb := bp.PrintingOptions[1]
	assert.Equal(t, "embroidery", emb.Technique)
	assert.Equal(t, []string{"sleeve"}, emb.Locations)

	assert.Equal(t, 3, bp.PrintAreaCount())
	assert.True(t, bp.Metadata.IsActive)
}

func TestFetchBlueprints_HasMore(t *testing.T) {
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listFixture))
	}))

	// total=57, limit=20: page 2 has more, page 3 does not.
	res, err := p.FetchBlueprints(context.Background(), domain.SearchParams{Page: 2, Limit: 20})
	require.NoError(t, err)
	assert.True(t, res.HasMore)
	assert.Equal(t, 57, res.Total)

	res, err = p.FetchBlueprints(context.Background(), domain.SearchParams{Page: 3, Limit: 20})
	require.NoError(t, err)
	assert.False(t, res.HasMore)
}

func TestFetchBlueprintDetails(t *testing.T) {
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog/blueprints/384" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"blueprint not found","blueprint_id":"999"}`))
			return
		}
		// Detail endpoint returns the bare record.
		w.Write([]byte(`{"id": 384, "title": "Unisex Heavy Cotton Tee", "is_active": true}`))
	}))

	bp, err := p.FetchBlueprintDetails(context.Background(), "384")
	require.NoError(t, err)
	assert.Equal(t, "384", bp.ID)
	assert.Equal(t, "Unisex Heavy Cotton Tee", bp.Name)

	_, err = p.FetchBlueprintDetails(context.Background(), "999")
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "999", nfErr.BlueprintID)
	assert.Equal(t, "printify", nfErr.ProviderID)
}

func TestCheckAvailability(t *testing.T) {
	up := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shops", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	assert.True(t, up.CheckAvailability(context.Background()))

	down := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	assert.False(t, down.CheckAvailability(context.Background()))
}

func TestValidateBlueprint(t *testing.T) {
	p, err := New(provider.Config{APIKey: "pfy-key"})
	require.NoError(t, err)

	bp := &domain.Blueprint{
		ID:         "384",
		ProviderID: "printful",
		Name:       "Tee",
		Variants: []domain.ProductVariant{
			{ID: "v1", Price: domain.PriceInfo{Amount: 1299, Currency: "USD"}},
		},
		PrintingOptions: []domain.PrintingOption{
			{Technique: "dtg", Locations: []string{"front"},
				Constraints: domain.PrintingConstraints{MinDPI: 150, MaxDPI: 300}},
		},
		Pricing: domain.Pricing{Base: domain.PriceInfo{Amount: 1299, Currency: "USD"}},
	}

	res, err := p.ValidateBlueprint(context.Background(), bp)
	require.NoError(t, err)
	assert.False(t, res.Valid, "foreign provider id must be rejected")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "provider_id", res.Errors[0].Field)

	bp.ProviderID = "printify"
	res, err = p.ValidateBlueprint(context.Background(), bp)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}
