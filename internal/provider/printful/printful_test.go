package printful

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
  "result": [
    {
      "id": 71,
      "type": "T-SHIRT",
      "type_name": "T-Shirt",
      "title": "Bella + Canvas 3001",
      "brand": "Bella + Canvas",
      "model": "3001",
      "image": "https://img.example/3001.png",
      "currency": "USD",
      "avg_fulfillment_time": {"min": 2, "max": 7},
      "techniques": [
        {
          "key": "dtg",
          "display_name": "DTG printing",
          "is_default": true,
          "areas": [
            {"placement": "front", "width": 300, "height": 400, "dpi": {"min": 150, "max": 300}},
            {"placement": "back", "width": 280, "height": 380, "dpi": {"min": 100, "max": 360}}
          ]
        }
      ],
      "variants": [
        {"id": 4011, "sku": "BC3001-S-WHT", "name": "S / White", "size": "S", "color": "White",
         "in_stock": true, "price": "13.25"},
        {"id": 4012, "sku": "BC3001-M-WHT", "name": "M / White", "size": "M", "color": "White",
         "in_stock": false, "price": "12.50"}
      ]
    },
    {"id": 72, "type_name": "Mug", "title": "White Glossy Mug", "currency": "USD",
     "variants": [{"id": 5001, "name": "11oz", "in_stock": true, "price": "8.95"}]}
  ],
  "total": 57
}`

func newTestAdapter(t *testing.T, handler http.Handler) provider.Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(provider.Config{APIKey: "pf-key", BaseURL: srv.URL, MaxRetries: 1})
	require.NoError(t, err)
	return p
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(provider.Config{})
	assert.ErrorContains(t, err, "api key")
}

func TestFetchBlueprints_Normalizes(t *testing.T) {
	var gotAuth string
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte(listFixture))
	}))

	res, err := p.FetchBlueprints(context.Background(), domain.SearchParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "Bearer pf-key", gotAuth)

	require.Len(t, res.Items, 2)
	bp := res.Items[0]
	assert.Equal(t, "71", bp.ID)
	assert.Equal(t, "printful", bp.ProviderID)
	assert.Equal(t, "T-Shirt", bp.Category)

	// Decimal string prices land in minor units; cheapest variant is base.
	require.Len(t, bp.Variants, 2)
	assert.Equal(t, int64(1325), bp.Variants[0].Price.Amount)
	assert.Equal(t, domain.InStockSentinel, bp.Variants[0].Stock)
	assert.Equal(t, 0, bp.Variants[1].Stock)
	assert.Equal(t, int64(1250), bp.Pricing.Base.Amount)

	// Technique areas aggregate into one printing option.
	require.Len(t, bp.PrintingOptions, 1)
	dtg := bp.PrintingOptions[0]
	assert.Equal(t, []string{"front", "back"}, dtg.Locations)
	assert.Equal(t, 100, dtg.Constraints.MinDPI)
	assert.Equal(t, 360, dtg.Constraints.MaxDPI)
	assert.Equal(t, 300, dtg.Constraints.Width)
	assert.Equal(t, 400, dtg.Constraints.Height)
}

func TestFetchBlueprints_LocalPageWindow(t *testing.T) {
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listFixture))
	}))

	res, err := p.FetchBlueprints(context.Background(), domain.SearchParams{Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "71", res.Items[0].ID)
	assert.Equal(t, 57, res.Total)
	assert.True(t, res.HasMore)

	res, err = p.FetchBlueprints(context.Background(), domain.SearchParams{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "72", res.Items[0].ID)

	// Past the fetched window: empty page, HasMore still from total.
	res, err = p.FetchBlueprints(context.Background(), domain.SearchParams{Page: 5, Limit: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.True(t, res.HasMore)
}

func TestFetchBlueprintDetails(t *testing.T) {
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/71" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"product not found","product_id":"999"}`))
			return
		}
		w.Write([]byte(`{"result": {"id": 71, "title": "Bella + Canvas 3001", "currency": "USD"}}`))
	}))

	bp, err := p.FetchBlueprintDetails(context.Background(), "71")
	require.NoError(t, err)
	assert.Equal(t, "71", bp.ID)

	_, err = p.FetchBlueprintDetails(context.Background(), "999")
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "999", nfErr.BlueprintID)
	assert.Equal(t, "printful", nfErr.ProviderID)
}

func TestCheckAvailability(t *testing.T) {
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/store", r.URL.Path)
		w.Write([]byte(`{"result":{}}`))
	}))
	assert.True(t, p.CheckAvailability(context.Background()))
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, int64(1325), parsePrice("13.25"))
	assert.Equal(t, int64(800), parsePrice("8"))
	assert.Equal(t, int64(895), parsePrice("8.95"))
	assert.Equal(t, int64(0), parsePrice("free"))
}
