package gooten

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
  "Products": [
    {
      "Id": "mug-11oz",
      "Sku": "Mug11oz",
      "Name": "11 oz Mug",
      "Description": "Ceramic mug.",
      "IsActive": true,
      "Categories": [{"Name": "Drinkware"}],
      "Images": [{"Id": "i1", "Url": "https://img.example/mug.png", "Index": 1}],
      "Variants": [
        {"Sku": "MUG-11-WHT", "Name": "White", "HasAvailableInventory": true,
         "PriceInfo": {"Price": 899, "CurrencyCode": "USD"}},
        {"Sku": "MUG-11-BLK", "Name": "Black", "HasAvailableInventory": false,
         "PriceInfo": {"Price": 949, "CurrencyCode": "USD"}}
      ],
      "PrintAreas": [
        {"Name": "wrap", "Technique": "sublimation", "MinDpi": 150, "MaxDpi": 300, "Width": 200, "Height": 90},
        {"Name": "handle", "Technique": "sublimation", "MinDpi": 120, "MaxDpi": 250, "Width": 40, "Height": 40}
      ],
      "ProductionTime": {"MinDays": 1, "MaxDays": 3}
    }
  ],
  "TotalCount": 12
}`

func newTestAdapter(t *testing.T, handler http.Handler) provider.Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(provider.Config{APIKey: "recipe-123", BaseURL: srv.URL, MaxRetries: 1})
	require.NoError(t, err)
	return p
}

func TestNew_RequiresRecipeID(t *testing.T) {
	_, err := New(provider.Config{})
	assert.ErrorContains(t, err, "recipe id")
}

func TestFetchBlueprints_AuthViaQueryParam(t *testing.T) {
	var gotRecipe string
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRecipe = r.URL.Query().Get("recipeid")
		w.Write([]byte(listFixture))
	}))

	res, err := p.FetchBlueprints(context.Background(), domain.SearchParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "recipe-123", gotRecipe)

	require.Len(t, res.Items, 1)
	bp := res.Items[0]
	assert.Equal(t, "mug-11oz", bp.ID)
	assert.Equal(t, "gooten", bp.ProviderID)
	assert.Equal(t, "Drinkware", bp.Category)
	assert.Equal(t, int64(899), bp.Pricing.Base.Amount)
	assert.Equal(t, domain.InStockSentinel, bp.Variants[0].Stock)
	assert.Equal(t, 0, bp.Variants[1].Stock)

	require.Len(t, bp.PrintingOptions, 1)
	sub := bp.PrintingOptions[0]
	assert.Equal(t, []string{"wrap", "handle"}, sub.Locations)
	assert.Equal(t, 120, sub.Constraints.MinDPI)
	assert.Equal(t, 300, sub.Constraints.MaxDPI)

	assert.Equal(t, 12, res.Total)
	assert.False(t, res.HasMore)
}

func TestFetchBlueprintDetails_NotFound(t *testing.T) {
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"Message":"unknown product"}`))
	}))

	_, err := p.FetchBlueprintDetails(context.Background(), "nope")
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "nope", nfErr.BlueprintID)
	assert.Equal(t, "gooten", nfErr.ProviderID)
}

func TestCheckAvailability(t *testing.T) {
	p := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shippingcountries", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	assert.True(t, p.CheckAvailability(context.Background()))
}
