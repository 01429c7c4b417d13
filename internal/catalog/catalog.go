// Package catalog holds the static definition of every supported print
// provider: identity, endpoints, default rate limits, and feature support.
// Adding a provider means adding a row here and an adapter implementing the
// provider contract; no dispatch logic changes.
package catalog

import "sort"

// Endpoints are the path templates of a provider's endpoint families,
// relative to the base URL.
type Endpoints struct {
	Blueprints   string // catalog listing
	Blueprint    string // single blueprint, with %s for the id
	Availability string // known-cheap endpoint for reachability probes
}

// RateLimit is a provider's published request budget.
type RateLimit struct {
	RequestsPerMinute int
	Burst             int
}

// Features flags what a provider's API supports.
type Features struct {
	Webhooks        bool
	BulkOperations  bool
	VariantGrouping bool
	CustomPricing   bool
	StockTracking   bool
}

// Definition is the static record for one provider.
type Definition struct {
	ID             string
	Name           string
	Description    string
	APIVersion     string
	BaseURL        string
	Endpoints      Endpoints
	DefaultHeaders map[string]string
	RateLimit      RateLimit
	Features       Features
}

// Provider ids. These are the only values accepted by the adapter registry.
const (
	Printify = "printify"
	Printful = "printful"
	Gooten   = "gooten"
	Gelato   = "gelato"
)

var definitions = map[string]Definition{
	Printify: {
		ID:          Printify,
		Name:        "Printify",
		Description: "Print-on-demand network with a large multi-vendor catalog.",
		APIVersion:  "v1",
		BaseURL:     "https://api.printify.com/v1",
		Endpoints: Endpoints{
			Blueprints:   "/catalog/blueprints",
			Blueprint:    "/catalog/blueprints/%s",
			Availability: "/shops",
		},
		DefaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		RateLimit: RateLimit{RequestsPerMinute: 600, Burst: 100},
		Features: Features{
			Webhooks:        true,
			BulkOperations:  true,
			VariantGrouping: true,
			CustomPricing:   true,
			StockTracking:   false,
		},
	},
	Printful: {
		ID:          Printful,
		Name:        "Printful",
		Description: "In-house print-on-demand fulfillment with warehousing.",
		APIVersion:  "v2",
		BaseURL:     "https://api.printful.com",
		Endpoints: Endpoints{
			Blueprints:   "/products",
			Blueprint:    "/products/%s",
			Availability: "/store",
		},
		DefaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		RateLimit: RateLimit{RequestsPerMinute: 120, Burst: 30},
		Features: Features{
			Webhooks:        true,
			BulkOperations:  false,
			VariantGrouping: true,
			CustomPricing:   false,
			StockTracking:   true,
		},
	},
	Gooten: {
		ID:          Gooten,
		Name:        "Gooten",
		Description: "Print-on-demand manufacturing and logistics network.",
		APIVersion:  "v5",
		BaseURL:     "https://api.gooten.com/v/5",
		Endpoints: Endpoints{
			Blueprints:   "/products",
			Blueprint:    "/products/%s",
			Availability: "/shippingcountries",
		},
		DefaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		RateLimit: RateLimit{RequestsPerMinute: 300},
		Features: Features{
			Webhooks:       true,
			BulkOperations: true,
		},
	},
	Gelato: {
		ID:          Gelato,
		Name:        "Gelato",
		Description: "Globally distributed local production network.",
		APIVersion:  "v3",
		BaseURL:     "https://product.gelatoapis.com/v3",
		Endpoints: Endpoints{
			Blueprints:   "/products",
			Blueprint:    "/products/%s",
			Availability: "/catalogs",
		},
		DefaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		RateLimit: RateLimit{RequestsPerMinute: 180},
		Features: Features{
			Webhooks:        true,
			VariantGrouping: true,
		},
	},
}

// Get returns the static definition for the given provider id.
func Get(id string) (Definition, bool) {
	def, ok := definitions[id]
	return def, ok
}

// IDs returns all known provider ids in lexical order.
func IDs() []string {
	ids := make([]string, 0, len(definitions))
	for id := range definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
