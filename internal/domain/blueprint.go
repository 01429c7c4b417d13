package domain

import "time"

// InStockSentinel is the stock figure assigned to variants whose provider
// only reports a boolean availability flag. It is an approximation, not a
// real inventory count; consumers must not treat it as one.
const InStockSentinel = 1_000_000

// PriceInfo is a monetary amount in minor units with an ISO 4217 currency code.
type PriceInfo struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// BulkPricingTier is a discounted price that applies from MinQuantity upward.
type BulkPricingTier struct {
	MinQuantity int       `json:"min_quantity"`
	Price       PriceInfo `json:"price"`
}

// Pricing holds the base price of a blueprint and optional bulk tiers.
type Pricing struct {
	Base PriceInfo         `json:"base"`
	Bulk []BulkPricingTier `json:"bulk,omitempty"`
}

// ProductVariant is one purchasable configuration of a blueprint
// (e.g., a specific size and color).
type ProductVariant struct {
	ID         string            `json:"id"`
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Stock      int               `json:"stock"`
	Price      PriceInfo         `json:"price"`
}

// PrintingConstraints describes the technical limits of a print area.
// Width and Height are in millimeters. DPI bounds are aggregated across all
// areas of a technique: min of minimums, max of maximums.
type PrintingConstraints struct {
	MinDPI    int      `json:"min_dpi"`
	MaxDPI    int      `json:"max_dpi"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	FileTypes []string `json:"file_types,omitempty"`
	Colors    []string `json:"colors,omitempty"`
}

// PrintingOption is a printing technique offered for a blueprint together
// with the locations it can be applied to and its aggregated constraints.
type PrintingOption struct {
	ID          string              `json:"id"`
	Technique   string              `json:"technique"`
	Locations   []string            `json:"locations"`
	Constraints PrintingConstraints `json:"constraints"`
}

// BlueprintImage is a product mockup or detail photo. Position defines the
// display order; positions need not be unique but render order follows them.
type BlueprintImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
	Type     string `json:"type,omitempty"`
}

// ProductionTime is the provider's fulfillment estimate.
type ProductionTime struct {
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	Unit string `json:"unit"`
}

// BlueprintMetadata carries provider-side bookkeeping for a blueprint.
type BlueprintMetadata struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
	Tags      []string  `json:"tags,omitempty"`
}

// Blueprint is the provider-agnostic representation of one sellable product
// template. It is constructed fresh on every adapter fetch and is read-only
// to consumers; the normalized form is never persisted.
type Blueprint struct {
	ID          string `json:"id"`
	ProviderID  string `json:"provider_id"`
	SKU         string `json:"sku,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`

	Variants        []ProductVariant  `json:"variants"`
	PrintingOptions []PrintingOption  `json:"printing_options"`
	Images          []BlueprintImage  `json:"images"`
	ProductionTime  ProductionTime    `json:"production_time"`
	Pricing         Pricing           `json:"pricing"`
	Metadata        BlueprintMetadata `json:"metadata"`
}

// BlueprintRef is the slim view of a blueprint used by tier validation and
// selection accounting: identity plus the two counted dimensions.
type BlueprintRef struct {
	BlueprintID string `json:"blueprint_id"`
	ProviderID  string `json:"provider_id"`
	Type        string `json:"type,omitempty"`
	PrintAreas  int    `json:"print_areas"`
	Variants    int    `json:"variants"`
}

// Ref derives the slim validation view from a full blueprint.
func (b *Blueprint) Ref() BlueprintRef {
	return BlueprintRef{
		BlueprintID: b.ID,
		ProviderID:  b.ProviderID,
		Type:        b.Category,
		PrintAreas:  b.PrintAreaCount(),
		Variants:    len(b.Variants),
	}
}

// PrintAreaCount returns the number of distinct print locations across all
// printing options.
func (b *Blueprint) PrintAreaCount() int {
	seen := make(map[string]struct{})
	for _, opt := range b.PrintingOptions {
		for _, loc := range opt.Locations {
			seen[loc] = struct{}{}
		}
	}
	return len(seen)
}
