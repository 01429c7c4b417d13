package printful

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/catalog"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
)

// Printful wire shapes. Records come wrapped in a result envelope, prices
// are decimal strings, and print constraints hang off techniques[].areas[].

type listResponse struct {
	Result []productRecord `json:"result"`
	Total  int             `json:"total"`
}

type detailResponse struct {
	Result productRecord `json:"result"`
}

type productRecord struct {
	ID          int               `json:"id"`
	Type        string            `json:"type"`
	TypeName    string            `json:"type_name"`
	Title       string            `json:"title"`
	Brand       string            `json:"brand"`
	Model       string            `json:"model"`
	Image       string            `json:"image"`
	Description string            `json:"description"`
	Currency    string            `json:"currency"`
	IsDiscont   bool              `json:"is_discontinued"`
	AvgFulfill  productionRecord  `json:"avg_fulfillment_time"`
	Techniques  []techniqueRecord `json:"techniques"`
	Variants    []variantRecord   `json:"variants"`
	Files       []fileRecord      `json:"files"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type techniqueRecord struct {
	Key         string       `json:"key"`
	DisplayName string       `json:"display_name"`
	IsDefault   bool         `json:"is_default"`
	Areas       []areaRecord `json:"areas"`
}

type areaRecord struct {
	Placement string `json:"placement"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	DPI       struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"dpi"`
}

type variantRecord struct {
	ID      int    `json:"id"`
	SKU     string `json:"sku"`
	Name    string `json:"name"`
	Size    string `json:"size"`
	Color   string `json:"color"`
	InStock bool   `json:"in_stock"`
	Price   string `json:"price"`
}

type fileRecord struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Options []string `json:"options"`
}

type productionRecord struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// normalize maps one native record into the shared model.
func normalize(rec productRecord) domain.Blueprint {
	currency := rec.Currency
	if currency == "" {
		currency = "USD"
	}

	variants := make([]domain.ProductVariant, 0, len(rec.Variants))
	var base domain.PriceInfo
	for _, v := range rec.Variants {
		stock := 0
		if v.InStock {
			stock = domain.InStockSentinel
		}
		price := domain.PriceInfo{Amount: parsePrice(v.Price), Currency: currency}

		attrs := map[string]string{}
		if v.Size != "" {
			attrs["size"] = v.Size
		}
		if v.Color != "" {
			attrs["color"] = v.Color
		}

		variants = append(variants, domain.ProductVariant{
			ID:         fmt.Sprint(v.ID),
			SKU:        v.SKU,
			Name:       v.Name,
			Attributes: attrs,
			Stock:      stock,
			Price:      price,
		})
		if base.Currency == "" || price.Amount < base.Amount {
			base = price
		}
	}

	var images []domain.BlueprintImage
	if rec.Image != "" {
		images = append(images, domain.BlueprintImage{
			ID:       fmt.Sprint(rec.ID),
			URL:      rec.Image,
			Position: 1,
			Type:     "preview",
		})
	}

	return domain.Blueprint{
		ID:              fmt.Sprint(rec.ID),
		ProviderID:      catalog.Printful,
		SKU:             rec.Model,
		Name:            rec.Title,
		Description:     rec.Description,
		Category:        rec.TypeName,
		Variants:        variants,
		PrintingOptions: normalizeTechniques(rec.Techniques),
		Images:          images,
		ProductionTime: domain.ProductionTime{
			Min:  rec.AvgFulfill.Min,
			Max:  rec.AvgFulfill.Max,
			Unit: "business_days",
		},
		Pricing: domain.Pricing{Base: base},
		Metadata: domain.BlueprintMetadata{
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
			IsActive:  !rec.IsDiscont,
		},
	}
}

// normalizeTechniques flattens each technique's areas into one printing
// option: placements become locations, DPI bounds aggregate as min of
// minimums and max of maximums, dimensions take the largest area.
func normalizeTechniques(techniques []techniqueRecord) []domain.PrintingOption {
	opts := make([]domain.PrintingOption, 0, len(techniques))
	for _, t := range techniques {
		opt := domain.PrintingOption{
			ID:        t.Key,
			Technique: t.Key,
		}
		for i, area := range t.Areas {
			opt.Locations = append(opt.Locations, area.Placement)
			c := &opt.Constraints
			if i == 0 || area.DPI.Min < c.MinDPI {
				c.MinDPI = area.DPI.Min
			}
			if area.DPI.Max > c.MaxDPI {
				c.MaxDPI = area.DPI.Max
			}
			if area.Width > c.Width {
				c.Width = area.Width
			}
			if area.Height > c.Height {
				c.Height = area.Height
			}
		}
		opts = append(opts, opt)
	}
	return opts
}

// parsePrice converts Printful's decimal price strings into minor units.
// Malformed values map to zero rather than failing the whole record.
func parsePrice(s string) int64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}
