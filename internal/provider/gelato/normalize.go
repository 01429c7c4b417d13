package gelato

import (
	"time"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/catalog"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
)

// Gelato wire shapes. Products are keyed by string uid, prices are objects
// in minor units, and print areas carry flat per-area DPI fields.

type listResponse struct {
	Products   []productRecord `json:"products"`
	TotalCount int             `json:"totalCount"`
}

type productRecord struct {
	UID         string            `json:"uid"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ProductType string            `json:"productType"`
	PreviewURL  string            `json:"previewUrl"`
	IsActive    bool              `json:"isActive"`
	Attributes  map[string]string `json:"attributes"`
	Variants    []variantRecord   `json:"variants"`
	PrintAreas  []printAreaRecord `json:"printAreas"`
	Production  productionRecord  `json:"productionDays"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type variantRecord struct {
	UID         string            `json:"uid"`
	Title       string            `json:"title"`
	Attributes  map[string]string `json:"attributes"`
	IsAvailable bool              `json:"isAvailable"`
	Price       priceRecord       `json:"price"`
}

type priceRecord struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type printAreaRecord struct {
	Name      string `json:"name"`
	Technique string `json:"technique"`
	MinDpi    int    `json:"minDpi"`
	MaxDpi    int    `json:"maxDpi"`
	WidthMm   int    `json:"widthMm"`
	HeightMm  int    `json:"heightMm"`
}

type productionRecord struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func normalize(rec productRecord) domain.Blueprint {
	variants := make([]domain.ProductVariant, 0, len(rec.Variants))
	var base domain.PriceInfo
	for _, v := range rec.Variants {
		stock := 0
		if v.IsAvailable {
			stock = domain.InStockSentinel
		}
		price := domain.PriceInfo{Amount: v.Price.Amount, Currency: v.Price.Currency}
		variants = append(variants, domain.ProductVariant{
			ID:         v.UID,
			SKU:        v.UID,
			Name:       v.Title,
			Attributes: v.Attributes,
			Stock:      stock,
			Price:      price,
		})
		if base.Currency == "" || price.Amount < base.Amount {
			base = price
		}
	}

	var images []domain.BlueprintImage
	if rec.PreviewURL != "" {
		images = append(images, domain.BlueprintImage{
			ID:       rec.UID,
			URL:      rec.PreviewURL,
			Position: 1,
			Type:     "preview",
		})
	}

	return domain.Blueprint{
		ID:              rec.UID,
		ProviderID:      catalog.Gelato,
		SKU:             rec.UID,
		Name:            rec.Title,
		Description:     rec.Description,
		Category:        rec.ProductType,
		Variants:        variants,
		PrintingOptions: groupPrintAreas(rec.PrintAreas),
		Images:          images,
		ProductionTime: domain.ProductionTime{
			Min:  rec.Production.Min,
			Max:  rec.Production.Max,
			Unit: "days",
		},
		Pricing: domain.Pricing{Base: base},
		Metadata: domain.BlueprintMetadata{
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
			IsActive:  rec.IsActive,
		},
	}
}

// groupPrintAreas folds areas into one printing option per technique with
// min-of-mins / max-of-maxes DPI aggregation.
func groupPrintAreas(areas []printAreaRecord) []domain.PrintingOption {
	var order []string
	byTechnique := make(map[string]*domain.PrintingOption)

	for _, area := range areas {
		opt, ok := byTechnique[area.Technique]
		if !ok {
			opt = &domain.PrintingOption{
				ID:        area.Technique,
				Technique: area.Technique,
				Constraints: domain.PrintingConstraints{
					MinDPI: area.MinDpi,
					MaxDPI: area.MaxDpi,
				},
			}
			byTechnique[area.Technique] = opt
			order = append(order, area.Technique)
		}

		opt.Locations = append(opt.Locations, area.Name)

		c := &opt.Constraints
		if area.MinDpi < c.MinDPI {
			c.MinDPI = area.MinDpi
		}
		if area.MaxDpi > c.MaxDPI {
			c.MaxDPI = area.MaxDpi
		}
		if area.WidthMm > c.Width {
			c.Width = area.WidthMm
		}
		if area.HeightMm > c.Height {
			c.Height = area.HeightMm
		}
	}

	opts := make([]domain.PrintingOption, 0, len(order))
	for _, technique := range order {
		opts = append(opts, *byTechnique[technique])
	}
	return opts
}
