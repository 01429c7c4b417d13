package gooten

import (
	"time"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/catalog"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
)

// Gooten wire shapes. Fields are PascalCase, prices are already minor units,
// and print areas carry flat Min/MaxDpi fields per area.

type listResponse struct {
	Products   []productRecord `json:"Products"`
	TotalCount int             `json:"TotalCount"`
}

type productRecord struct {
	ID          string            `json:"Id"`
	SKU         string            `json:"Sku"`
	Name        string            `json:"Name"`
	Description string            `json:"Description"`
	IsActive    bool              `json:"IsActive"`
	Categories  []categoryRecord  `json:"Categories"`
	Images      []imageRecord     `json:"Images"`
	Variants    []variantRecord   `json:"Variants"`
	PrintAreas  []printAreaRecord `json:"PrintAreas"`
	Production  productionRecord  `json:"ProductionTime"`
	CreatedAt   time.Time         `json:"CreatedAt"`
	UpdatedAt   time.Time         `json:"UpdatedAt"`
}

type categoryRecord struct {
	Name string `json:"Name"`
}

type imageRecord struct {
	ID    string `json:"Id"`
	URL   string `json:"Url"`
	Index int    `json:"Index"`
}

type variantRecord struct {
	SKU       string            `json:"Sku"`
	Name      string            `json:"Name"`
	HasStock  bool              `json:"HasAvailableInventory"`
	Options   map[string]string `json:"Options"`
	PriceInfo priceRecord       `json:"PriceInfo"`
}

type priceRecord struct {
	Price        int64  `json:"Price"`
	CurrencyCode string `json:"CurrencyCode"`
}

type printAreaRecord struct {
	Name      string `json:"Name"`
	Technique string `json:"Technique"`
	MinDpi    int    `json:"MinDpi"`
	MaxDpi    int    `json:"MaxDpi"`
	Width     int    `json:"Width"`
	Height    int    `json:"Height"`
}

type productionRecord struct {
	MinDays int `json:"MinDays"`
	MaxDays int `json:"MaxDays"`
}

func normalize(rec productRecord) domain.Blueprint {
	variants := make([]domain.ProductVariant, 0, len(rec.Variants))
	var base domain.PriceInfo
	for _, v := range rec.Variants {
		stock := 0
		if v.HasStock {
			stock = domain.InStockSentinel
		}
		price := domain.PriceInfo{Amount: v.PriceInfo.Price, Currency: v.PriceInfo.CurrencyCode}
		variants = append(variants, domain.ProductVariant{
			ID:         v.SKU,
			SKU:        v.SKU,
			Name:       v.Name,
			Attributes: v.Options,
			Stock:      stock,
			Price:      price,
		})
		if base.Currency == "" || price.Amount < base.Amount {
			base = price
		}
	}

	images := make([]domain.BlueprintImage, 0, len(rec.Images))
	for _, img := range rec.Images {
		images = append(images, domain.BlueprintImage{
			ID:       img.ID,
			URL:      img.URL,
			Position: img.Index,
		})
	}

	category := ""
	if len(rec.Categories) > 0 {
		category = rec.Categories[0].Name
	}

	return domain.Blueprint{
		ID:              rec.ID,
		ProviderID:      catalog.Gooten,
		SKU:             rec.SKU,
		Name:            rec.Name,
		Description:     rec.Description,
		Category:        category,
		Variants:        variants,
		PrintingOptions: groupPrintAreas(rec.PrintAreas),
		Images:          images,
		ProductionTime: domain.ProductionTime{
			Min:  rec.Production.MinDays,
			Max:  rec.Production.MaxDays,
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
		if area.Width > c.Width {
			c.Width = area.Width
		}
		if area.Height > c.Height {
			c.Height = area.Height
		}
	}

	opts := make([]domain.PrintingOption, 0, len(order))
	for _, technique := range order {
		opts = append(opts, *byTechnique[technique])
	}
	return opts
}
