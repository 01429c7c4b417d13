package printify

import (
	"fmt"
	"time"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/catalog"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
)

// Printify wire shapes. Identifiers are numeric, prices are in cents, and
// print areas carry their technique inline with per-area DPI constraints.

type listResponse struct {
	Data  []blueprintRecord `json:"data"`
	Total int               `json:"total"`
}

type blueprintRecord struct {
	ID          int               `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Brand       string            `json:"brand"`
	Model       string            `json:"model"`
	Tags        []string          `json:"tags"`
	IsActive    bool              `json:"is_active"`
	Images      []imageRecord     `json:"images"`
	Variants    []variantRecord   `json:"variants"`
	PrintAreas  []printAreaRecord `json:"print_areas"`
	Production  productionRecord  `json:"production_time"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type imageRecord struct {
	ID       string `json:"id"`
	Src      string `json:"src"`
	Position int    `json:"position"`
	Type     string `json:"type"`
}

type variantRecord struct {
	ID          int               `json:"id"`
	SKU         string            `json:"sku"`
	Title       string            `json:"title"`
	Options     map[string]string `json:"options"`
	IsAvailable bool              `json:"is_available"`
	Price       int64             `json:"price"`
	Currency    string            `json:"currency"`
}

type printAreaRecord struct {
	ID          string           `json:"id"`
	Position    string           `json:"position"`
	Technique   string           `json:"technique"`
	Constraints constraintRecord `json:"constraints"`
}

type constraintRecord struct {
	DPI struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"dpi"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	FileTypes []string `json:"file_types"`
	Colors    []string `json:"colors"`
}

type productionRecord struct {
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	Unit string `json:"unit"`
}

// normalize maps one native record into the shared model. Availability flags
// become the stock sentinel, the cheapest variant sets the base price, and
// print areas are grouped by technique with DPI bounds aggregated across the
// technique's areas.
func normalize(rec blueprintRecord) domain.Blueprint {
	variants := make([]domain.ProductVariant, 0, len(rec.Variants))
	var base domain.PriceInfo
	for _, v := range rec.Variants {
		stock := 0
		if v.IsAvailable {
			stock = domain.InStockSentinel
		}
		price := domain.PriceInfo{Amount: v.Price, Currency: v.Currency}
		variants = append(variants, domain.ProductVariant{
			ID:         fmt.Sprint(v.ID),
			SKU:        v.SKU,
			Name:       v.Title,
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
			URL:      img.Src,
			Position: img.Position,
			Type:     img.Type,
		})
	}

	category := ""
	if len(rec.Tags) > 0 {
		category = rec.Tags[0]
	}

	return domain.Blueprint{
		ID:              fmt.Sprint(rec.ID),
		ProviderID:      catalog.Printify,
		SKU:             rec.Model,
		Name:            rec.Title,
		Description:     rec.Description,
		Category:        category,
		Variants:        variants,
		PrintingOptions: groupPrintAreas(rec.PrintAreas),
		Images:          images,
		ProductionTime: domain.ProductionTime{
			Min:  rec.Production.Min,
			Max:  rec.Production.Max,
			Unit: rec.Production.Unit,
		},
		Pricing: domain.Pricing{Base: base},
		Metadata: domain.BlueprintMetadata{
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
			IsActive:  rec.IsActive,
			Tags:      rec.Tags,
		},
	}
}

// groupPrintAreas folds per-area records into one printing option per
// technique: locations are the area positions in input order, minDPI is the
// minimum of area minimums, maxDPI the maximum of area maximums. Width and
// height take the largest area, file types and colors union.
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
					MinDPI: area.Constraints.DPI.Min,
					MaxDPI: area.Constraints.DPI.Max,
				},
			}
			byTechnique[area.Technique] = opt
			order = append(order, area.Technique)
		}

		opt.Locations = append(opt.Locations, area.Position)

		c := &opt.Constraints
		if area.Constraints.DPI.Min < c.MinDPI {
			c.MinDPI = area.Constraints.DPI.Min
		}
		if area.Constraints.DPI.Max > c.MaxDPI {
			c.MaxDPI = area.Constraints.DPI.Max
		}
		if area.Constraints.Width > c.Width {
			c.Width = area.Constraints.Width
		}
		if area.Constraints.Height > c.Height {
			c.Height = area.Constraints.Height
		}
		c.FileTypes = appendMissing(c.FileTypes, area.Constraints.FileTypes)
		c.Colors = appendMissing(c.Colors, area.Constraints.Colors)
	}

	opts := make([]domain.PrintingOption, 0, len(order))
	for _, technique := range order {
		opts = append(opts, *byTechnique[technique])
	}
	return opts
}

func appendMissing(dst []string, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}
