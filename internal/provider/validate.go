package provider

import (
	"fmt"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
)

// ValidateShape checks the structural requirements common to every provider:
// identity fields, at least one variant and printing option, coherent DPI
// bounds, and a positive base price. Adapters append provider-specific rules
// on top.
func ValidateShape(bp *domain.Blueprint) []domain.FieldError {
	var errs []domain.FieldError

	if bp.ID == "" {
		errs = append(errs, domain.FieldError{Field: "id", Message: "is required"})
	}
	if bp.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "is required"})
	}
	if len(bp.Variants) == 0 {
		errs = append(errs, domain.FieldError{Field: "variants", Message: "at least one variant is required"})
	}
	if len(bp.PrintingOptions) == 0 {
		errs = append(errs, domain.FieldError{Field: "printing_options", Message: "at least one printing option is required"})
	}

	for i, opt := range bp.PrintingOptions {
		if len(opt.Locations) == 0 {
			errs = append(errs, domain.FieldError{
				Field:   fieldAt("printing_options", i, "locations"),
				Message: "at least one print location is required",
			})
		}
		c := opt.Constraints
		if c.MinDPI <= 0 {
			errs = append(errs, domain.FieldError{
				Field:   fieldAt("printing_options", i, "constraints.min_dpi"),
				Message: "must be positive",
			})
		}
		if c.MaxDPI < c.MinDPI {
			errs = append(errs, domain.FieldError{
				Field:   fieldAt("printing_options", i, "constraints.max_dpi"),
				Message: "must not be below min_dpi",
			})
		}
	}

	if bp.Pricing.Base.Amount <= 0 {
		errs = append(errs, domain.FieldError{Field: "pricing.base.amount", Message: "must be positive"})
	}

	return errs
}

func fieldAt(prefix string, i int, suffix string) string {
	return fmt.Sprintf("%s[%d].%s", prefix, i, suffix)
}
