// Package tier defines subscription tiers and the validation rules each tier
// grants. Rules are static data; enforcement lives in the validation service.
package tier

import (
	"fmt"
	"strings"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/catalog"
)

// Tier is a subscription level.
type Tier string

const (
	Free       Tier = "free"
	Creator    Tier = "creator"
	Pro        Tier = "pro"
	Enterprise Tier = "enterprise"
)

// Unlimited marks a rule dimension with no cap.
const Unlimited = -1

// Rules are the limits a tier places on blueprint selections. A nil
// AllowedProviders or AllowedTypes slice means every provider or type is
// permitted.
type Rules struct {
	MaxBlueprints    int      `json:"maxBlueprints"`
	AllowedProviders []string `json:"allowedProviders,omitempty"`
	AllowedTypes     []string `json:"allowedTypes,omitempty"`
	MaxPrintAreas    int      `json:"maxPrintAreas"`
	MaxVariants      int      `json:"maxVariants"`
}

// AllowsProvider reports whether the rules permit blueprints from the given
// provider.
func (r Rules) AllowsProvider(providerID string) bool {
	if r.AllowedProviders == nil {
		return true
	}
	for _, id := range r.AllowedProviders {
		if id == providerID {
			return true
		}
	}
	return false
}

// AllowsType reports whether the rules permit blueprints of the given type.
func (r Rules) AllowsType(blueprintType string) bool {
	if r.AllowedTypes == nil {
		return true
	}
	for _, t := range r.AllowedTypes {
		if strings.EqualFold(t, blueprintType) {
			return true
		}
	}
	return false
}

var rules = map[Tier]Rules{
	Free: {
		MaxBlueprints:    3,
		AllowedProviders: []string{catalog.Printify},
		AllowedTypes:     []string{"t-shirt", "mug", "poster"},
		MaxPrintAreas:    2,
		MaxVariants:      5,
	},
	Creator: {
		MaxBlueprints:    25,
		AllowedProviders: []string{catalog.Printify, catalog.Printful},
		AllowedTypes:     nil,
		MaxPrintAreas:    4,
		MaxVariants:      25,
	},
	Pro: {
		MaxBlueprints:    200,
		AllowedProviders: nil,
		AllowedTypes:     nil,
		MaxPrintAreas:    Unlimited,
		MaxVariants:      Unlimited,
	},
	Enterprise: {
		MaxBlueprints:    Unlimited,
		AllowedProviders: nil,
		AllowedTypes:     nil,
		MaxPrintAreas:    Unlimited,
		MaxVariants:      Unlimited,
	},
}

// RulesFor returns the validation rules for the given tier.
func RulesFor(t Tier) (Rules, error) {
	r, ok := rules[t]
	if !ok {
		return Rules{}, fmt.Errorf("unknown tier %q", t)
	}
	return r, nil
}

// Parse normalizes a tier string. An empty value defaults to Free.
func Parse(s string) (Tier, error) {
	if s == "" {
		return Free, nil
	}
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rules[t]; !ok {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}
