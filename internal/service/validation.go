package service

import (
	"fmt"
	"strings"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/tier"
)

// TierValidationResult is the outcome of gating one blueprint addition
// against a subscription tier. RemainingAllocation is set for count-related
// outcomes: the slots left after the addition on success, zero on a
// count rejection, and -1 when the tier is unlimited.
type TierValidationResult struct {
	Valid               bool   `json:"valid"`
	Message             string `json:"message,omitempty"`
	RemainingAllocation *int   `json:"remaining_allocation,omitempty"`
}

// UsageCounter pairs a used count with its tier limit. Limit -1 means
// unlimited.
type UsageCounter struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// BlueprintUsage is the per-blueprint breakdown inside UsageStats.
type BlueprintUsage struct {
	BlueprintID string `json:"blueprint_id"`
	ProviderID  string `json:"provider_id"`
	PrintAreas  int    `json:"print_areas"`
	Variants    int    `json:"variants"`
}

// UsageStats is a pure derivation of a shop's selection against its tier
// limits. PrintAreas and Variants report aggregate totals; their Limit field
// is the per-blueprint cap, since that is what the tier enforces.
type UsageStats struct {
	Tier         tier.Tier        `json:"tier"`
	Blueprints   UsageCounter     `json:"blueprints"`
	ByProvider   map[string]int   `json:"by_provider"`
	PrintAreas   UsageCounter     `json:"print_areas"`
	Variants     UsageCounter     `json:"variants"`
	PerBlueprint []BlueprintUsage `json:"per_blueprint"`
}

// ValidationService gates blueprint additions by subscription tier and
// derives usage statistics. Pure and synchronous: no I/O, no caching, safe
// to call on every request.
type ValidationService struct{}

// NewValidationService creates the service.
func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// ValidateAddition checks whether the candidate may be added given the
// shop's current selection and tier. Checks run in a fixed order: count
// limit, provider allow-list, type allow-list, print-area count, variant
// count. The first failure wins.
func (s *ValidationService) ValidateAddition(candidate domain.BlueprintRef, current []domain.BlueprintRef, t tier.Tier) (TierValidationResult, error) {
	rules, err := tier.RulesFor(t)
	if err != nil {
		return TierValidationResult{}, err
	}
	return validate(candidate, len(current), rules, t), nil
}

// ValidateBatch validates each candidate as if every other candidate in the
// batch were already added: candidate i is checked against
// current plus batch minus itself. This captures add-N-at-once semantics
// without counting a candidate against itself.
func (s *ValidationService) ValidateBatch(candidates []domain.BlueprintRef, current []domain.BlueprintRef, t tier.Tier) ([]TierValidationResult, error) {
	rules, err := tier.RulesFor(t)
	if err != nil {
		return nil, err
	}

	results := make([]TierValidationResult, len(candidates))
	for i, candidate := range candidates {
		occupied := len(current) + len(candidates) - 1
		results[i] = validate(candidate, occupied, rules, t)
	}
	return results, nil
}

// Stats derives usage statistics for the current selection against the
// tier's limits.
func (s *ValidationService) Stats(current []domain.BlueprintRef, t tier.Tier) (UsageStats, error) {
	rules, err := tier.RulesFor(t)
	if err != nil {
		return UsageStats{}, err
	}

	stats := UsageStats{
		Tier:         t,
		Blueprints:   UsageCounter{Used: len(current), Limit: rules.MaxBlueprints},
		ByProvider:   make(map[string]int),
		PrintAreas:   UsageCounter{Limit: rules.MaxPrintAreas},
		Variants:     UsageCounter{Limit: rules.MaxVariants},
		PerBlueprint: make([]BlueprintUsage, 0, len(current)),
	}

	for _, ref := range current {
		stats.ByProvider[ref.ProviderID]++
		stats.PrintAreas.Used += ref.PrintAreas
		stats.Variants.Used += ref.Variants
		stats.PerBlueprint = append(stats.PerBlueprint, BlueprintUsage{
			BlueprintID: ref.BlueprintID,
			ProviderID:  ref.ProviderID,
			PrintAreas:  ref.PrintAreas,
			Variants:    ref.Variants,
		})
	}
	return stats, nil
}

func validate(candidate domain.BlueprintRef, occupied int, rules tier.Rules, t tier.Tier) TierValidationResult {
	if rules.MaxBlueprints != tier.Unlimited {
		remaining := rules.MaxBlueprints - occupied
		if remaining <= 0 {
			zero := 0
			return TierValidationResult{
				Message: fmt.Sprintf(
					"Blueprint limit reached for the %s tier (%d of %d used). Upgrade your plan to add more blueprints.",
					t, occupied, rules.MaxBlueprints),
				RemainingAllocation: &zero,
			}
		}
	}

	if !rules.AllowsProvider(candidate.ProviderID) {
		return TierValidationResult{
			Message: fmt.Sprintf(
				"The %s tier only allows blueprints from: %s.",
				t, strings.Join(rules.AllowedProviders, ", ")),
		}
	}

	if candidate.Type != "" && !rules.AllowsType(candidate.Type) {
		return TierValidationResult{
			Message: fmt.Sprintf(
				"The %s tier only allows blueprint types: %s.",
				t, strings.Join(rules.AllowedTypes, ", ")),
		}
	}

	if rules.MaxPrintAreas != tier.Unlimited && candidate.PrintAreas > rules.MaxPrintAreas {
		return TierValidationResult{
			Message: fmt.Sprintf(
				"Blueprint has %d print areas; the %s tier allows at most %d.",
				candidate.PrintAreas, t, rules.MaxPrintAreas),
		}
	}

	if rules.MaxVariants != tier.Unlimited && candidate.Variants > rules.MaxVariants {
		return TierValidationResult{
			Message: fmt.Sprintf(
				"Blueprint has %d variants; the %s tier allows at most %d.",
				candidate.Variants, t, rules.MaxVariants),
		}
	}

	remaining := tier.Unlimited
	if rules.MaxBlueprints != tier.Unlimited {
		remaining = rules.MaxBlueprints - occupied - 1
	}
	return TierValidationResult{Valid: true, RemainingAllocation: &remaining}
}
