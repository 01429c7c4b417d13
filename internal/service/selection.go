package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/event"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/repository"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/tier"
)

// BlueprintDetailer resolves a blueprint's full record from its provider.
// The blueprint service satisfies it.
type BlueprintDetailer interface {
	GetBlueprintDetails(ctx context.Context, providerID, blueprintID string) (*domain.Blueprint, error)
}

// SelectionService manages a shop's blueprint selection: it resolves the
// candidate from its provider, gates the addition by tier, persists the
// item, and publishes domain events. Counted dimensions come from the
// provider's record, never from the request, so clients cannot undercount
// their way past tier limits.
type SelectionService struct {
	repo      repository.SelectionRepository
	details   BlueprintDetailer
	validator *ValidationService
	producer  *event.Producer
	logger    *slog.Logger
}

// NewSelectionService creates the service.
func NewSelectionService(repo repository.SelectionRepository, details BlueprintDetailer, validator *ValidationService, producer *event.Producer, logger *slog.Logger) *SelectionService {
	return &SelectionService{
		repo:      repo,
		details:   details,
		validator: validator,
		producer:  producer,
		logger:    logger,
	}
}

// AddInput holds the parameters for adding a blueprint to a selection.
type AddInput struct {
	ShopID      string
	ProviderID  string
	BlueprintID string
	Tier        tier.Tier
}

// Add resolves the blueprint, validates the addition against the shop's
// tier, and persists it. A tier rejection is returned as the validation
// result with a nil item, not as an error; errors mean the operation itself
// failed.
func (s *SelectionService) Add(ctx context.Context, input AddInput) (*domain.SelectionItem, TierValidationResult, error) {
	bp, err := s.details.GetBlueprintDetails(ctx, input.ProviderID, input.BlueprintID)
	if err != nil {
		return nil, TierValidationResult{}, fmt.Errorf("resolve blueprint: %w", err)
	}

	current, err := s.repo.ListByShop(ctx, input.ShopID)
	if err != nil {
		return nil, TierValidationResult{}, fmt.Errorf("load current selection: %w", err)
	}

	refs := make([]domain.BlueprintRef, len(current))
	for i := range current {
		refs[i] = current[i].Ref()
	}

	result, err := s.validator.ValidateAddition(bp.Ref(), refs, input.Tier)
	if err != nil {
		return nil, TierValidationResult{}, err
	}
	if !result.Valid {
		s.logger.InfoContext(ctx, "selection addition rejected by tier",
			slog.String("shop_id", input.ShopID),
			slog.String("blueprint_id", input.BlueprintID),
			slog.String("tier", string(input.Tier)),
			slog.String("reason", result.Message),
		)
		return nil, result, nil
	}

	item := &domain.SelectionItem{
		ID:          uuid.New().String(),
		ShopID:      input.ShopID,
		ProviderID:  bp.ProviderID,
		BlueprintID: bp.ID,
		Name:        bp.Name,
		Type:        bp.Category,
		PrintAreas:  bp.PrintAreaCount(),
		Variants:    len(bp.Variants),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, TierValidationResult{}, fmt.Errorf("persist selection item: %w", err)
	}

	if err := s.producer.PublishSelectionAdded(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish selection.added event",
			slog.String("selection_id", item.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "blueprint added to selection",
		slog.String("selection_id", item.ID),
		slog.String("shop_id", item.ShopID),
		slog.String("provider_id", item.ProviderID),
		slog.String("blueprint_id", item.BlueprintID),
	)

	return item, result, nil
}

// Remove deletes one selection item and publishes the removal event.
func (s *SelectionService) Remove(ctx context.Context, shopID, id string) error {
	item, err := s.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return fmt.Errorf("get selection item: %w", err)
	}

	if err := s.repo.Delete(ctx, shopID, id); err != nil {
		return fmt.Errorf("delete selection item: %w", err)
	}

	if err := s.producer.PublishSelectionRemoved(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish selection.removed event",
			slog.String("selection_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "blueprint removed from selection",
		slog.String("selection_id", id),
		slog.String("shop_id", shopID),
	)

	return nil
}

// List returns a shop's current selection.
func (s *SelectionService) List(ctx context.Context, shopID string) ([]domain.SelectionItem, error) {
	items, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("list selection: %w", err)
	}
	return items, nil
}

// Usage derives usage statistics for the shop's selection against its tier.
func (s *SelectionService) Usage(ctx context.Context, shopID string, t tier.Tier) (UsageStats, error) {
	items, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return UsageStats{}, fmt.Errorf("load selection for usage: %w", err)
	}

	refs := make([]domain.BlueprintRef, len(items))
	for i := range items {
		refs[i] = items[i].Ref()
	}
	return s.validator.Stats(refs, t)
}

// ValidateBatch gates N hypothetical additions against the shop's current
// selection without persisting anything.
func (s *SelectionService) ValidateBatch(ctx context.Context, shopID string, candidates []domain.BlueprintRef, t tier.Tier) ([]TierValidationResult, error) {
	items, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("load selection for batch validation: %w", err)
	}

	refs := make([]domain.BlueprintRef, len(items))
	for i := range items {
		refs[i] = items[i].Ref()
	}
	return s.validator.ValidateBatch(candidates, refs, t)
}
