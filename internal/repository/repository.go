package repository

import (
	"context"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
)

// SelectionRepository defines the interface for shop selection persistence.
type SelectionRepository interface {
	// Create inserts a new selection item.
	Create(ctx context.Context, item *domain.SelectionItem) error

	// GetByID retrieves one selection item within a shop.
	GetByID(ctx context.Context, shopID, id string) (*domain.SelectionItem, error)

	// ListByShop returns all selection items of a shop, oldest first.
	ListByShop(ctx context.Context, shopID string) ([]domain.SelectionItem, error)

	// Delete removes one selection item within a shop.
	Delete(ctx context.Context, shopID, id string) error
}
