package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/database"
	apperrors "github.com/kobykotiv/printvisionbolt-sub000/pkg/errors"
)

// SelectionRepository implements repository.SelectionRepository using
// PostgreSQL.
type SelectionRepository struct {
	pool database.DBTX
}

// NewSelectionRepository creates a new PostgreSQL-backed selection repository.
func NewSelectionRepository(pool database.DBTX) *SelectionRepository {
	return &SelectionRepository{pool: pool}
}

// Create inserts a new selection item. A shop may hold a given provider
// blueprint at most once.
func (r *SelectionRepository) Create(ctx context.Context, item *domain.SelectionItem) error {
	query := `
		INSERT INTO shop_blueprints (id, shop_id, provider_id, blueprint_id, name, blueprint_type, print_areas, variants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	ctx, end := database.TraceQuery(ctx, "CreateSelectionItem", query)
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.ShopID,
		item.ProviderID,
		item.BlueprintID,
		item.Name,
		item.Type,
		item.PrintAreas,
		item.Variants,
		item.CreatedAt,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("selection item", "blueprint_id", item.BlueprintID)
		}
		return fmt.Errorf("insert selection item: %w", err)
	}

	return nil
}

// GetByID retrieves one selection item within a shop.
func (r *SelectionRepository) GetByID(ctx context.Context, shopID, id string) (*domain.SelectionItem, error) {
	query := `
		SELECT id, shop_id, provider_id, blueprint_id, name, blueprint_type, print_areas, variants, created_at
		FROM shop_blueprints
		WHERE shop_id = $1 AND id = $2`

	ctx, end := database.TraceQuery(ctx, "GetSelectionItem", query)
	var item domain.SelectionItem
	err := r.pool.QueryRow(ctx, query, shopID, id).Scan(
		&item.ID,
		&item.ShopID,
		&item.ProviderID,
		&item.BlueprintID,
		&item.Name,
		&item.Type,
		&item.PrintAreas,
		&item.Variants,
		&item.CreatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("selection item", id)
		}
		return nil, fmt.Errorf("get selection item: %w", err)
	}

	return &item, nil
}

// ListByShop returns all selection items of a shop, oldest first.
func (r *SelectionRepository) ListByShop(ctx context.Context, shopID string) ([]domain.SelectionItem, error) {
	query := `
		SELECT id, shop_id, provider_id, blueprint_id, name, blueprint_type, print_areas, variants, created_at
		FROM shop_blueprints
		WHERE shop_id = $1
		ORDER BY created_at ASC, id ASC`

	ctx, end := database.TraceQuery(ctx, "ListShopSelection", query)
	rows, err := r.pool.Query(ctx, query, shopID)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("list selection items: %w", err)
	}
	defer rows.Close()

	items := []domain.SelectionItem{}
	for rows.Next() {
		var item domain.SelectionItem
		if err := rows.Scan(
			&item.ID,
			&item.ShopID,
			&item.ProviderID,
			&item.BlueprintID,
			&item.Name,
			&item.Type,
			&item.PrintAreas,
			&item.Variants,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan selection row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selection rows: %w", err)
	}

	return items, nil
}

// Delete removes one selection item within a shop.
func (r *SelectionRepository) Delete(ctx context.Context, shopID, id string) error {
	query := `DELETE FROM shop_blueprints WHERE shop_id = $1 AND id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteSelectionItem", query)
	ct, err := r.pool.Exec(ctx, query, shopID, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete selection item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("selection item", id)
	}

	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
