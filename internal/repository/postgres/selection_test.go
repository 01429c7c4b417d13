package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/database"
	apperrors "github.com/kobykotiv/printvisionbolt-sub000/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var selectionColumns = []string{
	"id", "shop_id", "provider_id", "blueprint_id", "name", "blueprint_type",
	"print_areas", "variants", "created_at",
}

func sampleItem() domain.SelectionItem {
	return domain.SelectionItem{
		ID:          "sel-1",
		ShopID:      "shop-1",
		ProviderID:  "printify",
		BlueprintID: "384",
		Name:        "Unisex Heavy Cotton Tee",
		Type:        "t-shirt",
		PrintAreas:  2,
		Variants:    5,
		CreatedAt:   now,
	}
}

func itemRow(item domain.SelectionItem) []any {
	return []any{
		item.ID, item.ShopID, item.ProviderID, item.BlueprintID, item.Name,
		item.Type, item.PrintAreas, item.Variants, item.CreatedAt,
	}
}

func TestSelectionRepository_Create(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	item := sampleItem()
	mock.ExpectExec("INSERT INTO shop_blueprints").
		WithArgs(item.ID, item.ShopID, item.ProviderID, item.BlueprintID,
			item.Name, item.Type, item.PrintAreas, item.Variants, item.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewSelectionRepository(mock)
	require.NoError(t, repo.Create(context.Background(), &item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectionRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	item := sampleItem()
	mock.ExpectExec("INSERT INTO shop_blueprints").
		WithArgs(item.ID, item.ShopID, item.ProviderID, item.BlueprintID,
			item.Name, item.Type, item.PrintAreas, item.Variants, item.CreatedAt).
		WillReturnError(errors.New(`duplicate key value violates unique constraint (SQLSTATE 23505)`))

	repo := NewSelectionRepository(mock)
	err := repo.Create(context.Background(), &item)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestSelectionRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	item := sampleItem()
	mock.ExpectQuery("SELECT (.+) FROM shop_blueprints").
		WithArgs(item.ShopID, item.ID).
		WillReturnRows(pgxmock.NewRows(selectionColumns).AddRow(itemRow(item)...))

	repo := NewSelectionRepository(mock)
	got, err := repo.GetByID(context.Background(), item.ShopID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, *got)
}

func TestSelectionRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM shop_blueprints").
		WithArgs("shop-1", "nope").
		WillReturnRows(pgxmock.NewRows(selectionColumns))

	repo := NewSelectionRepository(mock)
	_, err := repo.GetByID(context.Background(), "shop-1", "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSelectionRepository_ListByShop(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	a := sampleItem()
	b := sampleItem()
	b.ID = "sel-2"
	b.BlueprintID = "71"
	b.ProviderID = "printful"

	mock.ExpectQuery("SELECT (.+) FROM shop_blueprints").
		WithArgs("shop-1").
		WillReturnRows(pgxmock.NewRows(selectionColumns).
			AddRow(itemRow(a)...).
			AddRow(itemRow(b)...))

	repo := NewSelectionRepository(mock)
	items, err := repo.ListByShop(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "printful", items[1].ProviderID)
}

func TestSelectionRepository_ListByShop_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM shop_blueprints").
		WithArgs("shop-1").
		WillReturnRows(pgxmock.NewRows(selectionColumns))

	repo := NewSelectionRepository(mock)
	items, err := repo.ListByShop(context.Background(), "shop-1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSelectionRepository_Delete(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM shop_blueprints").
		WithArgs("shop-1", "sel-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewSelectionRepository(mock)
	require.NoError(t, repo.Delete(context.Background(), "shop-1", "sel-1"))
}

func TestSelectionRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM shop_blueprints").
		WithArgs("shop-1", "nope").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewSelectionRepository(mock)
	err := repo.Delete(context.Background(), "shop-1", "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
