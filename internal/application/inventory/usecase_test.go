package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturador-api/internal/application/inventory"
	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, store *memory.Store, p *entity.Product) int64 {
	t.Helper()
	id, err := store.Repositories().Products.Add(context.Background(), p)
	require.NoError(t, err)
	return id
}

func TestAdjust_IncomingStockRecalculatesCost(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	id := seedProduct(t, store, &entity.Product{Name: "Resma", Quantity: 10, PurchasePrice: decimal.NewFromInt(100)})
	uc := inventory.NewAdjustStockUseCase(store, inventory.StockPolicy{AllowNegative: true}, nil)

	cost := decimal.NewFromInt(200)
	p, mov, err := uc.Adjust(ctx, inventory.AdjustInput{ProductID: id, Delta: 10, UnitCost: &cost, Notes: "compra"})

	require.NoError(t, err)
	assert.Equal(t, int64(20), p.Quantity)
	assert.True(t, p.PurchasePrice.Equal(decimal.NewFromInt(150)), p.PurchasePrice.String())
	assert.Equal(t, entity.MovementManualAdjust, mov.Kind)
	assert.Equal(t, int64(20), mov.QuantityAfter)

	stored, err := store.Repositories().Products.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stored.Quantity)
	assert.True(t, stored.PurchasePrice.Equal(decimal.NewFromInt(150)))

	movs, err := uc.ListMovements(ctx, id, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "compra", movs[0].Notes)
}

func TestAdjust_NegativeBlockedByPolicy(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	id := seedProduct(t, store, &entity.Product{Name: "Tóner", Quantity: 1})
	uc := inventory.NewAdjustStockUseCase(store, inventory.StockPolicy{AllowNegative: false}, nil)

	_, _, err := uc.Adjust(ctx, inventory.AdjustInput{ProductID: id, Delta: -2})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := store.Repositories().Products.Get(ctx, id)
	assert.Equal(t, int64(1), p.Quantity)
	movs, _ := uc.ListMovements(ctx, id, 10, 0)
	assert.Empty(t, movs)
}

func TestAdjust_InvalidInput(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	id := seedProduct(t, store, &entity.Product{Name: "Clip"})
	uc := inventory.NewAdjustStockUseCase(store, inventory.StockPolicy{AllowNegative: true}, nil)

	_, _, err := uc.Adjust(ctx, inventory.AdjustInput{ProductID: id, Delta: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cost := decimal.NewFromInt(1)
	_, _, err = uc.Adjust(ctx, inventory.AdjustInput{ProductID: id, Delta: -1, UnitCost: &cost})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = uc.Adjust(ctx, inventory.AdjustInput{ProductID: 999, Delta: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ListMovements(ctx, 999, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
