package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/pkg/config"
)

// Requiere una base descartable: TEST_DATABASE_URL=postgres://...
func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	s, err := Open(ctx, config.DBConfig{DatabaseURL: url}, nil)
	require.NoError(t, err)
	_, err = s.pool.Exec(ctx, `TRUNCATE products, customers, sales, stock_movements RESTART IDENTITY`)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaleRoundTripAndRollback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repos := s.Repositories()

	pid, err := repos.Products.Add(ctx, &entity.Product{
		Name: "Martillo", SellingPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(18), Quantity: 10,
	})
	require.NoError(t, err)

	sale := &entity.Sale{
		Customer:    entity.SaleCustomer{ID: 1, Name: "Acme"},
		InvoiceDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Items:       []entity.SaleItem{{ProductID: pid, Name: "Martillo", SellingPrice: decimal.NewFromInt(100), Quantity: 2}},
		Subtotal:    decimal.NewFromInt(200),
		Total:       decimal.NewFromInt(200),
		Status:      entity.SaleStatusIssued,
	}
	sid, err := repos.Sales.Add(ctx, sale)
	require.NoError(t, err)

	got, err := repos.Sales.Get(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.InvoiceDate.Equal(sale.InvoiceDate))
	assert.True(t, got.DueDate.IsZero())
	assert.Equal(t, "Acme", got.Customer.Name)

	err = s.RunInTx(ctx, func(tx repository.Repositories) error {
		p, err := tx.Products.GetForUpdate(ctx, pid)
		if err != nil {
			return err
		}
		if err := tx.Products.UpdateQuantity(ctx, pid, p.Quantity-2); err != nil {
			return err
		}
		return domain.ErrConflict
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, err := repos.Products.Get(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Quantity)

	from := sale.InvoiceDate
	list, err := repos.Sales.List(ctx, repository.SaleFilter{From: &from, To: &from})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProductRepo_UpdateLeavesQuantity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repos := s.Repositories()

	pid, err := repos.Products.Add(ctx, &entity.Product{Name: "Clavos", SellingPrice: decimal.NewFromInt(50), Quantity: 20})
	require.NoError(t, err)
	require.NoError(t, repos.Products.UpdateQuantity(ctx, pid, 17))

	p := &entity.Product{ID: pid, Name: "Clavos 2\"", SellingPrice: decimal.NewFromInt(55), Quantity: 20}
	require.NoError(t, repos.Products.Update(ctx, p))

	got, err := repos.Products.Get(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, "Clavos 2\"", got.Name)
	assert.Equal(t, int64(17), got.Quantity)
}
