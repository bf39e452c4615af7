package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturador-api/internal/application/reports"
	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/memory"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func addSale(t *testing.T, repos repository.Repositories, date, status string, customer string, items ...entity.SaleItem) *entity.Sale {
	t.Helper()
	s := &entity.Sale{
		InvoiceNumber: "INV-" + date,
		Customer:      entity.SaleCustomer{ID: 1, Name: customer},
		InvoiceDate:   day(date),
		Items:         items,
		Status:        status,
	}
	var sub, tax decimal.Decimal
	for _, it := range items {
		base := it.SellingPrice.Mul(decimal.NewFromInt(it.Quantity))
		sub = sub.Add(base)
		tax = tax.Add(base.Mul(it.TaxRate).Div(decimal.NewFromInt(100)))
	}
	s.Subtotal, s.TaxTotal, s.Total = sub, tax, sub.Add(tax)
	_, err := repos.Sales.Add(context.Background(), s)
	require.NoError(t, err)
	return s
}

func item(id int64, name string, price, cost, qty int64) entity.SaleItem {
	return entity.SaleItem{
		ProductID:     id,
		Name:          name,
		SellingPrice:  decimal.NewFromInt(price),
		PurchasePrice: decimal.NewFromInt(cost),
		TaxRate:       decimal.NewFromInt(10),
		Quantity:      qty,
	}
}

func TestSalesRegister_RangeAndSums(t *testing.T) {
	repos := memory.NewStore().Repositories()
	addSale(t, repos, "2026-03-01", entity.SaleStatusIssued, "Ana", item(1, "A", 100, 60, 1))
	addSale(t, repos, "2026-03-05", entity.SaleStatusIssued, "Luis", item(1, "A", 100, 60, 2))
	addSale(t, repos, "2026-04-01", entity.SaleStatusIssued, "Ana", item(1, "A", 100, 60, 3))
	uc := reports.NewUseCase(repos, 5)

	from, to := day("2026-03-01"), day("2026-03-31")
	out, err := uc.SalesRegister(context.Background(), &from, &to)
	require.NoError(t, err)
	require.Equal(t, 2, out.Count)
	assert.Equal(t, "Ana", out.Rows[0].CustomerName)
	assert.Equal(t, "2026-03-05", out.Rows[1].InvoiceDate)
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(300)))
	assert.True(t, out.Total.Equal(decimal.NewFromInt(330)))
	assert.Equal(t, "2026-03-01", out.From)

	_, err = uc.SalesRegister(context.Background(), &to, &from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockReport_Flags(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	for _, p := range []*entity.Product{
		{Name: "Lleno", Quantity: 40, PurchasePrice: decimal.NewFromInt(2)},
		{Name: "Justo", Quantity: 5, PurchasePrice: decimal.NewFromInt(10)},
		{Name: "Negativo", Quantity: -3, PurchasePrice: decimal.NewFromInt(7)},
	} {
		_, err := repos.Products.Add(ctx, p)
		require.NoError(t, err)
	}

	out, err := reports.NewUseCase(repos, 5).StockReport(ctx)
	require.NoError(t, err)
	require.Len(t, out.Rows, 3)
	assert.False(t, out.Rows[0].LowStock)
	assert.True(t, out.Rows[1].LowStock)
	assert.True(t, out.Rows[2].Negative)
	assert.True(t, out.Rows[2].LowStock)
	assert.True(t, out.Rows[2].StockValue.IsZero())
	assert.Equal(t, 1, out.NegativeCount)
	assert.Equal(t, 2, out.LowStockCount)
	assert.True(t, out.TotalValue.Equal(decimal.NewFromInt(130)))
}

func TestDashboard_TodayMonthAndTop(t *testing.T) {
	repos := memory.NewStore().Repositories()
	addSale(t, repos, "2026-02-28", entity.SaleStatusIssued, "Fuera", item(1, "A", 100, 50, 9))
	addSale(t, repos, "2026-03-02", entity.SaleStatusIssued, "Ana", item(1, "A", 100, 50, 1), item(2, "B", 10, 9, 10))
	addSale(t, repos, "2026-03-10", entity.SaleStatusIssued, "Luis", item(2, "B", 10, 9, 5))
	addSale(t, repos, "2026-03-10", entity.SaleStatusDraft, "Borrador", item(1, "A", 100, 50, 50))

	uc := reports.NewUseCase(repos, 5).WithClock(func() time.Time {
		return time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	})
	out, err := uc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.True(t, out.TodaySales.Equal(decimal.NewFromInt(50)), out.TodaySales.String())
	assert.True(t, out.TodayMargin.Equal(decimal.NewFromInt(5)))
	assert.True(t, out.MonthlySales.Equal(decimal.NewFromInt(250)))
	assert.True(t, out.MonthlyMargin.Equal(decimal.NewFromInt(65)))
	assert.Equal(t, "Marzo 2026", out.DateLabel)

	require.Len(t, out.TopProducts, 2)
	assert.Equal(t, int64(2), out.TopProducts[0].ProductID)
	assert.Equal(t, int64(15), out.TopProducts[0].QuantitySold)
	assert.True(t, out.TopProducts[0].MarginPercentage.Equal(decimal.NewFromInt(10)))
	assert.True(t, out.TopProducts[1].MarginPercentage.Equal(decimal.NewFromInt(50)))
}
