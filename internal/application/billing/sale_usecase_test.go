package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturador-api/internal/application/billing"
	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/inventory"
	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// failingStore envuelve el almacén en memoria y hace fallar la escritura de stock de un producto.
type failingStore struct {
	*memory.Store
	failProduct int64
}

func (s *failingStore) RunInTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	return s.Store.RunInTx(ctx, func(tx repository.Repositories) error {
		tx.Products = &failingProducts{ProductRepository: tx.Products, failID: s.failProduct}
		return fn(tx)
	})
}

type failingProducts struct {
	repository.ProductRepository
	failID int64
}

var errWriteRejected = errors.New("escritura rechazada")

func (f *failingProducts) UpdateQuantity(ctx context.Context, id int64, qty int64) error {
	if id == f.failID {
		return errWriteRejected
	}
	return f.ProductRepository.UpdateQuantity(ctx, id, qty)
}

type countingMetrics struct{ saved map[string]int }

func (m *countingMetrics) IncSaleSaved(op string) {
	if m.saved == nil {
		m.saved = map[string]int{}
	}
	m.saved[op]++
}

type fixture struct {
	store    *memory.Store
	uc       *billing.SaleUseCase
	metrics  *countingMetrics
	customer int64
	p1, p2   int64
}

func newFixture(t *testing.T, allowNegative bool) *fixture {
	t.Helper()
	return newFixtureWith(t, memory.NewStore(), nil, allowNegative)
}

func newFixtureWith(t *testing.T, mem *memory.Store, wrap func(*memory.Store) repository.Store, allowNegative bool) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := mem.Repositories()

	cid, err := repos.Customers.Add(ctx, &entity.Customer{Name: "Ferretería Sol", GSTIN: "29ABCDE1234F1Z5"})
	require.NoError(t, err)
	p1, err := repos.Products.Add(ctx, &entity.Product{
		Name: "Martillo", SellingPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(18), Quantity: 10,
	})
	require.NoError(t, err)
	p2, err := repos.Products.Add(ctx, &entity.Product{
		Name: "Clavos", SellingPrice: decimal.NewFromInt(50), TaxRate: decimal.NewFromInt(5), Quantity: 20,
	})
	require.NoError(t, err)

	var store repository.Store = mem
	if wrap != nil {
		store = wrap(mem)
	}
	metrics := &countingMetrics{}
	rec := inventory.NewReconciler(inventory.StockPolicy{AllowNegative: allowNegative}, nil, nil)
	uc := billing.NewSaleUseCase(store, rec, billing.Numbering{Prefix: "INV", Suffix: "25-26"}, metrics, nil)
	return &fixture{store: mem, uc: uc, metrics: metrics, customer: cid, p1: p1, p2: p2}
}

func (f *fixture) qty(t *testing.T, id int64) int64 {
	t.Helper()
	p, err := f.store.Repositories().Products.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func saleReq(customerID int64, lines ...int64) dto.SaleRequest {
	req := dto.SaleRequest{CustomerID: customerID, InvoiceDate: "2025-04-01"}
	for i := 0; i+1 < len(lines); i += 2 {
		req.Items = append(req.Items, dto.SaleItemRequest{ProductID: lines[i], Quantity: lines[i+1]})
	}
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear / editar / borrar
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DeductsStockAndNumbers(t *testing.T) {
	f := newFixture(t, true)

	out, err := f.uc.Create(context.Background(), saleReq(f.customer, f.p1, 2))

	require.NoError(t, err)
	assert.Equal(t, int64(8), f.qty(t, f.p1))
	assert.Equal(t, "INV-001-25-26", out.InvoiceNumber)
	assert.Equal(t, "Ferretería Sol", out.Customer.Name)
	assert.Equal(t, entity.SaleStatusIssued, out.Status)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(236)), out.Total.String())
	require.NotNil(t, out.Stock)
	require.Len(t, out.Stock.Changes, 1)
	assert.Equal(t, int64(8), out.Stock.Changes[0].After)
	assert.Equal(t, 1, f.metrics.saved[inventory.OpCreate])

	movs, err := f.store.Repositories().Movements.ListByProduct(context.Background(), f.p1, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementSaleDeduct, movs[0].Kind)
	assert.Equal(t, out.ID, movs[0].SaleID)
	assert.Equal(t, out.Stock.TransactionID, movs[0].TransactionID)
}

func TestUpdate_RestoresThenDeducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	created, err := f.uc.Create(ctx, saleReq(f.customer, f.p1, 2))
	require.NoError(t, err)

	out, err := f.uc.Update(ctx, created.ID, saleReq(f.customer, f.p1, 5))

	require.NoError(t, err)
	assert.Equal(t, int64(5), f.qty(t, f.p1))
	assert.Equal(t, "INV-001-25-26", out.InvoiceNumber)

	movs, _ := f.store.Repositories().Movements.ListByProduct(ctx, f.p1, 10, 0)
	require.Len(t, movs, 3)
	// Más recientes primero: descuento 5, devolución 2, descuento 2.
	assert.Equal(t, int64(-5), movs[0].Delta)
	assert.Equal(t, int64(2), movs[1].Delta)
	assert.Equal(t, int64(-2), movs[2].Delta)
}

func TestUpdate_IdenticalLinesLeaveStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	req := saleReq(f.customer, f.p1, 2, f.p2, 3)
	created, err := f.uc.Create(ctx, req)
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, created.ID, req)

	require.NoError(t, err)
	assert.Equal(t, int64(8), f.qty(t, f.p1))
	assert.Equal(t, int64(17), f.qty(t, f.p2))
}

func TestUpdate_RemovedLineIsRestored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	created, err := f.uc.Create(ctx, saleReq(f.customer, f.p1, 2, f.p2, 3))
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, created.ID, saleReq(f.customer, f.p2, 3))

	require.NoError(t, err)
	assert.Equal(t, int64(10), f.qty(t, f.p1))
	assert.Equal(t, int64(17), f.qty(t, f.p2))
}

func TestDelete_RestoresStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	created, err := f.uc.Create(ctx, saleReq(f.customer, f.p1, 4))
	require.NoError(t, err)

	summary, err := f.uc.Delete(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(10), f.qty(t, f.p1))
	require.Len(t, summary.Changes, 1)
	assert.Equal(t, entity.MovementSaleRestore, summary.Changes[0].Kind)

	_, err = f.uc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_DuplicateLinesAreMerged(t *testing.T) {
	f := newFixture(t, true)

	out, err := f.uc.Create(context.Background(), saleReq(f.customer, f.p1, 1, f.p1, 2))

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(3), out.Items[0].Quantity)
	assert.Equal(t, int64(7), f.qty(t, f.p1))
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CustomerRequired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	_, err := f.uc.Create(ctx, saleReq(0, f.p1, 1))
	assert.ErrorIs(t, err, domain.ErrCustomerRequired)

	_, err = f.uc.Create(ctx, saleReq(999, f.p1, 1))
	assert.ErrorIs(t, err, domain.ErrCustomerRequired)

	assert.Equal(t, int64(10), f.qty(t, f.p1))
	sales, _ := f.store.Repositories().Sales.List(ctx, repository.SaleFilter{})
	assert.Empty(t, sales)
}

func TestCreate_EmptySale(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.uc.Create(context.Background(), saleReq(f.customer))
	assert.ErrorIs(t, err, domain.ErrEmptySale)

	_, err = f.uc.Create(context.Background(), saleReq(f.customer, f.p1, 0))
	assert.ErrorIs(t, err, domain.ErrEmptySale)
}

func TestCreate_UnknownProduct(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.uc.Create(context.Background(), saleReq(f.customer, f.p1, 1, 404, 1))

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), f.qty(t, f.p1))
}

func TestCreate_InvalidDates(t *testing.T) {
	f := newFixture(t, true)
	req := saleReq(f.customer, f.p1, 1)
	req.DueDate = "2025-03-01"

	_, err := f.uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req.DueDate = "01/05/2025"
	_, err = f.uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_PartialFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	var fs *failingStore
	f := newFixtureWith(t, mem, func(m *memory.Store) repository.Store {
		fs = &failingStore{Store: m}
		return fs
	}, true)
	fs.failProduct = f.p2

	_, err := f.uc.Create(ctx, saleReq(f.customer, f.p1, 2, f.p2, 1))

	require.Error(t, err)
	re, ok := inventory.AsReconcileError(err)
	require.True(t, ok)
	assert.Equal(t, []int64{f.p2}, re.ProductIDs())
	assert.ErrorIs(t, err, errWriteRejected)

	// Todo se revierte: ni venta ni stock ni kardex.
	assert.Equal(t, int64(10), f.qty(t, f.p1))
	assert.Equal(t, int64(20), f.qty(t, f.p2))
	sales, _ := mem.Repositories().Sales.List(ctx, repository.SaleFilter{})
	assert.Empty(t, sales)
	movs, _ := mem.Repositories().Movements.ListByProduct(ctx, f.p1, 10, 0)
	assert.Empty(t, movs)
	assert.Zero(t, f.metrics.saved[inventory.OpCreate])
}

func TestCreate_OversellBlockedByPolicy(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.uc.Create(context.Background(), saleReq(f.customer, f.p1, 11))

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.qty(t, f.p1))
}

func TestCreate_OversellAllowedGoesNegative(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.uc.Create(context.Background(), saleReq(f.customer, f.p1, 11))

	require.NoError(t, err)
	assert.Equal(t, int64(-1), f.qty(t, f.p1))
}

// ──────────────────────────────────────────────────────────────────────────────
// Copias inmutables y productos borrados
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_AfterProductDeletedDoesNotFail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	created, err := f.uc.Create(ctx, saleReq(f.customer, f.p1, 2, f.p2, 1))
	require.NoError(t, err)
	require.NoError(t, f.store.Repositories().Products.Delete(ctx, f.p1))

	out, err := f.uc.Update(ctx, created.ID, saleReq(f.customer, f.p1, 2, f.p2, 4))

	require.NoError(t, err)
	assert.Equal(t, []int64{f.p1}, out.Stock.Skipped)
	assert.Equal(t, int64(16), f.qty(t, f.p2))
	// La línea del producto borrado conserva su copia.
	assert.Equal(t, "Martillo", out.Items[0].Name)

	_, err = f.uc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), f.qty(t, f.p2))
}

func TestSnapshots_MasterEditsDoNotChangeSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	created, err := f.uc.Create(ctx, saleReq(f.customer, f.p1, 1))
	require.NoError(t, err)

	p, _ := f.store.Repositories().Products.Get(ctx, f.p1)
	p.SellingPrice = decimal.NewFromInt(999)
	require.NoError(t, f.store.Repositories().Products.Update(ctx, p))

	got, err := f.uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].SellingPrice.Equal(decimal.NewFromInt(100)))

	// Editar la cantidad conserva el precio de la copia.
	edited, err := f.uc.Update(ctx, created.ID, saleReq(f.customer, f.p1, 2))
	require.NoError(t, err)
	assert.True(t, edited.Items[0].SellingPrice.Equal(decimal.NewFromInt(100)))
}

func TestUpdate_CustomerDeletedKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	created, err := f.uc.Create(ctx, saleReq(f.customer, f.p1, 1))
	require.NoError(t, err)
	require.NoError(t, f.store.Repositories().Customers.Delete(ctx, f.customer))

	out, err := f.uc.Update(ctx, created.ID, saleReq(f.customer, f.p1, 1))

	require.NoError(t, err)
	assert.Equal(t, "Ferretería Sol", out.Customer.Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cotización y listados
// ──────────────────────────────────────────────────────────────────────────────

func TestQuote_ComputesWithoutSaving(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	req := saleReq(0, f.p1, 2, f.p2, 1)
	req.RoundOff = decimal.RequireFromString("0.5")

	q, err := f.uc.Quote(ctx, req)

	require.NoError(t, err)
	assert.True(t, q.Total.Equal(decimal.RequireFromString("289")), q.Total.String())
	assert.Equal(t, int64(3), q.ItemCount)
	assert.Equal(t, int64(10), f.qty(t, f.p1))
}

func TestList_ByDateRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	for _, d := range []string{"2025-01-10", "2025-02-10", "2025-03-10"} {
		req := saleReq(f.customer, f.p2, 1)
		req.InvoiceDate = d
		_, err := f.uc.Create(ctx, req)
		require.NoError(t, err)
	}

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	out, err := f.uc.List(ctx, repository.SaleFilter{From: &from, To: &to})

	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "2025-02-10", out.Items[0].InvoiceDate)

	_, err = f.uc.List(ctx, repository.SaleFilter{From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNumbering_Format(t *testing.T) {
	assert.Equal(t, "INV-001-25-26", billing.Numbering{Prefix: "INV", Suffix: "25-26"}.Format(1))
	assert.Equal(t, "1234", billing.Numbering{}.Format(1234))
	assert.Equal(t, "F-042", billing.Numbering{Prefix: "F"}.Format(42))
}
