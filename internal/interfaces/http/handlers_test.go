package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturador-api/internal/application/billing"
	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/inventory"
	"github.com/jhoicas/Facturador-api/internal/application/reports"
	"github.com/jhoicas/Facturador-api/internal/application/usecase"
	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/memory"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Facturador-api/internal/interfaces/http"
	"github.com/jhoicas/Facturador-api/internal/observability"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testApp struct {
	app   *fiber.App
	store *memory.Store
}

// buildTestApp arma la API completa sobre el almacén en memoria.
func buildTestApp(t *testing.T, allowNegative bool) *testApp {
	t.Helper()
	mem := memory.NewStore()
	return buildTestAppWith(t, mem, mem, allowNegative)
}

// downStore almacén cuyo ping siempre falla.
type downStore struct{ *memory.Store }

func (downStore) Ping(context.Context) error { return domain.ErrStoreUnavailable }

func buildTestAppWith(t *testing.T, mem *memory.Store, store repository.Store, allowNegative bool) *testApp {
	t.Helper()
	log := logger.Nop()
	metrics := observability.NewMetrics()
	policy := inventory.StockPolicy{AllowNegative: allowNegative}
	repos := mem.Repositories()

	deps := apphttp.RouterDeps{
		Store:         store,
		ProductUC:     usecase.NewProductUseCase(repos.Products),
		AdjustStock:   inventory.NewAdjustStockUseCase(mem, policy, log),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Products, repos.Sales, 5),
		CustomerUC:    billing.NewCustomerUseCase(repos.Customers),
		SaleUC: billing.NewSaleUseCase(mem, inventory.NewReconciler(policy, log, metrics),
			billing.Numbering{Prefix: "INV", Suffix: "25-26"}, metrics, log),
		PDFUC:   billing.NewPDFUseCase(repos.Sales, pdf.NewMarotoPDFGenerator(), billing.Issuer{Name: "Mi Tienda"}),
		Reports: reports.NewUseCase(repos, 5),
		Metrics: metrics,
		Logger:  log,
	}

	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, deps)
	return &testApp{app: app, store: mem}
}

func (ta *testApp) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func (ta *testApp) createProduct(t *testing.T, name string, price int64, qty int64) int64 {
	t.Helper()
	resp, data := ta.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": name, "selling_price": price, "purchase_price": price / 2, "tax_rate": 18, "quantity": qty,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	return decode[dto.ProductResponse](t, data).ID
}

func (ta *testApp) createCustomer(t *testing.T, name string) int64 {
	t.Helper()
	resp, data := ta.do(t, http.MethodPost, "/api/customers", map[string]any{"name": name})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	return decode[dto.CustomerResponse](t, data).ID
}

func (ta *testApp) quantity(t *testing.T, id int64) int64 {
	t.Helper()
	p, err := ta.store.Repositories().Products.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func saleBody(customerID int64, lines ...int64) map[string]any {
	items := []map[string]any{}
	for i := 0; i+1 < len(lines); i += 2 {
		items = append(items, map[string]any{"product_id": lines[i], "quantity": lines[i+1]})
	}
	return map[string]any{"customer_id": customerID, "invoice_date": "2025-04-01", "items": items}
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CRUD(t *testing.T) {
	ta := buildTestApp(t, true)
	id := ta.createProduct(t, "Martillo", 100, 10)

	resp, data := ta.do(t, http.MethodGet, "/api/products/"+itoa(id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"selling_price":"100"`, "los decimales viajan como string")

	resp, data = ta.do(t, http.MethodPut, "/api/products/"+itoa(id), map[string]any{"name": "Martillo grande"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "Martillo grande", decode[dto.ProductResponse](t, data).Name)
	assert.Equal(t, int64(10), ta.quantity(t, id), "editar el producto no toca el stock")

	resp, data = ta.do(t, http.MethodGet, "/api/products?name=grande", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.ProductListResponse](t, data).Items, 1)

	resp, _ = ta.do(t, http.MethodDelete, "/api/products/"+itoa(id), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, data = ta.do(t, http.MethodGet, "/api/products/"+itoa(id), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, data).Code)
}

func TestProducts_ValidationErrors(t *testing.T) {
	ta := buildTestApp(t, true)

	resp, data := ta.do(t, http.MethodPost, "/api/products", map[string]any{"selling_price": 10})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	errResp := decode[dto.ErrorResponse](t, data)
	assert.Equal(t, "VALIDATION", errResp.Code)
	require.NotEmpty(t, errResp.Fields)
	assert.Equal(t, "name", errResp.Fields[0].Field)
	assert.Equal(t, "required", errResp.Fields[0].Rule)

	resp, data = ta.do(t, http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, data).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, raw.StatusCode)
}

func TestProducts_AdjustAndMovements(t *testing.T) {
	ta := buildTestApp(t, false)
	id := ta.createProduct(t, "Clavos", 50, 2)

	resp, data := ta.do(t, http.MethodPost, "/api/products/"+itoa(id)+"/adjust", map[string]any{"delta": 8, "notes": "compra"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	out := decode[dto.AdjustStockResponse](t, data)
	assert.Equal(t, int64(10), out.Product.Quantity)
	assert.Equal(t, "manual_adjust", out.Movement.Kind)

	resp, data = ta.do(t, http.MethodPost, "/api/products/"+itoa(id)+"/adjust", map[string]any{"delta": -20})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, data).Code)

	resp, data = ta.do(t, http.MethodGet, "/api/products/"+itoa(id)+"/movements", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	movs := decode[[]dto.StockMovementResponse](t, data)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(10), movs[0].QuantityAfter)

	resp, _ = ta.do(t, http.MethodGet, "/api/products/999/movements", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_CreateEditDeleteReconcileStock(t *testing.T) {
	ta := buildTestApp(t, true)
	p1 := ta.createProduct(t, "Martillo", 100, 10)
	p2 := ta.createProduct(t, "Clavos", 50, 20)
	cid := ta.createCustomer(t, "Ferretería Sol")

	resp, data := ta.do(t, http.MethodPost, "/api/sales", saleBody(cid, p1, 3, p2, 5))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	sale := decode[dto.SaleResponse](t, data)
	assert.Equal(t, int64(7), ta.quantity(t, p1))
	assert.Equal(t, int64(15), ta.quantity(t, p2))
	assert.Equal(t, "Ferretería Sol", sale.Customer.Name)
	require.NotNil(t, sale.Stock)
	assert.Len(t, sale.Stock.Changes, 2)
	// 300*1.18 + 250*1.18
	assert.True(t, decimal.RequireFromString("649").Equal(sale.Total), sale.Total.String())

	resp, data = ta.do(t, http.MethodPut, "/api/sales/"+itoa(sale.ID), saleBody(cid, p1, 1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, int64(9), ta.quantity(t, p1))
	assert.Equal(t, int64(20), ta.quantity(t, p2), "la línea quitada vuelve al stock")

	resp, data = ta.do(t, http.MethodDelete, "/api/sales/"+itoa(sale.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	assert.NotEmpty(t, decode[dto.StockSummaryDTO](t, data).TransactionID)
	assert.Equal(t, int64(10), ta.quantity(t, p1))

	resp, _ = ta.do(t, http.MethodGet, "/api/sales/"+itoa(sale.ID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSales_ErrorMapping(t *testing.T) {
	ta := buildTestApp(t, false)
	p1 := ta.createProduct(t, "Martillo", 100, 2)
	cid := ta.createCustomer(t, "Ferretería Sol")

	resp, data := ta.do(t, http.MethodPost, "/api/sales", saleBody(999, p1, 1))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "CUSTOMER_REQUIRED", decode[dto.ErrorResponse](t, data).Code)

	resp, data = ta.do(t, http.MethodPost, "/api/sales", saleBody(cid))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_SALE", decode[dto.ErrorResponse](t, data).Code)

	resp, data = ta.do(t, http.MethodPost, "/api/sales", saleBody(cid, p1, 5))
	require.Equal(t, fiber.StatusConflict, resp.StatusCode, string(data))
	errResp := decode[dto.ErrorResponse](t, data)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Equal(t, []any{float64(p1)}, errResp.Details["product_ids"])
	assert.Equal(t, int64(2), ta.quantity(t, p1), "la venta rechazada no toca el stock")

	body := saleBody(cid, p1, 1)
	body["invoice_date"] = "01/04/2025"
	resp, data = ta.do(t, http.MethodPost, "/api/sales", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, data).Code)

	// Producto inexistente en una línea: 422 con mensaje de producto, no 404 de venta.
	resp, data = ta.do(t, http.MethodPost, "/api/sales", saleBody(cid, 999, 1))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode, string(data))
	errResp = decode[dto.ErrorResponse](t, data)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errResp.Code)
	assert.Contains(t, errResp.Message, "producto no encontrado")

	resp, data = ta.do(t, http.MethodPost, "/api/sales", saleBody(cid, p1, 1))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	sale := decode[dto.SaleResponse](t, data)
	resp, data = ta.do(t, http.MethodPut, "/api/sales/"+itoa(sale.ID), saleBody(cid, p1, 1, 999, 1))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode, string(data))
	assert.Equal(t, "PRODUCT_NOT_FOUND", decode[dto.ErrorResponse](t, data).Code)
	assert.Equal(t, int64(1), ta.quantity(t, p1))

	resp, data = ta.do(t, http.MethodPost, "/api/sales/quote", saleBody(0, 999, 1))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode, string(data))
	assert.Equal(t, "PRODUCT_NOT_FOUND", decode[dto.ErrorResponse](t, data).Code)
}

func TestSales_QuoteDoesNotTouchStock(t *testing.T) {
	ta := buildTestApp(t, true)
	p1 := ta.createProduct(t, "Martillo", 100, 10)

	resp, data := ta.do(t, http.MethodPost, "/api/sales/quote", saleBody(0, p1, 2, p1, 1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	quote := decode[dto.QuoteResponse](t, data)
	assert.Equal(t, int64(3), quote.ItemCount)
	assert.True(t, decimal.RequireFromString("354").Equal(quote.Total), quote.Total.String())
	assert.Equal(t, int64(10), ta.quantity(t, p1))
}

func TestSales_ListByRangeAndPDF(t *testing.T) {
	ta := buildTestApp(t, true)
	p1 := ta.createProduct(t, "Martillo", 100, 10)
	cid := ta.createCustomer(t, "Ferretería Sol")

	first := saleBody(cid, p1, 1)
	first["invoice_date"] = "2025-03-15"
	resp, data := ta.do(t, http.MethodPost, "/api/sales", first)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	resp, data = ta.do(t, http.MethodPost, "/api/sales", saleBody(cid, p1, 1))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	second := decode[dto.SaleResponse](t, data)

	resp, data = ta.do(t, http.MethodGet, "/api/sales?from=2025-04-01&to=2025-04-30", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	list := decode[dto.SaleListResponse](t, data)
	require.Len(t, list.Items, 1)
	assert.Equal(t, second.ID, list.Items[0].ID)

	resp, _ = ta.do(t, http.MethodGet, "/api/sales?from=abril", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, data = ta.do(t, http.MethodGet, "/api/sales?limit=500", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "limit", decode[dto.ErrorResponse](t, data).Fields[0].Field)

	resp, data = ta.do(t, http.MethodGet, "/api/sales?limit=1&offset=1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.SaleListResponse](t, data).Items, 1)
	// La página solo describe la ventana pedida.
	page := decode[map[string]any](t, decode[map[string]json.RawMessage](t, data)["page"])
	assert.Equal(t, map[string]any{"limit": float64(1), "offset": float64(1)}, page)

	resp, data = ta.do(t, http.MethodGet, "/api/sales/"+itoa(second.ID)+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".pdf")
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes, salud y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestReports_StockAndReplenishment(t *testing.T) {
	ta := buildTestApp(t, true)
	low := ta.createProduct(t, "Cinta", 20, 2)
	ta.createProduct(t, "Taladro", 900, 40)

	resp, data := ta.do(t, http.MethodGet, "/api/reports/stock", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	stock := decode[dto.StockReportResponse](t, data)
	require.Len(t, stock.Rows, 2)

	resp, data = ta.do(t, http.MethodGet, "/api/inventory/replenishment", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	list := decode[[]dto.ReplenishmentSuggestionDTO](t, data)
	require.Len(t, list, 1)
	assert.Equal(t, low, list[0].ProductID)

	resp, data = ta.do(t, http.MethodGet, "/api/reports/sales?from=2025-05-01&to=2025-04-01", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(data))

	resp, _ = ta.do(t, http.MethodGet, "/api/reports/dashboard", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	ta := buildTestApp(t, true)
	p1 := ta.createProduct(t, "Martillo", 100, 10)
	cid := ta.createCustomer(t, "Ferretería Sol")
	resp, _ := ta.do(t, http.MethodPost, "/api/sales", saleBody(cid, p1, 1))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = ta.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, data := ta.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "facturador_sales_saved_total")
	assert.Contains(t, string(data), "facturador_inventory_reconcile_total")
}

func TestRequireStore_Unavailable(t *testing.T) {
	mem := memory.NewStore()
	ta := buildTestAppWith(t, mem, downStore{mem}, true)

	resp, data := ta.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "STORE_UNAVAILABLE", decode[dto.ErrorResponse](t, data).Code)

	resp, _ = ta.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
