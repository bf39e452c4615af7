package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/inventory"
	"github.com/jhoicas/Facturador-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturador-api/internal/domain/billing"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

// Numbering prefijo y sufijo de la numeración de facturas (ej. INV-001-25-26).
type Numbering struct {
	Prefix string
	Suffix string
}

// Format arma el número de factura a partir del consecutivo.
func (n Numbering) Format(seq int64) string {
	parts := make([]string, 0, 3)
	if n.Prefix != "" {
		parts = append(parts, n.Prefix)
	}
	parts = append(parts, fmt.Sprintf("%03d", seq))
	if n.Suffix != "" {
		parts = append(parts, n.Suffix)
	}
	return strings.Join(parts, "-")
}

// SaleUseCase guarda ventas y mantiene el stock consistente.
// La venta, el stock y el kardex se escriben en una sola transacción del almacén.
type SaleUseCase struct {
	store      repository.Store
	reconciler *inventory.Reconciler
	numbering  Numbering
	metrics    SaleMetrics
	log        *logger.Logger
	now        func() time.Time
}

// NewSaleUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewSaleUseCase(
	store repository.Store,
	reconciler *inventory.Reconciler,
	numbering Numbering,
	metrics SaleMetrics,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		store:      store,
		reconciler: reconciler,
		numbering:  numbering,
		metrics:    metrics,
		log:        log.Component("billing"),
		now:        time.Now,
	}
}

// saleLine línea ya fusionada por producto.
type saleLine struct {
	productID int64
	quantity  int64
	price     *decimal.Decimal
}

// saleInput entrada validada, antes de abrir la transacción.
type saleInput struct {
	customerID  int64
	invoiceNo   string
	invoiceDate time.Time
	dueDate     time.Time
	reference   string
	notes       string
	roundOff    decimal.Decimal
	bank        entity.BankDetails
	status      string
	lines       []saleLine
}

// Create valida la venta, la guarda y descuenta el stock de cada línea.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.SaleRequest) (*dto.SaleResponse, error) {
	input, err := uc.parse(in)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var sale *entity.Sale
	var res *inventory.Result
	err = uc.store.RunInTx(ctx, func(tx repository.Repositories) error {
		customer, err := loadCustomer(ctx, tx, input.customerID)
		if err != nil {
			return err
		}
		items, err := snapshotLines(ctx, tx, input.lines, nil)
		if err != nil {
			return err
		}

		sale = &entity.Sale{
			InvoiceNumber: input.invoiceNo,
			Customer:      entity.SnapshotCustomer(customer),
			InvoiceDate:   input.invoiceDate,
			DueDate:       input.dueDate,
			Items:         items,
			Reference:     input.reference,
			Notes:         input.notes,
			BankDetails:   input.bank,
			Status:        input.status,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		applyTotals(sale, input.roundOff)

		if _, err := tx.Sales.Add(ctx, sale); err != nil {
			return fmt.Errorf("guardar venta: %w", err)
		}
		if sale.InvoiceNumber == "" {
			sale.InvoiceNumber = uc.numbering.Format(sale.ID)
			if err := tx.Sales.Update(ctx, sale); err != nil {
				return fmt.Errorf("numerar venta: %w", err)
			}
		}

		res, err = uc.reconciler.ApplySaleCreate(ctx, tx.Products, inventory.LineItemsOf(sale.Items))
		if err != nil {
			return err
		}
		return inventory.WriteLedger(ctx, tx.Movements, sale.ID, res, now)
	})
	if err != nil {
		uc.logFailure(inventory.OpCreate, 0, err)
		return nil, err
	}

	uc.saved(inventory.OpCreate, sale, res)
	out := toSaleResponse(sale)
	out.Stock = toStockSummary(res)
	return out, nil
}

// Update reemplaza la venta. Devuelve al stock las líneas anteriores y descuenta las nuevas.
// Las líneas que ya estaban en la venta conservan su copia del producto.
func (uc *SaleUseCase) Update(ctx context.Context, id int64, in dto.SaleRequest) (*dto.SaleResponse, error) {
	input, err := uc.parse(in)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var sale *entity.Sale
	var res *inventory.Result
	err = uc.store.RunInTx(ctx, func(tx repository.Repositories) error {
		old, err := tx.Sales.Get(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}

		snapshot := old.Customer
		customer, err := loadCustomer(ctx, tx, input.customerID)
		switch {
		case err == nil:
			snapshot = entity.SnapshotCustomer(customer)
		case errors.Is(err, domain.ErrCustomerRequired) && input.customerID == old.Customer.ID:
			// El cliente fue borrado del maestro; la venta conserva su copia.
		default:
			return err
		}

		items, err := snapshotLines(ctx, tx, input.lines, old.Items)
		if err != nil {
			return err
		}

		sale = old.Clone()
		sale.Customer = snapshot
		sale.Items = items
		sale.InvoiceDate = input.invoiceDate
		sale.DueDate = input.dueDate
		sale.Reference = input.reference
		sale.Notes = input.notes
		sale.BankDetails = input.bank
		sale.Status = input.status
		sale.UpdatedAt = now
		if input.invoiceNo != "" {
			sale.InvoiceNumber = input.invoiceNo
		}
		applyTotals(sale, input.roundOff)

		if err := tx.Sales.Update(ctx, sale); err != nil {
			return fmt.Errorf("actualizar venta: %w", err)
		}

		res, err = uc.reconciler.ApplySaleEdit(ctx, tx.Products,
			inventory.LineItemsOf(old.Items), inventory.LineItemsOf(sale.Items))
		if err != nil {
			return err
		}
		return inventory.WriteLedger(ctx, tx.Movements, sale.ID, res, now)
	})
	if err != nil {
		uc.logFailure(inventory.OpEdit, id, err)
		return nil, err
	}

	uc.saved(inventory.OpEdit, sale, res)
	out := toSaleResponse(sale)
	out.Stock = toStockSummary(res)
	return out, nil
}

// Delete borra la venta y devuelve sus líneas al stock.
func (uc *SaleUseCase) Delete(ctx context.Context, id int64) (*dto.StockSummaryDTO, error) {
	now := uc.now()
	var sale *entity.Sale
	var res *inventory.Result
	err := uc.store.RunInTx(ctx, func(tx repository.Repositories) error {
		var err error
		sale, err = tx.Sales.Get(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if err := tx.Sales.Delete(ctx, id); err != nil {
			return fmt.Errorf("borrar venta: %w", err)
		}
		res, err = uc.reconciler.ApplySaleDelete(ctx, tx.Products, inventory.LineItemsOf(sale.Items))
		if err != nil {
			return err
		}
		return inventory.WriteLedger(ctx, tx.Movements, sale.ID, res, now)
	})
	if err != nil {
		uc.logFailure(inventory.OpDelete, id, err)
		return nil, err
	}

	uc.saved(inventory.OpDelete, sale, res)
	return toStockSummary(res), nil
}

// Get obtiene una venta. ErrNotFound si no existe.
func (uc *SaleUseCase) Get(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	sale, err := uc.store.Repositories().Sales.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// GetEntity devuelve la venta tal como está guardada (para PDF y reportes).
func (uc *SaleUseCase) GetEntity(ctx context.Context, id int64) (*entity.Sale, error) {
	sale, err := uc.store.Repositories().Sales.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// List lista ventas por rango de fecha de factura.
func (uc *SaleUseCase) List(ctx context.Context, filter repository.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.store.Repositories().Sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Quote calcula los totales de una venta sin guardarla ni tocar el stock.
func (uc *SaleUseCase) Quote(ctx context.Context, in dto.SaleRequest) (*dto.QuoteResponse, error) {
	input, err := uc.parse(in)
	if err != nil && !errors.Is(err, domain.ErrCustomerRequired) {
		return nil, err
	}
	if input == nil {
		return nil, err
	}
	items, err := snapshotLines(ctx, uc.store.Repositories(), input.lines, nil)
	if err != nil {
		return nil, err
	}
	t := domainbilling.ComputeTotals(items, input.roundOff)
	return &dto.QuoteResponse{
		Items:     toItemResponses(items),
		ItemCount: t.ItemCount,
		Subtotal:  t.Subtotal,
		TaxTotal:  t.TaxTotal,
		RoundOff:  t.RoundOff,
		Total:     t.Total,
	}, nil
}

// parse valida la entrada fuera de la transacción. El cliente se exige aparte para
// que Quote pueda calcular sin él.
func (uc *SaleUseCase) parse(in dto.SaleRequest) (*saleInput, error) {
	input := &saleInput{
		customerID: in.CustomerID,
		invoiceNo:  strings.TrimSpace(in.InvoiceNumber),
		reference:  in.Reference,
		notes:      in.Notes,
		roundOff:   in.RoundOff,
		bank: entity.BankDetails{
			BankName:      in.BankDetails.BankName,
			IFSC:          in.BankDetails.IFSC,
			AccountNumber: in.BankDetails.AccountNumber,
			Branch:        in.BankDetails.Branch,
		},
		status: in.Status,
	}
	if input.status == "" {
		input.status = entity.SaleStatusIssued
	}
	if input.status != entity.SaleStatusIssued && input.status != entity.SaleStatusDraft {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}

	var err error
	input.invoiceDate, err = parseDate(in.InvoiceDate)
	if err != nil {
		return nil, err
	}
	if input.invoiceDate.IsZero() {
		n := uc.now()
		input.invoiceDate = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	}
	input.dueDate, err = parseDate(in.DueDate)
	if err != nil {
		return nil, err
	}
	if !input.dueDate.IsZero() && input.dueDate.Before(input.invoiceDate) {
		return nil, fmt.Errorf("%w: la fecha de vencimiento es anterior a la de factura", domain.ErrInvalidInput)
	}

	pos := make(map[int64]int, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		if it.SellingPrice != nil && it.SellingPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo en producto %d", domain.ErrInvalidInput, it.ProductID)
		}
		if it.Quantity == 0 {
			continue
		}
		// Agregar el mismo producto dos veces suma cantidades en una sola línea.
		if i, ok := pos[it.ProductID]; ok {
			input.lines[i].quantity += it.Quantity
			continue
		}
		pos[it.ProductID] = len(input.lines)
		input.lines = append(input.lines, saleLine{productID: it.ProductID, quantity: it.Quantity, price: it.SellingPrice})
	}
	if len(input.lines) == 0 {
		return nil, domain.ErrEmptySale
	}
	if input.customerID <= 0 {
		return input, domain.ErrCustomerRequired
	}
	return input, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func loadCustomer(ctx context.Context, tx repository.Repositories, id int64) (*entity.Customer, error) {
	if id <= 0 {
		return nil, domain.ErrCustomerRequired
	}
	c, err := tx.Customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCustomerRequired
	}
	return c, nil
}

// snapshotLines arma las líneas de la venta. Si el producto ya estaba en previous se reutiliza
// esa copia; si no, se copia el maestro actual.
func snapshotLines(ctx context.Context, repos repository.Repositories, lines []saleLine, previous []entity.SaleItem) ([]entity.SaleItem, error) {
	prev := make(map[int64]entity.SaleItem, len(previous))
	for _, it := range previous {
		if _, ok := prev[it.ProductID]; !ok {
			prev[it.ProductID] = it
		}
	}

	items := make([]entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		item, ok := prev[l.productID]
		if !ok {
			p, err := repos.Products.Get(ctx, l.productID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, l.productID)
			}
			item = entity.SnapshotProduct(p, 0)
		}
		item.Quantity = l.quantity
		if l.price != nil {
			item.SellingPrice = *l.price
		}
		items = append(items, item)
	}
	return items, nil
}

func applyTotals(sale *entity.Sale, roundOff decimal.Decimal) {
	t := domainbilling.ComputeTotals(sale.Items, roundOff)
	sale.Subtotal = t.Subtotal
	sale.TaxTotal = t.TaxTotal
	sale.RoundOff = t.RoundOff
	sale.Total = t.Total
}

func (uc *SaleUseCase) saved(op string, sale *entity.Sale, res *inventory.Result) {
	if uc.metrics != nil {
		uc.metrics.IncSaleSaved(op)
	}
	ev := uc.log.Info().
		Str("operation", op).
		Int64("sale_id", sale.ID).
		Str("invoice_number", sale.InvoiceNumber).
		Str("total", sale.Total.StringFixed(2))
	if res != nil {
		ev = ev.Str("transaction_id", res.TransactionID).Int("stock_changes", len(res.Applied))
		if len(res.Skipped) > 0 {
			ev = ev.Ints64("skipped_products", res.Skipped)
		}
	}
	ev.Msg("venta guardada")
}

func (uc *SaleUseCase) logFailure(op string, id int64, err error) {
	if re, ok := inventory.AsReconcileError(err); ok {
		uc.log.Warn().
			Str("operation", op).
			Int64("sale_id", id).
			Ints64("failed_products", re.ProductIDs()).
			Err(err).
			Msg("reconciliación fallida, transacción revertida")
		return
	}
	uc.log.Debug().Str("operation", op).Int64("sale_id", id).Err(err).Msg("venta no guardada")
}
