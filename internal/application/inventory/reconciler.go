package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Facturador-api/internal/domain/inventory"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

// Operaciones del reconciliador (etiqueta de métricas y logs).
const (
	OpCreate = "create"
	OpEdit   = "edit"
	OpDelete = "delete"
)

// LineItem par producto-cantidad de una venta.
type LineItem struct {
	ProductID int64
	Quantity  int64
}

// StockPolicy política de stock. AllowNegative en false hace fallar el descuento
// de un producto que quedaría por debajo de cero.
type StockPolicy struct {
	AllowNegative bool
}

// StockChange un cambio aplicado a un producto.
type StockChange struct {
	ProductID int64
	Kind      string // entity.MovementSaleDeduct o entity.MovementSaleRestore
	Before    int64
	After     int64
	Delta     int64
}

// Result resumen de una reconciliación.
// Skipped lista productos que ya no existen (no es error).
type Result struct {
	TransactionID string
	Applied       []StockChange
	Skipped       []int64
}

// ProductFailure error al actualizar un producto concreto.
type ProductFailure struct {
	ProductID int64
	Err       error
}

// ReconcileError agrupa los fallos por producto. Los demás productos sí se procesaron.
type ReconcileError struct {
	Operation string
	Failures  []ProductFailure
}

func (e *ReconcileError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("producto %d: %v", f.ProductID, f.Err))
	}
	return fmt.Sprintf("reconciliar inventario (%s): %s", e.Operation, strings.Join(parts, "; "))
}

// Unwrap permite errors.Is sobre cualquiera de los fallos.
func (e *ReconcileError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// ProductIDs ids de los productos que fallaron.
func (e *ReconcileError) ProductIDs() []int64 {
	ids := make([]int64, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ProductID)
	}
	return ids
}

// AsReconcileError extrae un *ReconcileError de la cadena de errores.
func AsReconcileError(err error) (*ReconcileError, bool) {
	var re *ReconcileError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// Reconciler mantiene el stock consistente con las ventas guardadas:
// stock = inicial - Σ cantidades de las ventas vigentes.
type Reconciler struct {
	policy  StockPolicy
	log     *logger.Logger
	metrics MetricsRecorder
}

// NewReconciler construye el reconciliador. log y metrics pueden ser nil.
func NewReconciler(policy StockPolicy, log *logger.Logger, metrics MetricsRecorder) *Reconciler {
	return &Reconciler{
		policy:  policy,
		log:     log.Component("inventory"),
		metrics: metrics,
	}
}

// MergeLineItems suma cantidades de líneas con el mismo producto, conservando el orden
// de primera aparición. Descarta cantidades no positivas.
func MergeLineItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	pos := make(map[int64]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if i, ok := pos[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

// LineItemsOf extrae los pares producto-cantidad de las líneas de una venta.
func LineItemsOf(items []entity.SaleItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// ApplySaleCreate descuenta del stock cada línea de una venta nueva.
func (r *Reconciler) ApplySaleCreate(ctx context.Context, store ProductStore, items []LineItem) (*Result, error) {
	run := r.newRun(OpCreate)
	run.deduct(ctx, store, items)
	return r.finish(run)
}

// ApplySaleEdit devuelve al stock las líneas anteriores y luego descuenta las nuevas.
// La devolución se completa para todos los productos antes de empezar a descontar.
func (r *Reconciler) ApplySaleEdit(ctx context.Context, store ProductStore, oldItems, newItems []LineItem) (*Result, error) {
	run := r.newRun(OpEdit)
	run.restore(ctx, store, oldItems)
	run.deduct(ctx, store, newItems)
	return r.finish(run)
}

// ApplySaleDelete devuelve al stock las líneas de una venta borrada.
func (r *Reconciler) ApplySaleDelete(ctx context.Context, store ProductStore, oldItems []LineItem) (*Result, error) {
	run := r.newRun(OpDelete)
	run.restore(ctx, store, oldItems)
	return r.finish(run)
}

type reconcileRun struct {
	op        string
	policy    StockPolicy
	result    *Result
	failures  []ProductFailure
	skippedAt map[int64]bool
}

func (r *Reconciler) newRun(op string) *reconcileRun {
	return &reconcileRun{
		op:        op,
		policy:    r.policy,
		result:    &Result{TransactionID: uuid.New().String()},
		skippedAt: make(map[int64]bool),
	}
}

// sortedByProduct fusiona y ordena por id para que los bloqueos de fila se tomen siempre en el mismo orden.
func sortedByProduct(items []LineItem) []LineItem {
	merged := MergeLineItems(items)
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged
}

func (run *reconcileRun) restore(ctx context.Context, store ProductStore, items []LineItem) {
	for _, it := range sortedByProduct(items) {
		run.apply(ctx, store, it, entity.MovementSaleRestore)
	}
}

func (run *reconcileRun) deduct(ctx context.Context, store ProductStore, items []LineItem) {
	for _, it := range sortedByProduct(items) {
		run.apply(ctx, store, it, entity.MovementSaleDeduct)
	}
}

func (run *reconcileRun) apply(ctx context.Context, store ProductStore, it LineItem, kind string) {
	if err := ctx.Err(); err != nil {
		run.fail(it.ProductID, err)
		return
	}
	p, err := store.GetForUpdate(ctx, it.ProductID)
	if err != nil {
		run.fail(it.ProductID, fmt.Errorf("leer producto: %w", err))
		return
	}
	if p == nil {
		// Producto borrado: no hay stock que mover.
		if !run.skippedAt[it.ProductID] {
			run.skippedAt[it.ProductID] = true
			run.result.Skipped = append(run.result.Skipped, it.ProductID)
		}
		return
	}

	var next, delta int64
	if kind == entity.MovementSaleRestore {
		next = domaininv.Restore(p.Quantity, it.Quantity)
		delta = it.Quantity
	} else {
		next, err = domaininv.Deduct(p.Quantity, it.Quantity, run.policy.AllowNegative)
		if err != nil {
			run.fail(it.ProductID, err)
			return
		}
		delta = -it.Quantity
	}

	if err := store.UpdateQuantity(ctx, p.ID, next); err != nil {
		run.fail(it.ProductID, fmt.Errorf("actualizar stock: %w", err))
		return
	}
	run.result.Applied = append(run.result.Applied, StockChange{
		ProductID: p.ID,
		Kind:      kind,
		Before:    p.Quantity,
		After:     next,
		Delta:     delta,
	})
}

func (run *reconcileRun) fail(productID int64, err error) {
	run.failures = append(run.failures, ProductFailure{ProductID: productID, Err: err})
}

func (r *Reconciler) finish(run *reconcileRun) (*Result, error) {
	res := run.result
	if r.metrics != nil {
		r.metrics.ObserveReconcile(run.op, len(res.Applied), len(res.Skipped), len(run.failures))
	}
	r.log.Debug().
		Str("operation", run.op).
		Str("transaction_id", res.TransactionID).
		Int("applied", len(res.Applied)).
		Int("skipped", len(res.Skipped)).
		Int("failed", len(run.failures)).
		Msg("reconciliación de inventario")

	if len(run.failures) > 0 {
		return res, &ReconcileError{Operation: run.op, Failures: run.failures}
	}
	return res, nil
}
