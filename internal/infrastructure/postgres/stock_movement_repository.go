package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre PostgreSQL. Solo inserciones.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Add registra un movimiento.
func (r *StockMovementRepo) Add(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (product_id, sale_id, transaction_id, kind, delta, quantity_after, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.SaleID, m.TransactionID, m.Kind, m.Delta, m.QuantityAfter, m.Notes, nullTime(m.CreatedAt),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var lq listQuery
	lq.add("product_id = $%d", productID)
	query, args := lq.build(
		`SELECT id, product_id, sale_id, transaction_id, kind, delta, quantity_after, notes, created_at FROM stock_movements`,
		"id DESC", limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.SaleID, &m.TransactionID, &m.Kind, &m.Delta,
			&m.QuantityAfter, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
