package repository

import (
	"context"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del kardex. Solo se agregan filas.
type StockMovementRepository interface {
	Add(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos del producto, más recientes primero.
	ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error)
}
