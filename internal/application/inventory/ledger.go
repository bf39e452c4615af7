package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

// WriteLedger guarda en el kardex un movimiento por cada cambio aplicado.
// Debe llamarse con el repositorio de la misma transacción que actualizó el stock.
func WriteLedger(ctx context.Context, repo repository.StockMovementRepository, saleID int64, res *Result, now time.Time) error {
	if res == nil {
		return nil
	}
	for _, ch := range res.Applied {
		mov := &entity.StockMovement{
			ProductID:     ch.ProductID,
			SaleID:        saleID,
			TransactionID: res.TransactionID,
			Kind:          ch.Kind,
			Delta:         ch.Delta,
			QuantityAfter: ch.After,
			CreatedAt:     now,
		}
		if err := repo.Add(ctx, mov); err != nil {
			return fmt.Errorf("kardex producto %d: %w", ch.ProductID, err)
		}
	}
	return nil
}
