package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Facturador-api/internal/domain/inventory"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

// AdjustStockUseCase registra ajustes manuales de stock (conteo físico, entradas de mercancía)
// dentro de una transacción con bloqueo de fila.
type AdjustStockUseCase struct {
	store  repository.Store
	policy StockPolicy
	log    *logger.Logger
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(store repository.Store, policy StockPolicy, log *logger.Logger) *AdjustStockUseCase {
	return &AdjustStockUseCase{store: store, policy: policy, log: log.Component("inventory")}
}

// AdjustInput entrada de un ajuste. Delta positivo es entrada; UnitCost solo aplica a entradas
// y recalcula el precio de compra por promedio ponderado.
type AdjustInput struct {
	ProductID int64
	Delta     int64
	UnitCost  *decimal.Decimal
	Notes     string
}

// Adjust aplica el ajuste y lo registra en el kardex como manual_adjust.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.Product, *entity.StockMovement, error) {
	if in.ProductID <= 0 || in.Delta == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && (in.Delta < 0 || in.UnitCost.IsNegative()) {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var product *entity.Product
	var mov *entity.StockMovement
	err := uc.store.RunInTx(ctx, func(tx repository.Repositories) error {
		p, err := tx.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}

		var next int64
		if in.Delta > 0 {
			next = domaininv.Restore(p.Quantity, in.Delta)
		} else {
			next, err = domaininv.Deduct(p.Quantity, -in.Delta, uc.policy.AllowNegative)
			if err != nil {
				return err
			}
		}

		if in.UnitCost != nil {
			p.PurchasePrice = domaininv.WeightedCost(p.Quantity, p.PurchasePrice, in.Delta, *in.UnitCost)
			p.UpdatedAt = now
			if err := tx.Products.Update(ctx, p); err != nil {
				return err
			}
		}
		if err := tx.Products.UpdateQuantity(ctx, p.ID, next); err != nil {
			return err
		}
		p.Quantity = next
		p.UpdatedAt = now

		mov = &entity.StockMovement{
			ProductID:     p.ID,
			TransactionID: uuid.New().String(),
			Kind:          entity.MovementManualAdjust,
			Delta:         in.Delta,
			QuantityAfter: next,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		if err := tx.Movements.Add(ctx, mov); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	uc.log.Info().
		Int64("product_id", product.ID).
		Int64("delta", in.Delta).
		Int64("quantity", product.Quantity).
		Msg("ajuste manual de stock")
	return product, mov, nil
}

// ListMovements devuelve el kardex del producto. ErrNotFound si el producto no existe.
func (uc *AdjustStockUseCase) ListMovements(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	repos := uc.store.Repositories()
	p, err := repos.Products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return repos.Movements.ListByProduct(ctx, productID, limit, offset)
}
