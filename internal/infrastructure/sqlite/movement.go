package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*movementRepo)(nil)

type movementRepo struct {
	db *gorm.DB
}

func (r *movementRepo) Add(ctx context.Context, mv *entity.StockMovement) error {
	m := &movementModel{
		ProductID:     mv.ProductID,
		SaleID:        mv.SaleID,
		TransactionID: mv.TransactionID,
		Kind:          mv.Kind,
		Delta:         mv.Delta,
		QuantityAfter: mv.QuantityAfter,
		Notes:         mv.Notes,
		CreatedAt:     mv.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("sqlite: registrar movimiento: %w", err)
	}
	mv.ID = m.ID
	return nil
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var rows []movementModel
	q := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id DESC")
	if err := page(q, limit, offset).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqlite: kardex del producto %d: %w", productID, err)
	}
	out := make([]*entity.StockMovement, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}
