package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*saleRepo)(nil)

type saleRepo struct {
	db *gorm.DB
}

func (r *saleRepo) Get(ctx context.Context, id int64) (*entity.Sale, error) {
	var m saleModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: venta %d: %w", id, err)
	}
	return m.toEntity()
}

func (r *saleRepo) Add(ctx context.Context, sale *entity.Sale) (int64, error) {
	m, err := toSaleModel(sale)
	if err != nil {
		return 0, err
	}
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return 0, fmt.Errorf("sqlite: crear venta: %w", err)
	}
	sale.ID = m.ID
	return m.ID, nil
}

func (r *saleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	m, err := toSaleModel(sale)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&saleModel{}).
		Where("id = ?", sale.ID).
		Select("*").Omit("id", "created_at").
		Updates(m)
	if res.Error != nil {
		return fmt.Errorf("sqlite: actualizar venta %d: %w", sale.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *saleRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&saleModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("sqlite: borrar venta %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *saleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	q := r.db.WithContext(ctx).Model(&saleModel{})
	if f.From != nil {
		q = q.Where("invoice_date >= ?", f.From.Format(dateLayout))
	}
	if f.To != nil {
		q = q.Where("invoice_date <= ?", f.To.Format(dateLayout))
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	var rows []saleModel
	if err := page(q.Order("invoice_date").Order("id"), f.Limit, f.Offset).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqlite: listar ventas: %w", err)
	}
	out := make([]*entity.Sale, 0, len(rows))
	for i := range rows {
		s, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
