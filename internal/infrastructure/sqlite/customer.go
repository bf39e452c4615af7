package sqlite

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*customerRepo)(nil)

type customerRepo struct {
	db *gorm.DB
}

func (r *customerRepo) Get(ctx context.Context, id int64) (*entity.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *customerRepo) GetByGSTIN(ctx context.Context, gstin string) (*entity.Customer, error) {
	return r.first(ctx, "gstin = ?", gstin)
}

func (r *customerRepo) first(ctx context.Context, where string, arg any) (*entity.Customer, error) {
	var m customerModel
	if err := r.db.WithContext(ctx).Where(where, arg).Order("id").First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: cliente: %w", err)
	}
	return m.toEntity(), nil
}

func (r *customerRepo) Add(ctx context.Context, customer *entity.Customer) (int64, error) {
	m := toCustomerModel(customer)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return 0, fmt.Errorf("sqlite: crear cliente: %w", err)
	}
	customer.ID = m.ID
	customer.CreatedAt, customer.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return m.ID, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	res := r.db.WithContext(ctx).Model(&customerModel{}).
		Where("id = ?", customer.ID).
		Select("*").Omit("id", "created_at").
		Updates(toCustomerModel(customer))
	if res.Error != nil {
		return fmt.Errorf("sqlite: actualizar cliente %d: %w", customer.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&customerModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("sqlite: borrar cliente %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *customerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	q := r.db.WithContext(ctx).Model(&customerModel{})
	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if f.GSTIN != "" {
		q = q.Where("gstin = ?", strings.ToUpper(f.GSTIN))
	}
	var rows []customerModel
	if err := page(q.Order("id"), f.Limit, f.Offset).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqlite: listar clientes: %w", err)
	}
	out := make([]*entity.Customer, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}
