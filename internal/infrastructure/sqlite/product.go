package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) Get(ctx context.Context, id int64) (*entity.Product, error) {
	var m productModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: producto %d: %w", id, err)
	}
	return m.toEntity(), nil
}

// GetForUpdate en SQLite la transacción ya tiene el archivo para escritura.
func (r *productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.Get(ctx, id)
}

func (r *productRepo) Add(ctx context.Context, product *entity.Product) (int64, error) {
	m := toProductModel(product)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return 0, fmt.Errorf("sqlite: crear producto: %w", err)
	}
	product.ID = m.ID
	product.CreatedAt, product.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return m.ID, nil
}

func (r *productRepo) Update(ctx context.Context, product *entity.Product) error {
	m := toProductModel(product)
	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("id = ?", product.ID).
		Select("*").Omit("id", "created_at", "quantity").
		Updates(m)
	if res.Error != nil {
		return fmt.Errorf("sqlite: actualizar producto %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("sqlite: stock del producto %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&productModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("sqlite: borrar producto %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	q := r.db.WithContext(ctx).Model(&productModel{})
	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var rows []productModel
	if err := page(q.Order("id"), f.Limit, f.Offset).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqlite: listar productos: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}
