package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct {
	s  *Store
	tx *state
}

func (r *productRepo) Get(ctx context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.with(ctx, r.tx, func(st *state) error {
		out = st.products[id].Clone()
		return nil
	})
	return out, err
}

// GetForUpdate en memoria el mutex de la transacción ya serializa el acceso.
func (r *productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.Get(ctx, id)
}

func (r *productRepo) Add(ctx context.Context, p *entity.Product) (int64, error) {
	err := r.s.with(ctx, r.tx, func(st *state) error {
		st.seqProduct++
		p.ID = st.seqProduct
		st.products[p.ID] = p.Clone()
		return nil
	})
	return p.ID, err
}

func (r *productRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := p.Clone()
		next.Quantity = cur.Quantity
		st.products[p.ID] = next
		return nil
	})
}

func (r *productRepo) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Quantity = quantity
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func (r *productRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	name := strings.ToLower(strings.TrimSpace(f.Name))
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, id := range sortedIDs(st.products) {
			p := st.products[id]
			if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
				continue
			}
			if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
				continue
			}
			out = append(out, p.Clone())
		}
		return nil
	})
	return paginate(out, f.Limit, f.Offset), err
}
