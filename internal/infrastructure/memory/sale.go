package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*saleRepo)(nil)

type saleRepo struct {
	s  *Store
	tx *state
}

func (r *saleRepo) Get(ctx context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.with(ctx, r.tx, func(st *state) error {
		out = st.sales[id].Clone()
		return nil
	})
	return out, err
}

func (r *saleRepo) Add(ctx context.Context, sale *entity.Sale) (int64, error) {
	err := r.s.with(ctx, r.tx, func(st *state) error {
		st.seqSale++
		sale.ID = st.seqSale
		st.sales[sale.ID] = sale.Clone()
		return nil
	})
	return sale.ID, err
}

func (r *saleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if _, ok := st.sales[sale.ID]; !ok {
			return domain.ErrNotFound
		}
		st.sales[sale.ID] = sale.Clone()
		return nil
	})
}

func (r *saleRepo) Delete(ctx context.Context, id int64) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if _, ok := st.sales[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.sales, id)
		return nil
	})
}

func (r *saleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, sale := range st.sales {
			if f.From != nil && sale.InvoiceDate.Before(*f.From) {
				continue
			}
			if f.To != nil && sale.InvoiceDate.After(*f.To) {
				continue
			}
			if f.CustomerID != 0 && sale.Customer.ID != f.CustomerID {
				continue
			}
			out = append(out, sale.Clone())
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].InvoiceDate.Equal(out[j].InvoiceDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].InvoiceDate.Before(out[j].InvoiceDate)
	})
	return paginate(out, f.Limit, f.Offset), err
}
