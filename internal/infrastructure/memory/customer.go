package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*customerRepo)(nil)

type customerRepo struct {
	s  *Store
	tx *state
}

func (r *customerRepo) Get(ctx context.Context, id int64) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.s.with(ctx, r.tx, func(st *state) error {
		out = st.customers[id].Clone()
		return nil
	})
	return out, err
}

func (r *customerRepo) GetByGSTIN(ctx context.Context, gstin string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, id := range sortedIDs(st.customers) {
			if c := st.customers[id]; gstin != "" && strings.EqualFold(c.GSTIN, gstin) {
				out = c.Clone()
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *customerRepo) Add(ctx context.Context, c *entity.Customer) (int64, error) {
	err := r.s.with(ctx, r.tx, func(st *state) error {
		st.seqCustomer++
		c.ID = st.seqCustomer
		st.customers[c.ID] = c.Clone()
		return nil
	})
	return c.ID, err
}

func (r *customerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if _, ok := st.customers[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.customers[c.ID] = c.Clone()
		return nil
	})
}

func (r *customerRepo) Delete(ctx context.Context, id int64) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if _, ok := st.customers[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.customers, id)
		return nil
	})
}

func (r *customerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	var out []*entity.Customer
	name := strings.ToLower(strings.TrimSpace(f.Name))
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, id := range sortedIDs(st.customers) {
			c := st.customers[id]
			if name != "" && !strings.Contains(strings.ToLower(c.Name), name) {
				continue
			}
			if f.GSTIN != "" && !strings.EqualFold(c.GSTIN, f.GSTIN) {
				continue
			}
			out = append(out, c.Clone())
		}
		return nil
	})
	return paginate(out, f.Limit, f.Offset), err
}
