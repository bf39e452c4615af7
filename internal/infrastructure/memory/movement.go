package memory

import (
	"context"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*movementRepo)(nil)

type movementRepo struct {
	s  *Store
	tx *state
}

func (r *movementRepo) Add(ctx context.Context, m *entity.StockMovement) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		st.seqMovement++
		m.ID = st.seqMovement
		cp := *m
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if m := st.movements[i]; m.ProductID == productID {
				cp := *m
				out = append(out, &cp)
			}
		}
		return nil
	})
	return paginate(out, limit, offset), err
}
