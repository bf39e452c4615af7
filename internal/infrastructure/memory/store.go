// Package memory implementa el almacén de documentos en memoria del proceso.
// Se usa en tests y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

type state struct {
	products    map[int64]*entity.Product
	customers   map[int64]*entity.Customer
	sales       map[int64]*entity.Sale
	movements   []*entity.StockMovement
	seqProduct  int64
	seqCustomer int64
	seqSale     int64
	seqMovement int64
}

func newState() *state {
	return &state{
		products:  make(map[int64]*entity.Product),
		customers: make(map[int64]*entity.Customer),
		sales:     make(map[int64]*entity.Sale),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:    make(map[int64]*entity.Product, len(s.products)),
		customers:   make(map[int64]*entity.Customer, len(s.customers)),
		sales:       make(map[int64]*entity.Sale, len(s.sales)),
		movements:   make([]*entity.StockMovement, len(s.movements)),
		seqProduct:  s.seqProduct,
		seqCustomer: s.seqCustomer,
		seqSale:     s.seqSale,
		seqMovement: s.seqMovement,
	}
	for id, p := range s.products {
		c.products[id] = p.Clone()
	}
	for id, cu := range s.customers {
		c.customers[id] = cu.Clone()
	}
	for id, sa := range s.sales {
		c.sales[id] = sa.Clone()
	}
	for i, m := range s.movements {
		cp := *m
		c.movements[i] = &cp
	}
	return c
}

// Store almacén en memoria. Una transacción toma el mutex durante todo el callback
// y trabaja sobre una copia; el rollback consiste en descartarla.
// Dentro de RunInTx solo deben usarse los repositorios recibidos por el callback.
type Store struct {
	mu     sync.Mutex
	st     *state
	closed bool
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repositories devuelve repositorios que toman el mutex en cada llamada.
func (s *Store) Repositories() repository.Repositories {
	return s.reposFor(nil)
}

func (s *Store) reposFor(tx *state) repository.Repositories {
	return repository.Repositories{
		Products:  &productRepo{s: s, tx: tx},
		Customers: &customerRepo{s: s, tx: tx},
		Sales:     &saleRepo{s: s, tx: tx},
		Movements: &movementRepo{s: s, tx: tx},
	}
}

// RunInTx ejecuta fn sobre una copia del estado y la publica solo si fn no devuelve error.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(s.reposFor(work)); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Ping falla si el almacén fue cerrado.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreUnavailable
	}
	return ctx.Err()
}

// Close marca el almacén como no disponible.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// with ejecuta fn sobre el estado de la transacción o, sin transacción, bajo el mutex.
func (s *Store) with(ctx context.Context, tx *state, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreUnavailable
	}
	return fn(s.st)
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
