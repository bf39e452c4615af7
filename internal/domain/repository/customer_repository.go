package repository

import (
	"context"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// CustomerFilter filtros de listado de clientes.
type CustomerFilter struct {
	Name   string
	GSTIN  string
	Limit  int
	Offset int
}

// CustomerRepository define el puerto de persistencia para Customer (facturación).
type CustomerRepository interface {
	Get(ctx context.Context, id int64) (*entity.Customer, error)
	GetByGSTIN(ctx context.Context, gstin string) (*entity.Customer, error)
	Add(ctx context.Context, customer *entity.Customer) (int64, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, error)
}
