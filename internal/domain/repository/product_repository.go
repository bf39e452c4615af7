package repository

import (
	"context"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// ProductFilter filtros de listado. Name busca por subcadena sin distinguir mayúsculas;
// Category es coincidencia exacta. Limit 0 = sin límite.
type ProductFilter struct {
	Name     string
	Category string
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Get devuelve nil, nil si no existe.
type ProductRepository interface {
	Get(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la transacción
	// en los almacenes que lo soportan.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	Add(ctx context.Context, product *entity.Product) (int64, error)
	// Update guarda los datos maestros. Nunca escribe Quantity: el stock solo cambia con UpdateQuantity.
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, id int64, quantity int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
}
