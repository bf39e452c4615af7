package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// SaleFilter filtra por rango de fecha de factura (ambos extremos incluidos).
type SaleFilter struct {
	From       *time.Time
	To         *time.Time
	CustomerID int64
	Limit      int
	Offset     int
}

// SaleRepository define el puerto de persistencia de ventas.
// El cliente y las líneas se guardan como documento embebido en la venta.
type SaleRepository interface {
	Get(ctx context.Context, id int64) (*entity.Sale, error)
	Add(ctx context.Context, sale *entity.Sale) (int64, error)
	Update(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id int64) error
	// List ordena por fecha de factura y luego por id.
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}
