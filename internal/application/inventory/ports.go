package inventory

import (
	"context"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// ProductStore es lo mínimo que el reconciliador necesita del almacén de productos.
// repository.ProductRepository lo satisface; dentro de RunInTx las lecturas bloquean la fila.
type ProductStore interface {
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int64) error
}

// MetricsRecorder recibe el resumen de cada reconciliación. observability.Metrics lo implementa.
type MetricsRecorder interface {
	ObserveReconcile(operation string, applied, skipped, failed int)
}
