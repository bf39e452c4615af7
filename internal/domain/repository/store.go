package repository

import "context"

// Repositories agrupa los repositorios atados a una misma conexión o transacción.
type Repositories struct {
	Products  ProductRepository
	Customers CustomerRepository
	Sales     SaleRepository
	Movements StockMovementRepository
}

// Store es el almacén de documentos de la aplicación (products, customers, sales).
// Se inyecta en los casos de uso; no hay instancia global.
type Store interface {
	// Repositories devuelve repositorios sin transacción (lecturas y escrituras sueltas).
	Repositories() Repositories
	// RunInTx ejecuta fn dentro de una transacción. Si fn devuelve error se hace rollback.
	RunInTx(ctx context.Context, fn func(tx Repositories) error) error
	Ping(ctx context.Context) error
	Close() error
}
