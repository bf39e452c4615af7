package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/pkg/config"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

var _ repository.Store = (*Store)(nil)

// Store almacén PostgreSQL. Los repos de Repositories() usan el pool;
// los de RunInTx quedan atados a la transacción.
type Store struct {
	pool *pgxpool.Pool
}

// Open crea el pool y aplica el esquema. Los errores de conexión envuelven domain.ErrStoreUnavailable.
func Open(ctx context.Context, cfg config.DBConfig, lg *logger.Logger) (*Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	if lg != nil {
		lg.Info().Str("host", cfg.Host).Str("db", cfg.DBName).Msg("almacén postgres listo")
	}
	return NewStore(pool), nil
}

// NewStore construye el almacén con un pool ya abierto.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate crea las tablas si no existen.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}

// Repositories devuelve repos sobre el pool.
func (s *Store) Repositories() repository.Repositories {
	return reposFor(s.pool)
}

func reposFor(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:  NewProductRepository(q),
		Customers: NewCustomerRepository(q),
		Sales:     NewSaleRepository(q),
		Movements: NewStockMovementRepository(q),
	}
}

// RunInTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping verifica la conexión.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close cierra el pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
