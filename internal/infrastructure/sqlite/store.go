// Package sqlite implementa el almacén embebido sobre SQLite con GORM.
// Es el almacén por defecto: un archivo <dir>/<namespace>.db en la máquina del usuario.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

var _ repository.Store = (*Store)(nil)

// Store almacén SQLite. Una sola conexión: SQLite admite un escritor a la vez
// y así las transacciones quedan serializadas.
type Store struct {
	db *gorm.DB
}

// Open abre (o crea) el archivo de base de datos y aplica las migraciones.
func Open(ctx context.Context, path string, lg *logger.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: crear directorio %s: %v", domain.ErrStoreUnavailable, dir, err)
		}
	}
	dsn := path + "?_busy_timeout=5000&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: abrir %s: %v", domain.ErrStoreUnavailable, path, err)
	}
	s, err := NewStore(ctx, db)
	if err != nil {
		return nil, err
	}
	if lg != nil {
		lg.Info().Str("path", path).Msg("almacén sqlite listo")
	}
	return s, nil
}

// NewStore envuelve una conexión GORM ya abierta y aplica las migraciones.
func NewStore(ctx context.Context, db *gorm.DB) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: ping: %v", domain.ErrStoreUnavailable, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&productModel{}, &customerModel{}, &saleModel{}, &movementModel{}); err != nil {
		return nil, fmt.Errorf("sqlite: migrar: %w", err)
	}
	return &Store{db: db}, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
	}
}

// Repositories devuelve repositorios sobre la conexión base.
func (s *Store) Repositories() repository.Repositories {
	return reposFor(s.db)
}

func reposFor(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Products:  &productRepo{db: db},
		Customers: &customerRepo{db: db},
		Sales:     &saleRepo{db: db},
		Movements: &movementRepo{db: db},
	}
}

// RunInTx ejecuta fn en una transacción; rollback si fn devuelve error o entra en pánico.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

// Ping verifica que el archivo siga accesible.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close cierra la conexión.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// page aplica limit/offset. SQLite exige LIMIT cuando hay OFFSET.
func page(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	} else if offset > 0 {
		q = q.Limit(math.MaxInt32)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
