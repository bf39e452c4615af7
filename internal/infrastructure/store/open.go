// Package store elige el almacén de documentos según STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/memory"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Facturador-api/pkg/config"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

// Open abre el almacén configurado.
func Open(ctx context.Context, cfg *config.Config, lg *logger.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		return sqlite.Open(ctx, cfg.Store.SQLitePath(), lg)
	case config.StoreDriverPostgres:
		return postgres.Open(ctx, cfg.DB, lg)
	case config.StoreDriverMemory:
		if lg != nil {
			lg.Warn().Msg("almacén en memoria: los datos se pierden al cerrar")
		}
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("driver de almacén no soportado: %q", cfg.Store.Driver)
	}
}
