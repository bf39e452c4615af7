package entity

import "time"

// Tipos de movimiento del kardex.
const (
	MovementSaleDeduct   = "sale_deduct"   // salida por venta
	MovementSaleRestore  = "sale_restore"  // devolución al editar o borrar una venta
	MovementManualAdjust = "manual_adjust" // ajuste manual
)

// StockMovement es una línea del kardex. Delta es con signo; QuantityAfter es el stock resultante.
type StockMovement struct {
	ID            int64
	ProductID     int64
	SaleID        int64 // 0 para ajustes manuales
	TransactionID string
	Kind          string
	Delta         int64
	QuantityAfter int64
	Notes         string
	CreatedAt     time.Time
}
