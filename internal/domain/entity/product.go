package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Quantity es el stock disponible; puede quedar negativo si la política de inventario lo permite.
type Product struct {
	ID            int64
	Name          string
	SellingPrice  decimal.Decimal
	PurchasePrice decimal.Decimal
	TaxRate       decimal.Decimal // porcentaje: 18 = 18%
	HSN           string          // código HSN/SAC
	Barcode       string
	Category      string
	Image         string
	Description   string
	Quantity      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone devuelve una copia independiente del producto.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
