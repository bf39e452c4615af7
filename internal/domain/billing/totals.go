// Package billing contiene el cálculo de totales de una venta (funciones puras).
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals resumen de montos de una venta.
type Totals struct {
	ItemCount int64           // unidades vendidas
	Subtotal  decimal.Decimal // Σ precio * cantidad
	TaxTotal  decimal.Decimal // Σ precio * cantidad * tasa / 100
	RoundOff  decimal.Decimal
	Total     decimal.Decimal // Subtotal + TaxTotal + RoundOff
}

// LineBase precio * cantidad, sin impuesto.
func LineBase(item entity.SaleItem) decimal.Decimal {
	return item.SellingPrice.Mul(decimal.NewFromInt(item.Quantity))
}

// LineTax impuesto de la línea.
func LineTax(item entity.SaleItem) decimal.Decimal {
	return LineBase(item).Mul(item.TaxRate).Div(hundred)
}

// LineAmount importe de la línea con impuesto incluido.
func LineAmount(item entity.SaleItem) decimal.Decimal {
	return LineBase(item).Add(LineTax(item))
}

// ComputeTotals calcula subtotal, impuesto y total. Sin efectos secundarios.
func ComputeTotals(items []entity.SaleItem, roundOff decimal.Decimal) Totals {
	t := Totals{
		Subtotal: decimal.Zero,
		TaxTotal: decimal.Zero,
		RoundOff: roundOff,
	}
	for _, it := range items {
		t.ItemCount += it.Quantity
		t.Subtotal = t.Subtotal.Add(LineBase(it))
		t.TaxTotal = t.TaxTotal.Add(LineTax(it))
	}
	t.Total = t.Subtotal.Add(t.TaxTotal).Add(roundOff)
	return t
}
