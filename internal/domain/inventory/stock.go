package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/domain"
)

// Deduct descuenta qty del stock actual. Con allowNegative en false rechaza
// cualquier resultado por debajo de cero.
func Deduct(current, qty int64, allowNegative bool) (int64, error) {
	next := current - qty
	if next < 0 && !allowNegative {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// Restore devuelve qty al stock actual.
func Restore(current, qty int64) int64 {
	return current + qty
}

// WeightedCost calcula el costo promedio ponderado tras una entrada de mercancía.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock actual es negativo se toma como cero para no distorsionar el promedio.
func WeightedCost(stock int64, cost decimal.Decimal, inQty int64, inCost decimal.Decimal) decimal.Decimal {
	if stock < 0 {
		stock = 0
	}
	cur := decimal.NewFromInt(stock)
	in := decimal.NewFromInt(inQty)
	sum := cur.Add(in)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := cur.Mul(cost).Add(in.Mul(inCost))
	return num.Div(sum).Round(2)
}
