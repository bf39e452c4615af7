package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

const salesWindowDays = 90

// ReplenishmentUseCase genera la lista de reposición: productos con stock en o bajo el umbral.
// Combina el stock actual con las ventas recientes para priorizar.
type ReplenishmentUseCase struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	threshold int64
	now       func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	threshold int64,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		products:  products,
		sales:     sales,
		threshold: threshold,
		now:       time.Now,
	}
}

type soldStats struct {
	units   int64
	revenue decimal.Decimal
	cost    decimal.Decimal
}

// GenerateReplenishmentList devuelve los productos en o bajo el umbral con la cantidad
// sugerida de pedido y un ranking de prioridad basado en margen y volumen de ventas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Productos en o bajo el umbral
	all, err := uc.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	low := make([]*entity.Product, 0)
	for _, p := range all {
		if p.Quantity <= uc.threshold {
			low = append(low, p)
		}
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Ventas de los últimos 90 días por producto
	n := uc.now()
	end := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -salesWindowDays)
	sales, err := uc.sales.List(ctx, repository.SaleFilter{From: &start, To: &end})
	if err != nil {
		return nil, err
	}
	stats := make(map[int64]*soldStats)
	for _, s := range sales {
		if s.Status == entity.SaleStatusDraft {
			continue
		}
		for _, it := range s.Items {
			st, ok := stats[it.ProductID]
			if !ok {
				st = &soldStats{revenue: decimal.Zero, cost: decimal.Zero}
				stats[it.ProductID] = st
			}
			qty := decimal.NewFromInt(it.Quantity)
			st.units += it.Quantity
			st.revenue = st.revenue.Add(it.SellingPrice.Mul(qty))
			st.cost = st.cost.Add(it.PurchasePrice.Mul(qty))
		}
	}

	// 3. Construir los DTOs
	hundred := decimal.NewFromInt(100)
	idealStock := decimal.NewFromInt(uc.threshold).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		suggestedQty := idealStock - p.Quantity
		if suggestedQty < 0 {
			suggestedQty = 0
		}

		var grossMarginPct decimal.Decimal
		var unitsSold int64
		if st, ok := stats[p.ID]; ok && st.revenue.IsPositive() {
			unitsSold = st.units
			grossMarginPct = st.revenue.Sub(st.cost).Div(st.revenue).Mul(hundred).Round(2)
		} else if p.SellingPrice.IsPositive() {
			// Sin historial de ventas: estimar margen por precio y costo
			grossMarginPct = p.SellingPrice.Sub(p.PurchasePrice).Div(p.SellingPrice).Mul(hundred).Round(2)
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:           p.ID,
			ProductName:         p.Name,
			Category:            p.Category,
			CurrentStock:        p.Quantity,
			ReorderPoint:        uc.threshold,
			IdealStock:          idealStock,
			SuggestedOrderQty:   suggestedQty,
			UnitCost:            p.PurchasePrice,
			EstimatedOrderCost:  p.PurchasePrice.Mul(decimal.NewFromInt(suggestedQty)),
			GrossMarginPct:      grossMarginPct,
			UnitsSoldLast90Days: unitsSold,
		})
	}

	// 4. Ordenar: mayor margen, luego mayor volumen, luego mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsSoldLast90Days != b.UnitsSoldLast90Days {
			return a.UnitsSoldLast90Days > b.UnitsSoldLast90Days
		}
		return a.CurrentStock < b.CurrentStock
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}

	return suggestions, nil
}
