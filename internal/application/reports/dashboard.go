package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	domainbilling "github.com/jhoicas/Facturador-api/internal/domain/billing"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

const dashboardTopProducts = 5

var hundred = decimal.NewFromInt(100)

// salesMetrics ventas sin impuesto y su costo de compra, ambos tomados de la copia de cada línea.
type salesMetrics struct {
	revenue decimal.Decimal
	cost    decimal.Decimal
}

// Dashboard construye el resumen del día y del mes en curso.
// Las ventas en borrador no cuentan como ingreso.
//
// Tres lecturas en paralelo:
//  1. ventas de hoy    → TodaySales + TodayMargin
//  2. ventas del mes   → MonthlySales + MonthlyMargin
//  3. ventas del mes   → TopProducts
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Las fechas de factura se guardan a medianoche UTC.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	type metricsResult struct {
		m   salesMetrics
		err error
	}
	type topResult struct {
		top []dto.TopProductDTO
		err error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		sales, err := uc.issuedSales(ctx, today, today)
		todayCh <- metricsResult{metricsOf(sales), err}
	}()
	go func() {
		sales, err := uc.issuedSales(ctx, monthStart, today)
		monthCh <- metricsResult{metricsOf(sales), err}
	}()
	go func() {
		sales, err := uc.issuedSales(ctx, monthStart, today)
		topCh <- topResult{topProducts(sales, dashboardTopProducts), err}
	}()

	todayRes := <-todayCh
	monthRes := <-monthCh
	topRes := <-topCh

	if todayRes.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", todayRes.err)
	}
	if monthRes.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", monthRes.err)
	}
	if topRes.err != nil {
		return nil, fmt.Errorf("dashboard: productos más vendidos: %w", topRes.err)
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:    todayRes.m.revenue.Round(2),
		TodayMargin:   todayRes.m.revenue.Sub(todayRes.m.cost).Round(2),
		MonthlySales:  monthRes.m.revenue.Round(2),
		MonthlyMargin: monthRes.m.revenue.Sub(monthRes.m.cost).Round(2),
		TopProducts:   topRes.top,
		DateLabel:     monthLabel(now),
	}, nil
}

func (uc *UseCase) issuedSales(ctx context.Context, from, to time.Time) ([]*entity.Sale, error) {
	list, err := uc.sales.List(ctx, repository.SaleFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for _, s := range list {
		if s.Status != entity.SaleStatusDraft {
			out = append(out, s)
		}
	}
	return out, nil
}

func metricsOf(sales []*entity.Sale) salesMetrics {
	m := salesMetrics{revenue: decimal.Zero, cost: decimal.Zero}
	for _, s := range sales {
		for _, it := range s.Items {
			m.revenue = m.revenue.Add(domainbilling.LineBase(it))
			m.cost = m.cost.Add(it.PurchasePrice.Mul(decimal.NewFromInt(it.Quantity)))
		}
	}
	return m
}

// topProducts agrupa por producto y ordena por ingreso; empate por cantidad y luego id.
func topProducts(sales []*entity.Sale, limit int) []dto.TopProductDTO {
	type agg struct {
		name    string
		qty     int64
		revenue decimal.Decimal
		cost    decimal.Decimal
	}
	byID := make(map[int64]*agg)
	for _, s := range sales {
		for _, it := range s.Items {
			a, ok := byID[it.ProductID]
			if !ok {
				a = &agg{name: it.Name, revenue: decimal.Zero, cost: decimal.Zero}
				byID[it.ProductID] = a
			}
			a.qty += it.Quantity
			a.revenue = a.revenue.Add(domainbilling.LineBase(it))
			a.cost = a.cost.Add(it.PurchasePrice.Mul(decimal.NewFromInt(it.Quantity)))
		}
	}

	out := make([]dto.TopProductDTO, 0, len(byID))
	for id, a := range byID {
		margin := decimal.Zero
		if a.revenue.IsPositive() {
			margin = a.revenue.Sub(a.cost).Div(a.revenue).Mul(hundred).Round(2)
		}
		out = append(out, dto.TopProductDTO{
			ProductID:        id,
			ProductName:      a.name,
			QuantitySold:     a.qty,
			TotalRevenue:     a.revenue.Round(2),
			MarginPercentage: margin,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.TotalRevenue.Equal(b.TotalRevenue) {
			return a.TotalRevenue.GreaterThan(b.TotalRevenue)
		}
		if a.QuantitySold != b.QuantitySold {
			return a.QuantitySold > b.QuantitySold
		}
		return a.ProductID < b.ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
