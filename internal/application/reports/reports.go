// Package reports contiene los reportes de solo lectura: registro de ventas,
// stock por producto y el dashboard de ventas del día y del mes.
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// UseCase genera reportes a partir de los repositorios de productos y ventas.
type UseCase struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	threshold int64
	now       func() time.Time
}

// NewUseCase construye el caso de uso. lowStockThreshold marca como "stock bajo"
// los productos con cantidad menor o igual al umbral.
func NewUseCase(repos repository.Repositories, lowStockThreshold int64) *UseCase {
	return &UseCase{
		products:  repos.Products,
		sales:     repos.Sales,
		threshold: lowStockThreshold,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// SalesRegister lista las ventas del rango (extremos incluidos) con sus totales y la suma general.
func (uc *UseCase) SalesRegister(ctx context.Context, from, to *time.Time) (*dto.SalesRegisterResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.sales.List(ctx, repository.SaleFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	resp := &dto.SalesRegisterResponse{
		Rows:     make([]dto.SalesRegisterRow, 0, len(list)),
		Subtotal: decimal.Zero,
		TaxTotal: decimal.Zero,
		Total:    decimal.Zero,
	}
	if from != nil {
		resp.From = from.Format(dateLayout)
	}
	if to != nil {
		resp.To = to.Format(dateLayout)
	}
	for _, s := range list {
		row := dto.SalesRegisterRow{
			SaleID:        s.ID,
			InvoiceNumber: s.InvoiceNumber,
			InvoiceDate:   s.InvoiceDate.Format(dateLayout),
			CustomerName:  s.Customer.Name,
			Status:        s.Status,
			Subtotal:      s.Subtotal,
			TaxTotal:      s.TaxTotal,
			Total:         s.Total,
		}
		if !s.DueDate.IsZero() {
			row.DueDate = s.DueDate.Format(dateLayout)
		}
		resp.Rows = append(resp.Rows, row)
		resp.Subtotal = resp.Subtotal.Add(s.Subtotal)
		resp.TaxTotal = resp.TaxTotal.Add(s.TaxTotal)
		resp.Total = resp.Total.Add(s.Total)
	}
	resp.Count = len(resp.Rows)
	return resp, nil
}

// StockReport devuelve el stock de cada producto, valorizado a precio de compra.
// Las cantidades negativas (ventas sin stock) se marcan y no suman valor.
func (uc *UseCase) StockReport(ctx context.Context) (*dto.StockReportResponse, error) {
	list, err := uc.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	resp := &dto.StockReportResponse{
		Threshold:  uc.threshold,
		Rows:       make([]dto.StockReportRow, 0, len(list)),
		TotalValue: decimal.Zero,
	}
	for _, p := range list {
		row := stockRow(p, uc.threshold)
		if row.Negative {
			resp.NegativeCount++
		}
		if row.LowStock {
			resp.LowStockCount++
		}
		resp.TotalValue = resp.TotalValue.Add(row.StockValue)
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

func stockRow(p *entity.Product, threshold int64) dto.StockReportRow {
	onHand := p.Quantity
	if onHand < 0 {
		onHand = 0
	}
	return dto.StockReportRow{
		ProductID:  p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Quantity:   p.Quantity,
		UnitCost:   p.PurchasePrice,
		StockValue: p.PurchasePrice.Mul(decimal.NewFromInt(onHand)).Round(2),
		Negative:   p.Quantity < 0,
		LowStock:   p.Quantity <= threshold,
	}
}
