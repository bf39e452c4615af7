package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/reports/dashboard.
// KPIs del día y del mes en curso, más los productos más vendidos del mes.
type DashboardSummaryDTO struct {
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayMargin decimal.Decimal `json:"today_margin"` // ventas sin impuesto - costo de compra

	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyMargin decimal.Decimal `json:"monthly_margin"`

	TopProducts []TopProductDTO `json:"top_products"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// TopProductDTO resumen de un producto para el dashboard.
type TopProductDTO struct {
	ProductID        int64           `json:"product_id"`
	ProductName      string          `json:"product_name"`
	QuantitySold     int64           `json:"quantity_sold"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"` // (revenue - costo) / revenue * 100
}

// SalesRegisterRow fila del registro de ventas.
type SalesRegisterRow struct {
	SaleID        int64           `json:"sale_id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"`
	CustomerName  string          `json:"customer_name"`
	DueDate       string          `json:"due_date,omitempty"`
	Status        string          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	Total         decimal.Decimal `json:"total"`
}

// SalesRegisterResponse respuesta de GET /api/reports/sales.
type SalesRegisterResponse struct {
	From     string             `json:"from,omitempty"`
	To       string             `json:"to,omitempty"`
	Rows     []SalesRegisterRow `json:"rows"`
	Count    int                `json:"count"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	TaxTotal decimal.Decimal    `json:"tax_total"`
	Total    decimal.Decimal    `json:"total"`
}

// StockReportRow stock de un producto.
type StockReportRow struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	Category   string          `json:"category,omitempty"`
	Quantity   int64           `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	StockValue decimal.Decimal `json:"stock_value"` // max(quantity,0) * unit_cost
	Negative   bool            `json:"negative"`
	LowStock   bool            `json:"low_stock"`
}

// StockReportResponse respuesta de GET /api/reports/stock.
type StockReportResponse struct {
	Threshold     int64            `json:"threshold"`
	Rows          []StockReportRow `json:"rows"`
	TotalValue    decimal.Decimal  `json:"total_value"`
	NegativeCount int              `json:"negative_count"`
	LowStockCount int              `json:"low_stock_count"`
}
