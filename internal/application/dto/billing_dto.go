package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest body para POST y PUT /api/customers.
type CustomerRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	Phone           string `json:"phone" validate:"max=30"`
	Email           string `json:"email" validate:"omitempty,email"`
	GSTIN           string `json:"gstin" validate:"max=20"`
	CompanyName     string `json:"company_name" validate:"max=200"`
	BillingAddress  string `json:"billing_address"`
	ShippingAddress string `json:"shipping_address"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	GSTIN           string    `json:"gstin,omitempty"`
	CompanyName     string    `json:"company_name,omitempty"`
	BillingAddress  string    `json:"billing_address,omitempty"`
	ShippingAddress string    `json:"shipping_address,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BankDetailsDTO datos bancarios impresos en la factura.
type BankDetailsDTO struct {
	BankName      string `json:"bank_name,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// SaleRequest body para POST /api/sales, PUT /api/sales/:id y POST /api/sales/quote.
// Fechas en formato 2006-01-02; invoice_date vacío = hoy.
type SaleRequest struct {
	CustomerID    int64             `json:"customer_id"`
	InvoiceNumber string            `json:"invoice_number" validate:"max=60"`
	InvoiceDate   string            `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate       string            `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Reference     string            `json:"reference" validate:"max=200"`
	Notes         string            `json:"notes"`
	RoundOff      decimal.Decimal   `json:"round_off"`
	BankDetails   BankDetailsDTO    `json:"bank_details"`
	Status        string            `json:"status" validate:"omitempty,oneof=draft issued"`
	Items         []SaleItemRequest `json:"items" validate:"dive"`
}

// SaleItemRequest línea de venta. selling_price opcional: si va vacío se toma del producto.
type SaleItemRequest struct {
	ProductID    int64            `json:"product_id" validate:"required,gt=0"`
	Quantity     int64            `json:"quantity" validate:"gte=0"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
}

// SaleCustomerDTO copia del cliente guardada con la venta.
type SaleCustomerDTO struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	GSTIN           string `json:"gstin,omitempty"`
	CompanyName     string `json:"company_name,omitempty"`
	BillingAddress  string `json:"billing_address,omitempty"`
	ShippingAddress string `json:"shipping_address,omitempty"`
}

// SaleItemResponse línea de venta con importes calculados.
type SaleItemResponse struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	HSN          string          `json:"hsn,omitempty"`
	Category     string          `json:"category,omitempty"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Quantity     int64           `json:"quantity"`
	Taxable      decimal.Decimal `json:"taxable"` // precio * cantidad
	Tax          decimal.Decimal `json:"tax"`
	Amount       decimal.Decimal `json:"amount"` // con impuesto
}

// SaleResponse venta para GET /api/sales/:id.
type SaleResponse struct {
	ID            int64              `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	Customer      SaleCustomerDTO    `json:"customer"`
	InvoiceDate   string             `json:"invoice_date"`
	DueDate       string             `json:"due_date,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Reference     string             `json:"reference,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	BankDetails   BankDetailsDTO     `json:"bank_details"`
	ItemCount     int64              `json:"item_count"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	RoundOff      decimal.Decimal    `json:"round_off"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Stock         *StockSummaryDTO   `json:"stock,omitempty"`
}

// StockSummaryDTO cambios de stock aplicados al guardar o borrar una venta.
type StockSummaryDTO struct {
	TransactionID string           `json:"transaction_id"`
	Changes       []StockChangeDTO `json:"changes"`
	Skipped       []int64          `json:"skipped,omitempty"` // productos que ya no existen
}

// StockChangeDTO un cambio de stock.
type StockChangeDTO struct {
	ProductID int64  `json:"product_id"`
	Kind      string `json:"kind"`
	Before    int64  `json:"before"`
	After     int64  `json:"after"`
}

// SaleListResponse lista de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// QuoteResponse totales calculados sin guardar.
type QuoteResponse struct {
	Items     []SaleItemResponse `json:"items"`
	ItemCount int64              `json:"item_count"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	TaxTotal  decimal.Decimal    `json:"tax_total"`
	RoundOff  decimal.Decimal    `json:"round_off"`
	Total     decimal.Decimal    `json:"total"`
}
