package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusDraft  = "draft"
	SaleStatusIssued = "issued"
)

// BankDetails datos bancarios impresos en la factura.
type BankDetails struct {
	BankName      string `json:"bank_name,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// SaleItem es una línea de la venta: copia completa del producto al momento de guardar.
// Quantity es la cantidad vendida, no el stock.
type SaleItem struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	HSN           string          `json:"hsn,omitempty"`
	Barcode       string          `json:"barcode,omitempty"`
	Category      string          `json:"category,omitempty"`
	Image         string          `json:"image,omitempty"`
	Description   string          `json:"description,omitempty"`
	Quantity      int64           `json:"quantity"`
}

// SaleCustomer copia del cliente guardada con la venta.
type SaleCustomer struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	GSTIN           string `json:"gstin,omitempty"`
	CompanyName     string `json:"company_name,omitempty"`
	BillingAddress  string `json:"billing_address,omitempty"`
	ShippingAddress string `json:"shipping_address,omitempty"`
}

// Sale representa una venta/factura. Customer y Items son copias inmutables:
// editar el maestro de productos o clientes no cambia ventas guardadas.
type Sale struct {
	ID            int64
	InvoiceNumber string
	Customer      SaleCustomer
	InvoiceDate   time.Time
	DueDate       time.Time
	Items         []SaleItem
	Reference     string
	Notes         string
	BankDetails   BankDetails
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	RoundOff      decimal.Decimal
	Total         decimal.Decimal
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SnapshotProduct arma una línea a partir del maestro de productos.
func SnapshotProduct(p *Product, qty int64) SaleItem {
	return SaleItem{
		ProductID:     p.ID,
		Name:          p.Name,
		SellingPrice:  p.SellingPrice,
		PurchasePrice: p.PurchasePrice,
		TaxRate:       p.TaxRate,
		HSN:           p.HSN,
		Barcode:       p.Barcode,
		Category:      p.Category,
		Image:         p.Image,
		Description:   p.Description,
		Quantity:      qty,
	}
}

// SnapshotCustomer copia los datos del cliente para embeberlos en la venta.
func SnapshotCustomer(c *Customer) SaleCustomer {
	return SaleCustomer{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		GSTIN:           c.GSTIN,
		CompanyName:     c.CompanyName,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
	}
}

// Clone copia la venta incluyendo sus líneas.
func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = append([]SaleItem(nil), s.Items...)
	return &c
}
