package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

type productModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Name          string          `gorm:"not null;index"`
	SellingPrice  decimal.Decimal `gorm:"type:text;not null"`
	PurchasePrice decimal.Decimal `gorm:"type:text;not null"`
	TaxRate       decimal.Decimal `gorm:"type:text;not null"`
	HSN           string
	Barcode       string
	Category      string `gorm:"index"`
	Image         string
	Description   string
	Quantity      int64 `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (productModel) TableName() string { return "products" }

func toProductModel(p *entity.Product) *productModel {
	return &productModel{
		ID:            p.ID,
		Name:          p.Name,
		SellingPrice:  p.SellingPrice,
		PurchasePrice: p.PurchasePrice,
		TaxRate:       p.TaxRate,
		HSN:           p.HSN,
		Barcode:       p.Barcode,
		Category:      p.Category,
		Image:         p.Image,
		Description:   p.Description,
		Quantity:      p.Quantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *productModel) toEntity() *entity.Product {
	return &entity.Product{
		ID:            m.ID,
		Name:          m.Name,
		SellingPrice:  m.SellingPrice,
		PurchasePrice: m.PurchasePrice,
		TaxRate:       m.TaxRate,
		HSN:           m.HSN,
		Barcode:       m.Barcode,
		Category:      m.Category,
		Image:         m.Image,
		Description:   m.Description,
		Quantity:      m.Quantity,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type customerModel struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"not null;index"`
	Phone           string
	Email           string
	GSTIN           string `gorm:"column:gstin;index"`
	CompanyName     string
	BillingAddress  string
	ShippingAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (customerModel) TableName() string { return "customers" }

func toCustomerModel(c *entity.Customer) *customerModel {
	return &customerModel{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		GSTIN:           c.GSTIN,
		CompanyName:     c.CompanyName,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *customerModel) toEntity() *entity.Customer {
	return &entity.Customer{
		ID:              m.ID,
		Name:            m.Name,
		Phone:           m.Phone,
		Email:           m.Email,
		GSTIN:           m.GSTIN,
		CompanyName:     m.CompanyName,
		BillingAddress:  m.BillingAddress,
		ShippingAddress: m.ShippingAddress,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// saleModel guarda el cliente, las líneas y los datos bancarios como documentos JSON.
// Las fechas de factura van como texto YYYY-MM-DD para que el orden y los rangos sean lexicográficos.
type saleModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	InvoiceNumber string `gorm:"not null"`
	CustomerID    int64  `gorm:"index"`
	CustomerDoc   string `gorm:"type:text;not null"`
	InvoiceDate   string `gorm:"type:text;not null;index"`
	DueDate       string `gorm:"type:text"`
	ItemsDoc      string `gorm:"type:text;not null"`
	Reference     string
	Notes         string
	BankDoc       string          `gorm:"type:text"`
	Subtotal      decimal.Decimal `gorm:"type:text;not null"`
	TaxTotal      decimal.Decimal `gorm:"type:text;not null"`
	RoundOff      decimal.Decimal `gorm:"type:text;not null"`
	Total         decimal.Decimal `gorm:"type:text;not null"`
	Status        string          `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (saleModel) TableName() string { return "sales" }

func toSaleModel(s *entity.Sale) (*saleModel, error) {
	customer, err := json.Marshal(s.Customer)
	if err != nil {
		return nil, fmt.Errorf("sqlite: serializar cliente: %w", err)
	}
	items := s.Items
	if items == nil {
		items = []entity.SaleItem{}
	}
	itemsDoc, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("sqlite: serializar líneas: %w", err)
	}
	bank, err := json.Marshal(s.BankDetails)
	if err != nil {
		return nil, fmt.Errorf("sqlite: serializar banco: %w", err)
	}
	m := &saleModel{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CustomerID:    s.Customer.ID,
		CustomerDoc:   string(customer),
		InvoiceDate:   s.InvoiceDate.Format(dateLayout),
		ItemsDoc:      string(itemsDoc),
		Reference:     s.Reference,
		Notes:         s.Notes,
		BankDoc:       string(bank),
		Subtotal:      s.Subtotal,
		TaxTotal:      s.TaxTotal,
		RoundOff:      s.RoundOff,
		Total:         s.Total,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if !s.DueDate.IsZero() {
		m.DueDate = s.DueDate.Format(dateLayout)
	}
	return m, nil
}

func (m *saleModel) toEntity() (*entity.Sale, error) {
	s := &entity.Sale{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		Reference:     m.Reference,
		Notes:         m.Notes,
		Subtotal:      m.Subtotal,
		TaxTotal:      m.TaxTotal,
		RoundOff:      m.RoundOff,
		Total:         m.Total,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(m.CustomerDoc), &s.Customer); err != nil {
		return nil, fmt.Errorf("sqlite: venta %d: cliente: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(m.ItemsDoc), &s.Items); err != nil {
		return nil, fmt.Errorf("sqlite: venta %d: líneas: %w", m.ID, err)
	}
	if m.BankDoc != "" {
		if err := json.Unmarshal([]byte(m.BankDoc), &s.BankDetails); err != nil {
			return nil, fmt.Errorf("sqlite: venta %d: banco: %w", m.ID, err)
		}
	}
	var err error
	if s.InvoiceDate, err = time.Parse(dateLayout, m.InvoiceDate); err != nil {
		return nil, fmt.Errorf("sqlite: venta %d: fecha: %w", m.ID, err)
	}
	if m.DueDate != "" {
		if s.DueDate, err = time.Parse(dateLayout, m.DueDate); err != nil {
			return nil, fmt.Errorf("sqlite: venta %d: vencimiento: %w", m.ID, err)
		}
	}
	return s, nil
}

type movementModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	ProductID     int64  `gorm:"not null;index"`
	SaleID        int64  `gorm:"index"`
	TransactionID string `gorm:"type:text"`
	Kind          string `gorm:"not null"`
	Delta         int64  `gorm:"not null"`
	QuantityAfter int64  `gorm:"not null"`
	Notes         string
	CreatedAt     time.Time
}

func (movementModel) TableName() string { return "stock_movements" }

func (m *movementModel) toEntity() *entity.StockMovement {
	return &entity.StockMovement{
		ID:            m.ID,
		ProductID:     m.ProductID,
		SaleID:        m.SaleID,
		TransactionID: m.TransactionID,
		Kind:          m.Kind,
		Delta:         m.Delta,
		QuantityAfter: m.QuantityAfter,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
