package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Quantity es el stock inicial.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	HSN           string          `json:"hsn" validate:"max=20"`
	Barcode       string          `json:"barcode" validate:"max=64"`
	Category      string          `json:"category" validate:"max=100"`
	Image         string          `json:"image"`
	Description   string          `json:"description"`
	Quantity      int64           `json:"quantity"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se maneja vía ajustes y ventas).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	HSN           *string          `json:"hsn" validate:"omitempty,max=20"`
	Barcode       *string          `json:"barcode" validate:"omitempty,max=64"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Image         *string          `json:"image"`
	Description   *string          `json:"description"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            int64           `json:"id"`
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
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
