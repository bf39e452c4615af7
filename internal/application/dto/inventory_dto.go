package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/products/:id/adjust.
// Delta positivo es entrada; unit_cost solo aplica a entradas.
type AdjustStockRequest struct {
	Delta    int64            `json:"delta" validate:"required"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes    string           `json:"notes" validate:"max=500"`
}

// StockMovementResponse línea del kardex.
type StockMovementResponse struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"product_id"`
	SaleID        int64     `json:"sale_id,omitempty"`
	TransactionID string    `json:"transaction_id"`
	Kind          string    `json:"kind"`
	Delta         int64     `json:"delta"`
	QuantityAfter int64     `json:"quantity_after"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdjustStockResponse resultado de un ajuste manual.
type AdjustStockResponse struct {
	Product  ProductResponse       `json:"product"`
	Movement StockMovementResponse `json:"movement"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto bajo el umbral de stock.
type ReplenishmentSuggestionDTO struct {
	ProductID           int64           `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Category            string          `json:"category,omitempty"`
	CurrentStock        int64           `json:"current_stock"`
	ReorderPoint        int64           `json:"reorder_point"`
	IdealStock          int64           `json:"ideal_stock"`          // ReorderPoint * 1.5
	SuggestedOrderQty   int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost            decimal.Decimal `json:"unit_cost"`            // precio de compra
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	GrossMarginPct      decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90Days int64           `json:"units_sold_last_90d"`
	Priority            int             `json:"priority"` // 1 = más urgente
}
