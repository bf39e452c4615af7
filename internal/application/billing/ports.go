package billing

import (
	"context"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// SaleMetrics contador de ventas guardadas. observability.Metrics lo implementa.
type SaleMetrics interface {
	IncSaleSaved(operation string)
}

// Issuer datos del emisor impresos en la factura.
type Issuer struct {
	Name    string
	GSTIN   string
	Address string
}

// InvoicePDFGenerator genera el PDF imprimible de una venta.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, sale *entity.Sale, issuer Issuer) ([]byte, error)
}
