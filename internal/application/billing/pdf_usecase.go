package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

// PDFUseCase genera el PDF imprimible de una venta guardada ("Guardar e imprimir").
type PDFUseCase struct {
	sales     repository.SaleRepository
	generator InvoicePDFGenerator
	issuer    Issuer
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(sales repository.SaleRepository, generator InvoicePDFGenerator, issuer Issuer) *PDFUseCase {
	return &PDFUseCase{sales: sales, generator: generator, issuer: issuer}
}

// DownloadInvoicePDF carga la venta y genera el PDF a partir de sus copias de cliente y productos.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, saleID int64) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.sales.Get(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, sale, uc.issuer)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	name := sale.InvoiceNumber
	if name == "" {
		name = fmt.Sprintf("%d", sale.ID)
	}
	filename = "factura_" + strings.NewReplacer("/", "-", " ", "_").Replace(name) + ".pdf"
	return pdfBytes, filename, nil
}
