// Package pdf implementa la factura imprimible de una venta ("Guardar e imprimir").
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + GSTIN      │  N° Factura + Fecha + Vence  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + GSTIN + dirección de facturación/envío   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto / HSN | Cant | Precio | Imp% | Importe │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Base / Impuestos / Redondeo / TOTAL               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: Banco + Notas + QR con el resumen de la factura       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/Facturador-api/internal/application/billing"
	domainbilling "github.com/jhoicas/Facturador-api/internal/domain/billing"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF de la venta a partir de sus copias de cliente y productos.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	ctx context.Context,
	sale *entity.Sale,
	issuer appbilling.Issuer,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("pdf: venta nula")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+sale.InvoiceNumber, true).
		WithAuthor(nonEmpty(issuer.Name, "Facturador"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(sale.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(sale.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(sale, issuer)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor + GSTIN (izq) y N° factura + fechas (der).
func headerRow(sale *entity.Sale, issuer appbilling.Issuer) core.Row {
	right := []core.Component{
		text.New("FACTURA DE VENTA", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right,
			Color: colorPrimary, Top: 1,
		}),
		text.New(nonEmpty(sale.InvoiceNumber, strconv.FormatInt(sale.ID, 10)), props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
		}),
		text.New("Fecha: "+sale.InvoiceDate.Format(dateLayout), props.Text{
			Size: 8, Align: align.Right, Top: 13, Color: colorGray,
		}),
	}
	if !sale.DueDate.IsZero() {
		right = append(right, text.New("Vence: "+sale.DueDate.Format(dateLayout), props.Text{
			Size: 8, Align: align.Right, Top: 17, Color: colorGray,
		}))
	}
	if sale.Status == entity.SaleStatusDraft {
		right = append(right, text.New("BORRADOR", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 21, Color: colorGray,
		}))
	}

	return row.New(26).Add(
		col.New(7).Add(
			text.New(nonEmpty(issuer.Name, "-"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("GSTIN: "+nonEmpty(issuer.GSTIN, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New(nonEmpty(issuer.Address, ""), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(right...),
	)
}

// customerRow: copia del cliente guardada con la venta.
func customerRow(c entity.SaleCustomer) core.Row {
	return row.New(22).Add(
		col.New(6).Add(
			text.New("FACTURAR A", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("GSTIN: %s   |   Tel: %s",
				nonEmpty(c.GSTIN, "-"),
				nonEmpty(c.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(nonEmpty(c.BillingAddress, ""), props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("ENVIAR A", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(c.CompanyName, c.Name), props.Text{Size: 9, Top: 6}),
			text.New(nonEmpty(c.ShippingAddress, nonEmpty(c.BillingAddress, "-")), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Producto / HSN", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio", 2, align.Right),
		h("Imp.%", 1, align.Center),
		h("Importe", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea de la venta.
func tableDetailRows(items []entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		label := it.Name
		if it.HSN != "" {
			label += " (" + it.HSN + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(label, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.FormatInt(it.Quantity, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(it.SellingPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.TaxRate.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(formatMoney(domainbilling.LineAmount(it)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(sale *entity.Sale) core.Row {
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Base imponible:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1}),
			text.New("Impuestos:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			text.New("Redondeo:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 11}),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 17, Color: colorPrimary}),
		),
		col.New(3).Add(
			text.New(formatMoney(sale.Subtotal), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}),
			text.New(formatMoney(sale.TaxTotal), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 6}),
			text.New(formatMoney(sale.RoundOff), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 11}),
			text.New(formatMoney(sale.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 17, Color: colorPrimary}),
		),
	)
}

// footerRows: datos bancarios, notas y QR con el resumen de la factura.
func footerRows(sale *entity.Sale, issuer appbilling.Issuer) []core.Row {
	var lines []string
	b := sale.BankDetails
	if b.BankName != "" || b.AccountNumber != "" {
		lines = append(lines, fmt.Sprintf("Banco: %s   |   Cuenta: %s   |   IFSC: %s   |   Sucursal: %s",
			nonEmpty(b.BankName, "-"), nonEmpty(b.AccountNumber, "-"), nonEmpty(b.IFSC, "-"), nonEmpty(b.Branch, "-")))
	}
	if sale.Reference != "" {
		lines = append(lines, "Referencia: "+sale.Reference)
	}
	if sale.Notes != "" {
		lines = append(lines, "Notas: "+sale.Notes)
	}

	info := make([]core.Component, 0, len(lines)+1)
	for i, l := range lines {
		info = append(info, text.New(l, props.Text{Size: 8, Top: float64(2 + i*6), Left: 3, Color: colorGray}))
	}
	info = append(info, text.New("Gracias por su compra.", props.Text{
		Style: fontstyle.Bold, Size: 9, Top: float64(4 + len(lines)*6), Left: 3, Color: colorPrimary,
	}))

	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(qrPayload(sale, issuer), props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(info...),
		),
	}
}

// qrPayload resumen legible de la factura para el QR.
func qrPayload(sale *entity.Sale, issuer appbilling.Issuer) string {
	return strings.Join([]string{
		"N°: " + nonEmpty(sale.InvoiceNumber, strconv.FormatInt(sale.ID, 10)),
		"Fecha: " + sale.InvoiceDate.Format("2006-01-02"),
		"Emisor: " + nonEmpty(issuer.GSTIN, issuer.Name),
		"Cliente: " + nonEmpty(sale.Customer.GSTIN, sale.Customer.Name),
		"Total: " + sale.Total.StringFixed(2),
	}, "\n")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con dos decimales y separador de miles.
// Ej: 25000 → "25,000.00", -1234.5 → "-1,234.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + frac
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
