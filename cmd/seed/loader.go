package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/domain"
)

// Result filas creadas y omitidas (duplicadas) de un archivo.
type Result struct {
	Created int
	Skipped int
}

type productCreator interface {
	Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error)
}

type customerCreator interface {
	Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error)
}

// csvReader lee filas como mapas encabezado -> valor.
type csvReader struct {
	r      *csv.Reader
	header []string
	line   int
}

func newCSVReader(in io.Reader, encoding string) (*csvReader, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "")) {
	case "", "utf8":
	case "latin1", "iso88591":
		in = transform.NewReader(in, charmap.ISO8859_1.NewDecoder())
	case "windows1252", "cp1252":
		in = transform.NewReader(in, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", encoding)
	}

	r := csv.NewReader(in)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezados: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	return &csvReader{r: r, header: header, line: 1}, nil
}

// next devuelve la siguiente fila; io.EOF al terminar.
func (c *csvReader) next() (map[string]string, error) {
	rec, err := c.r.Read()
	if err != nil {
		return nil, err
	}
	c.line++
	row := make(map[string]string, len(c.header))
	for i, h := range c.header {
		if i < len(rec) {
			row[h] = strings.TrimSpace(rec[i])
		}
	}
	return row, nil
}

// LoadProducts crea un producto por fila. quantity es el stock inicial.
func LoadProducts(ctx context.Context, r *csvReader, uc productCreator) (Result, error) {
	var res Result
	for {
		row, err := r.next()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		in := dto.CreateProductRequest{
			Name:        row["name"],
			HSN:         row["hsn"],
			Barcode:     row["barcode"],
			Category:    row["category"],
			Description: row["description"],
		}
		if in.SellingPrice, err = parseMoney(row["selling_price"]); err != nil {
			return res, fmt.Errorf("línea %d: selling_price: %w", r.line, err)
		}
		if in.PurchasePrice, err = parseMoney(row["purchase_price"]); err != nil {
			return res, fmt.Errorf("línea %d: purchase_price: %w", r.line, err)
		}
		if in.TaxRate, err = parseMoney(row["tax_rate"]); err != nil {
			return res, fmt.Errorf("línea %d: tax_rate: %w", r.line, err)
		}
		if q := row["quantity"]; q != "" {
			if in.Quantity, err = strconv.ParseInt(q, 10, 64); err != nil {
				return res, fmt.Errorf("línea %d: quantity: %w", r.line, err)
			}
		}
		if _, err := uc.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("línea %d: %w", r.line, err)
		}
		res.Created++
	}
}

// LoadCustomers crea un cliente por fila. Los GSTIN repetidos se omiten.
func LoadCustomers(ctx context.Context, r *csvReader, uc customerCreator) (Result, error) {
	var res Result
	for {
		row, err := r.next()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		_, err = uc.Create(ctx, dto.CustomerRequest{
			Name:            row["name"],
			Phone:           row["phone"],
			Email:           row["email"],
			GSTIN:           row["gstin"],
			CompanyName:     row["company_name"],
			BillingAddress:  row["billing_address"],
			ShippingAddress: row["shipping_address"],
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("línea %d: %w", r.line, err)
		}
		res.Created++
	}
}

// parseMoney acepta coma decimal ("12,50") además de punto.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}
