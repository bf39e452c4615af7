package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, invoice_number, customer, invoice_date, due_date, items, reference, notes, bank_details,
	subtotal, tax_total, round_off, total, status, created_at, updated_at`

// SaleRepo guarda cada venta como una fila con el cliente, las líneas y el banco en columnas JSONB.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// saleDocs documentos JSONB de una venta.
type saleDocs struct {
	customer []byte
	items    []byte
	bank     []byte
}

func encodeSaleDocs(s *entity.Sale) (saleDocs, error) {
	var d saleDocs
	var err error
	if d.customer, err = json.Marshal(s.Customer); err != nil {
		return d, fmt.Errorf("encode customer: %w", err)
	}
	items := s.Items
	if items == nil {
		items = []entity.SaleItem{}
	}
	if d.items, err = json.Marshal(items); err != nil {
		return d, fmt.Errorf("encode items: %w", err)
	}
	if d.bank, err = json.Marshal(s.BankDetails); err != nil {
		return d, fmt.Errorf("encode bank details: %w", err)
	}
	return d, nil
}

func (d saleDocs) decodeInto(s *entity.Sale) error {
	if err := json.Unmarshal(d.customer, &s.Customer); err != nil {
		return fmt.Errorf("decode customer: %w", err)
	}
	if err := json.Unmarshal(d.items, &s.Items); err != nil {
		return fmt.Errorf("decode items: %w", err)
	}
	if len(d.bank) > 0 {
		if err := json.Unmarshal(d.bank, &s.BankDetails); err != nil {
			return fmt.Errorf("decode bank details: %w", err)
		}
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var d saleDocs
	var due *time.Time
	err := row.Scan(
		&s.ID, &s.InvoiceNumber, &d.customer, &s.InvoiceDate, &due, &d.items, &s.Reference, &s.Notes, &d.bank,
		&s.Subtotal, &s.TaxTotal, &s.RoundOff, &s.Total, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if due != nil {
		s.DueDate = due.UTC()
	}
	s.InvoiceDate = s.InvoiceDate.UTC()
	if err := d.decodeInto(&s); err != nil {
		return nil, fmt.Errorf("sale %d: %w", s.ID, err)
	}
	return &s, nil
}

// Get obtiene una venta por ID.
func (r *SaleRepo) Get(ctx context.Context, id int64) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// Add persiste la venta y asigna su ID.
func (r *SaleRepo) Add(ctx context.Context, s *entity.Sale) (int64, error) {
	d, err := encodeSaleDocs(s)
	if err != nil {
		return 0, err
	}
	query := `
		INSERT INTO sales (invoice_number, customer_id, customer, invoice_date, due_date, items, reference, notes,
			bank_details, subtotal, tax_total, round_off, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, COALESCE($15, now()), COALESCE($16, now()))
		RETURNING id`
	err = r.q.QueryRow(ctx, query,
		s.InvoiceNumber, s.Customer.ID, d.customer, s.InvoiceDate, nullTime(s.DueDate), d.items, s.Reference, s.Notes,
		d.bank, s.Subtotal, s.TaxTotal, s.RoundOff, s.Total, s.Status, nullTime(s.CreatedAt), nullTime(s.UpdatedAt),
	).Scan(&s.ID)
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}
	return s.ID, nil
}

// Update reemplaza el documento completo de la venta.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	d, err := encodeSaleDocs(s)
	if err != nil {
		return err
	}
	query := `
		UPDATE sales SET invoice_number = $2, customer_id = $3, customer = $4, invoice_date = $5, due_date = $6,
			items = $7, reference = $8, notes = $9, bank_details = $10, subtotal = $11, tax_total = $12,
			round_off = $13, total = $14, status = $15, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.InvoiceNumber, s.Customer.ID, d.customer, s.InvoiceDate, nullTime(s.DueDate), d.items,
		s.Reference, s.Notes, d.bank, s.Subtotal, s.TaxTotal, s.RoundOff, s.Total, s.Status,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la venta.
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ventas por rango de fecha de factura, ordenadas por fecha y luego id.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var lq listQuery
	if f.From != nil {
		lq.add("invoice_date >= $%d", *f.From)
	}
	if f.To != nil {
		lq.add("invoice_date <= $%d", *f.To)
	}
	if f.CustomerID != 0 {
		lq.add("customer_id = $%d", f.CustomerID)
	}
	query, args := lq.build(`SELECT `+saleColumns+` FROM sales`, "invoice_date, id", f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
