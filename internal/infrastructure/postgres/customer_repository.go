package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, name, phone, email, gstin, company_name, billing_address, shipping_address, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.GSTIN, &c.CompanyName,
		&c.BillingAddress, &c.ShippingAddress, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get obtiene un cliente por ID.
func (r *CustomerRepo) Get(ctx context.Context, id int64) (*entity.Customer, error) {
	return r.first(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetByGSTIN obtiene el primer cliente con ese GSTIN.
func (r *CustomerRepo) GetByGSTIN(ctx context.Context, gstin string) (*entity.Customer, error) {
	return r.first(ctx, `SELECT `+customerColumns+` FROM customers WHERE gstin = $1 ORDER BY id LIMIT 1`, gstin)
}

func (r *CustomerRepo) first(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// Add persiste un nuevo cliente.
func (r *CustomerRepo) Add(ctx context.Context, c *entity.Customer) (int64, error) {
	query := `
		INSERT INTO customers (name, phone, email, gstin, company_name, billing_address, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()), COALESCE($9, now()))
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		c.Name, c.Phone, c.Email, c.GSTIN, c.CompanyName, c.BillingAddress, c.ShippingAddress,
		nullTime(c.CreatedAt), nullTime(c.UpdatedAt),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return c.ID, nil
}

// Update reemplaza los datos del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, phone = $3, email = $4, gstin = $5, company_name = $6,
			billing_address = $7, shipping_address = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Phone, c.Email, c.GSTIN, c.CompanyName, c.BillingAddress, c.ShippingAddress,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el cliente.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista clientes filtrando por nombre o GSTIN.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	var lq listQuery
	if name := strings.TrimSpace(f.Name); name != "" {
		lq.add("name ILIKE '%%' || $%d::text || '%%'", name)
	}
	if f.GSTIN != "" {
		lq.add("gstin = $%d", strings.ToUpper(f.GSTIN))
	}
	query, args := lq.build(`SELECT `+customerColumns+` FROM customers`, "id", f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
