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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, selling_price, purchase_price, tax_rate, hsn, barcode, category, image, description, quantity, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SellingPrice, &p.PurchasePrice, &p.TaxRate, &p.HSN, &p.Barcode,
		&p.Category, &p.Image, &p.Description, &p.Quantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get obtiene un producto por ID. nil, nil si no existe.
func (r *ProductRepo) Get(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(ctx context.Context, query string, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Add persiste un nuevo producto y asigna su ID.
func (r *ProductRepo) Add(ctx context.Context, p *entity.Product) (int64, error) {
	query := `
		INSERT INTO products (name, selling_price, purchase_price, tax_rate, hsn, barcode, category, image, description, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, now()), COALESCE($12, now()))
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		p.Name, p.SellingPrice, p.PurchasePrice, p.TaxRate, p.HSN, p.Barcode, p.Category,
		p.Image, p.Description, p.Quantity, nullTime(p.CreatedAt), nullTime(p.UpdatedAt),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return p.ID, nil
}

// Update reemplaza los datos del producto, incluida la cantidad.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, selling_price = $3, purchase_price = $4, tax_rate = $5, hsn = $6,
			barcode = $7, category = $8, image = $9, description = $10, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.SellingPrice, p.PurchasePrice, p.TaxRate, p.HSN, p.Barcode,
		p.Category, p.Image, p.Description,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija el stock del producto.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto. Las ventas conservan su copia.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos por nombre (subcadena, sin mayúsculas) y categoría, ordenados por id.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var lq listQuery
	if name := strings.TrimSpace(f.Name); name != "" {
		lq.add("name ILIKE '%%' || $%d::text || '%%'", name)
	}
	if f.Category != "" {
		lq.add("category = $%d", f.Category)
	}
	query, args := lq.build(`SELECT `+productColumns+` FROM products`, "id", f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
