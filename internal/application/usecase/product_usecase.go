package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var maxTaxRate = decimal.NewFromInt(100)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía ventas y ajustes.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con su stock inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateMoney(in.SellingPrice, in.PurchasePrice, in.TaxRate); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		Name:          in.Name,
		SellingPrice:  in.SellingPrice,
		PurchasePrice: in.PurchasePrice,
		TaxRate:       in.TaxRate,
		HSN:           strings.TrimSpace(in.HSN),
		Barcode:       strings.TrimSpace(in.Barcode),
		Category:      strings.TrimSpace(in.Category),
		Image:         in.Image,
		Description:   in.Description,
		Quantity:      in.Quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := uc.repo.Add(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza los datos maestros de un producto. El repositorio no escribe el stock,
// así que una venta guardada entre la lectura y la escritura no se pierde.
// Las ventas ya guardadas conservan su copia del producto.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.SellingPrice != nil {
		product.SellingPrice = *in.SellingPrice
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.TaxRate != nil {
		product.TaxRate = *in.TaxRate
	}
	if err := validateMoney(product.SellingPrice, product.PurchasePrice, product.TaxRate); err != nil {
		return nil, err
	}
	if in.HSN != nil {
		product.HSN = strings.TrimSpace(*in.HSN)
	}
	if in.Barcode != nil {
		product.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Image != nil {
		product.Image = *in.Image
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	// Releer para devolver el stock vigente.
	fresh, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(fresh), nil
}

// List lista productos filtrando por nombre o categoría.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Delete elimina un producto por ID. Las ventas que lo referencian no cambian.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func validateMoney(selling, purchase, taxRate decimal.Decimal) error {
	if selling.IsNegative() || purchase.IsNegative() {
		return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(maxTaxRate) {
		return fmt.Errorf("%w: tasa de impuesto fuera de rango", domain.ErrInvalidInput)
	}
	return nil
}

// ToProductResponse convierte la entidad a su DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	return toProductResponse(p)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
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
