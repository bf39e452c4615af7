package billing

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente. El GSTIN, si viene, no puede repetirse.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.GSTIN = strings.ToUpper(strings.TrimSpace(in.GSTIN))
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.GSTIN != "" {
		existing, err := uc.repo.GetByGSTIN(ctx, in.GSTIN)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	customer := &entity.Customer{
		Name:            in.Name,
		Phone:           in.Phone,
		Email:           in.Email,
		GSTIN:           in.GSTIN,
		CompanyName:     in.CompanyName,
		BillingAddress:  in.BillingAddress,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := uc.repo.Add(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente. ErrNotFound si no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// Update reemplaza los datos del cliente. Las ventas ya guardadas no cambian.
func (uc *CustomerUseCase) Update(ctx context.Context, id int64, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	in.Name = strings.TrimSpace(in.Name)
	in.GSTIN = strings.ToUpper(strings.TrimSpace(in.GSTIN))
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.GSTIN != "" && !strings.EqualFold(in.GSTIN, c.GSTIN) {
		existing, err := uc.repo.GetByGSTIN(ctx, in.GSTIN)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	c.Name = in.Name
	c.Phone = in.Phone
	c.Email = in.Email
	c.GSTIN = in.GSTIN
	c.CompanyName = in.CompanyName
	c.BillingAddress = in.BillingAddress
	c.ShippingAddress = in.ShippingAddress
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina un cliente. Las ventas conservan su copia.
func (uc *CustomerUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// List lista clientes filtrando por nombre o GSTIN.
func (uc *CustomerUseCase) List(ctx context.Context, filter repository.CustomerFilter) ([]*dto.CustomerResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}
