package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturador-api/internal/application/billing"
	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

const customerNotFound = "cliente no encontrado"

// CustomerHandler maneja las peticiones HTTP de clientes.
type CustomerHandler struct {
	uc *billing.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err, customerNotFound)
	}
	customer, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err, customerNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// List GET /api/customers?name=&gstin=&limit=50&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err, customerNotFound)
	}
	list, err := h.uc.List(c.UserContext(), repository.CustomerFilter{
		Name:   c.Query("name"),
		GSTIN:  c.Query("gstin"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return writeError(c, err, customerNotFound)
	}
	return c.JSON(list)
}

// GetByID GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, customerNotFound)
	}
	customer, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, customerNotFound)
	}
	return c.JSON(customer)
}

// Update PUT /api/customers/:id
// Las ventas ya guardadas no cambian: guardan su propia copia del cliente.
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, customerNotFound)
	}
	var in dto.CustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err, customerNotFound)
	}
	customer, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err, customerNotFound)
	}
	return c.JSON(customer)
}

// Delete DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, customerNotFound)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err, customerNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
