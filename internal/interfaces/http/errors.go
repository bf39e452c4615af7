package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/inventory"
	"github.com/jhoicas/Facturador-api/internal/domain"
)

// writeError traduce un error de aplicación a una respuesta HTTP.
// notFound es el mensaje para ErrNotFound (cada recurso lo nombra distinto).
func writeError(c *fiber.Ctx, err error, notFound string) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.write(c)
	}
	if re, ok := inventory.AsReconcileError(err); ok {
		code := "RECONCILE_FAILED"
		if allInsufficient(re) {
			code = "INSUFFICIENT_STOCK"
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    code,
			Message: "no se pudo actualizar el inventario de algunos productos",
			Details: map[string]any{
				"operation":   re.Operation,
				"product_ids": re.ProductIDs(),
			},
		})
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		// Línea de venta con un producto inexistente.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFound})
	case errors.Is(err, domain.ErrEmptySale):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_SALE", Message: "la venta debe tener al menos una línea con cantidad"})
	case errors.Is(err, domain.ErrCustomerRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CUSTOMER_REQUIRED", Message: "seleccione un cliente existente"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un registro con esos datos"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacenamiento no disponible, intente más tarde"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func allInsufficient(re *inventory.ReconcileError) bool {
	if len(re.Failures) == 0 {
		return false
	}
	for _, f := range re.Failures {
		if !errors.Is(f.Err, domain.ErrInsufficientStock) {
			return false
		}
	}
	return true
}
