package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturador-api/internal/application/inventory"
)

// InventoryHandler maneja las rutas de inventario que no dependen de un producto concreto.
type InventoryHandler struct {
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{replenishment: replenishment}
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo el umbral de stock, ordenados por margen y rotación de 90 días.
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(list)
}
