package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/inventory"
	"github.com/jhoicas/Facturador-api/internal/application/usecase"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

const productNotFound = "producto no encontrado"

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc    *usecase.ProductUseCase
	stock *inventory.AdjustStockUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, stock *inventory.AdjustStockUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, stock: stock}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err, productNotFound)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        name      query  string  false  "Filtro por nombre (contiene)"
// @Param        category  query  string  false  "Filtro por categoría"
// @Param        limit     query  int     false  "Límite"   default(50)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	out, err := h.uc.List(c.UserContext(), repository.ProductFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Solo datos maestros; el stock cambia con ventas y ajustes.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	var in dto.UpdateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err, productNotFound)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	return c.JSON(out)
}

// Delete DELETE /api/products/:id
// Las ventas guardadas conservan su copia del producto.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err, productNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "Delta con signo"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/adjust [post]
func (h *ProductHandler) Adjust(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	var in dto.AdjustStockRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err, productNotFound)
	}
	p, mov, err := h.stock.Adjust(c.UserContext(), inventory.AdjustInput{
		ProductID: id,
		Delta:     in.Delta,
		UnitCost:  in.UnitCost,
		Notes:     in.Notes,
	})
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	return c.JSON(dto.AdjustStockResponse{
		Product:  *usecase.ToProductResponse(p),
		Movement: toMovementResponse(mov),
	})
}

// Movements GET /api/products/:id/movements?limit=50&offset=0
// Kardex del producto, del más reciente al más antiguo.
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	list, err := h.stock.ListMovements(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err, productNotFound)
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		SaleID:        m.SaleID,
		TransactionID: m.TransactionID,
		Kind:          m.Kind,
		Delta:         m.Delta,
		QuantityAfter: m.QuantityAfter,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
