package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturador-api/internal/application/billing"
	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

const saleNotFound = "venta no encontrada"

// SaleHandler maneja las peticiones HTTP de ventas. Guardar, editar o borrar
// una venta reconcilia el inventario en la misma transacción.
type SaleHandler struct {
	uc  *billing.SaleUseCase
	pdf *billing.PDFUseCase
}

// NewSaleHandler construye el handler. pdf puede ser nil si no se genera PDF.
func NewSaleHandler(uc *billing.SaleUseCase, pdf *billing.PDFUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Guardar venta
// @Description  Descuenta stock de cada producto; status=draft también descuenta.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err, saleNotFound)
	}
	sale, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// List GET /api/sales?from=2025-04-01&to=2025-04-30&customer_id=&limit=50&offset=0
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	list, err := h.uc.List(c.UserContext(), repository.SaleFilter{
		From:       from,
		To:         to,
		CustomerID: int64(queryInt(c, "customer_id", 0)),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	return c.JSON(list)
}

// GetByID GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	sale, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	return c.JSON(sale)
}

// Update godoc
// @Summary      Editar venta
// @Description  Devuelve al stock las cantidades anteriores y descuenta las nuevas.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id    path  int              true  "ID de la venta"
// @Param        body  body  dto.SaleRequest  true  "Venta completa"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	var in dto.SaleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err, saleNotFound)
	}
	sale, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	return c.JSON(sale)
}

// Delete DELETE /api/sales/:id
// Responde con los cambios de stock aplicados al devolver las cantidades.
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	summary, err := h.uc.Delete(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	return c.JSON(summary)
}

// Quote POST /api/sales/quote
// Calcula los totales de una venta sin guardarla ni tocar el stock.
func (h *SaleHandler) Quote(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err, saleNotFound)
	}
	quote, err := h.uc.Quote(c.UserContext(), in)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	return c.JSON(quote)
}

// PDF GET /api/sales/:id/pdf
func (h *SaleHandler) PDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "PDF_DISABLED", Message: "generación de PDF no configurada"})
	}
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	data, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, saleNotFound)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
