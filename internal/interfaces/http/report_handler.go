package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturador-api/internal/application/reports"
)

// ReportHandler maneja los endpoints de reportes.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Registro de ventas
// @Description  Fecha, cliente, vencimiento y total por venta, con sumas del rango.
// @Tags         reports
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200   {object}  dto.SalesRegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return writeError(c, err, "")
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return writeError(c, err, "")
	}
	out, err := h.uc.SalesRegister(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Stock GET /api/reports/stock
// Existencias por producto con marcas de stock negativo y bajo.
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	out, err := h.uc.StockReport(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Dashboard devuelve el resumen del día y del mes en curso.
// GET /api/reports/dashboard
//
// Respuesta: DashboardSummaryDTO (today_sales, today_margin, monthly_sales,
// monthly_margin, top_products[5], date_label). Las ventas en borrador no cuentan.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
