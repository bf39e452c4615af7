package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/Facturador-api/internal/application/billing"
	"github.com/jhoicas/Facturador-api/internal/application/inventory"
	"github.com/jhoicas/Facturador-api/internal/application/reports"
	"github.com/jhoicas/Facturador-api/internal/application/usecase"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/internal/observability"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Store         repository.Store
	ProductUC     *usecase.ProductUseCase
	AdjustStock   *inventory.AdjustStockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	CustomerUC    *billing.CustomerUseCase
	SaleUC        *billing.SaleUseCase
	PDFUC         *billing.PDFUseCase
	Reports       *reports.UseCase
	Metrics       *observability.Metrics
	Logger        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Store != nil {
			if err := deps.Store.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "store": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	var pinger storePinger
	if deps.Store != nil {
		pinger = deps.Store
	}
	api := app.Group("/api", RequireStore(pinger, log.Component("http")))

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.AdjustStock)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/adjust", productHandler.Adjust)
	products.Get("/:id/movements", productHandler.Movements)

	// Inventory
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Replenishment)
	invGroup.Get("/replenishment", inventoryHandler.Replenishment)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Sales
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.PDFUC)
	sales.Post("/quote", saleHandler.Quote)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Put("/:id", saleHandler.Update)
	sales.Delete("/:id", saleHandler.Delete)
	sales.Get("/:id/pdf", saleHandler.PDF)

	// Reports
	reportGroup := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports)
	reportGroup.Get("/sales", reportHandler.Sales)
	reportGroup.Get("/stock", reportHandler.Stock)
	reportGroup.Get("/dashboard", reportHandler.Dashboard)
}
