package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/Facturador-api/internal/application/billing"
	"github.com/jhoicas/Facturador-api/internal/application/inventory"
	"github.com/jhoicas/Facturador-api/internal/application/reports"
	"github.com/jhoicas/Facturador-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Facturador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/Facturador-api/internal/interfaces/http"
	"github.com/jhoicas/Facturador-api/internal/observability"
	"github.com/jhoicas/Facturador-api/pkg/config"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Bool("allow_negative_stock", cfg.Inventory.AllowNegative).
		Msg("iniciando aplicación")

	ctx := context.Background()
	db, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer db.Close()

	metrics := observability.NewMetrics()
	policy := inventory.StockPolicy{AllowNegative: cfg.Inventory.AllowNegative}
	reconciler := inventory.NewReconciler(policy, log, metrics)
	repos := db.Repositories()

	productUC := usecase.NewProductUseCase(repos.Products)
	adjustUC := inventory.NewAdjustStockUseCase(db, policy, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Products, repos.Sales, cfg.Inventory.LowStockThreshold)
	customerUC := billing.NewCustomerUseCase(repos.Customers)
	saleUC := billing.NewSaleUseCase(db, reconciler, billing.Numbering{
		Prefix: cfg.Invoice.Prefix,
		Suffix: cfg.Invoice.Suffix,
	}, metrics, log)

	// PDF: representación imprimible de la venta
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(repos.Sales, pdfGenerator, billing.Issuer{
		Name:    cfg.Invoice.BusinessName,
		GSTIN:   cfg.Invoice.BusinessGSTIN,
		Address: cfg.Invoice.BusinessAddress,
	})
	reportsUC := reports.NewUseCase(repos, cfg.Inventory.LowStockThreshold)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.Middleware())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	httpRouter.Docs(app, cfg.HTTP.DocsFile, cfg.App.Name)

	httpRouter.Router(app, httpRouter.RouterDeps{
		Store:         db,
		ProductUC:     productUC,
		AdjustStock:   adjustUC,
		Replenishment: replenishmentUC,
		CustomerUC:    customerUC,
		SaleUC:        saleUC,
		PDFUC:         pdfUC,
		Reports:       reportsUC,
		Metrics:       metrics,
		Logger:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
