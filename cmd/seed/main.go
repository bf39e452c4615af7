// seed carga productos y clientes desde archivos CSV al almacén configurado
// (STORE_DRIVER, STORE_DIR, DATABASE_URL...).
//
// Uso: go run ./cmd/seed -products productos.csv -customers clientes.csv [-encoding latin1]
//
// La primera fila de cada CSV son los encabezados. Columnas reconocidas:
//
//	productos: name, selling_price, purchase_price, tax_rate, hsn, barcode, category, description, quantity
//	clientes:  name, phone, email, gstin, company_name, billing_address, shipping_address
//
// Las planillas exportadas desde Excel en Windows suelen venir en windows-1252;
// usar -encoding latin1 o -encoding windows1252 en ese caso.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Facturador-api/internal/application/billing"
	"github.com/jhoicas/Facturador-api/internal/application/usecase"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/store"
	"github.com/jhoicas/Facturador-api/pkg/config"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

func main() {
	productsPath := flag.String("products", "", "CSV de productos")
	customersPath := flag.String("customers", "", "CSV de clientes")
	encoding := flag.String("encoding", "utf8", "codificación de los CSV: utf8, latin1, windows1252")
	flag.Parse()

	if *productsPath == "" && *customersPath == "" {
		fmt.Fprintln(os.Stderr, "indique -products y/o -customers")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	ctx := context.Background()
	db, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer db.Close()
	repos := db.Repositories()

	if *productsPath != "" {
		res, err := seedFile(*productsPath, *encoding, func(r *csvReader) (Result, error) {
			return LoadProducts(ctx, r, usecase.NewProductUseCase(repos.Products))
		})
		if err != nil {
			log.Error().Err(err).Str("file", *productsPath).Msg("cargar productos")
			os.Exit(1)
		}
		log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("productos cargados")
	}

	if *customersPath != "" {
		res, err := seedFile(*customersPath, *encoding, func(r *csvReader) (Result, error) {
			return LoadCustomers(ctx, r, billing.NewCustomerUseCase(repos.Customers))
		})
		if err != nil {
			log.Error().Err(err).Str("file", *customersPath).Msg("cargar clientes")
			os.Exit(1)
		}
		log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("clientes cargados")
	}
}

func seedFile(path, encoding string, load func(*csvReader) (Result, error)) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	r, err := newCSVReader(f, encoding)
	if err != nil {
		return Result{}, err
	}
	return load(r)
}
