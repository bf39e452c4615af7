package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Facturador-api/internal/application/billing"
	"github.com/jhoicas/Facturador-api/internal/application/usecase"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/memory"
)

func TestLoadProducts(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	csvData := "Name,Selling_Price,purchase_price,tax_rate,category,quantity\n" +
		"Martillo,\"120,50\",80,18,Herramientas,10\n" +
		"Clavos,1500.00,900,5,Ferretería,\n"

	r, err := newCSVReader(strings.NewReader(csvData), "utf8")
	require.NoError(t, err)
	res, err := LoadProducts(ctx, r, usecase.NewProductUseCase(mem.Repositories().Products))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2}, res)

	list, err := mem.Repositories().Products.List(ctx, repository.ProductFilter{Name: "martillo"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, decimal.RequireFromString("120.5").Equal(list[0].SellingPrice))
	assert.Equal(t, int64(10), list[0].Quantity)
	assert.Equal(t, "Herramientas", list[0].Category)
}

func TestLoadProducts_BadNumberReportsLine(t *testing.T) {
	mem := memory.NewStore()
	r, err := newCSVReader(strings.NewReader("name,quantity\nMartillo,diez\n"), "")
	require.NoError(t, err)
	_, err = LoadProducts(context.Background(), r, usecase.NewProductUseCase(mem.Repositories().Products))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestLoadCustomers_Latin1AndDuplicates(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	utf := "name,gstin,billing_address\n" +
		"Ferretería Núñez,29abcde1234f1z5,Calle Señor 12\n" +
		"Otra Ferretería,29ABCDE1234F1Z5,\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	r, err := newCSVReader(bytes.NewReader([]byte(encoded)), "latin1")
	require.NoError(t, err)
	res, err := LoadCustomers(ctx, r, billing.NewCustomerUseCase(mem.Repositories().Customers))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Skipped: 1}, res)

	c, err := mem.Repositories().Customers.GetByGSTIN(ctx, "29ABCDE1234F1Z5")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ferretería Núñez", c.Name)
	assert.Equal(t, "Calle Señor 12", c.BillingAddress)
}

func TestNewCSVReader_UnknownEncoding(t *testing.T) {
	_, err := newCSVReader(strings.NewReader("name\n"), "ebcdic")
	assert.Error(t, err)
}

func TestParseMoney(t *testing.T) {
	cases := map[string]string{
		"":         "0",
		"12,50":    "12.5",
		"1,234.50": "1234.5",
		"99":       "99",
	}
	for in, want := range cases {
		got, err := parseMoney(in)
		require.NoError(t, err, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%q -> %s", in, got)
	}
}
