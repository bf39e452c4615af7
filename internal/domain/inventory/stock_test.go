package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturador-api/internal/domain"
)

func TestDeduct(t *testing.T) {
	got, err := Deduct(10, 3, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	// Con stock negativo permitido el resultado puede quedar por debajo de cero.
	got, err = Deduct(1, 2, true)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got)

	got, err = Deduct(1, 2, false)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), got)
}

func TestRestore(t *testing.T) {
	assert.Equal(t, int64(5), Restore(3, 2))
	assert.Equal(t, int64(0), Restore(-2, 2))
}

func TestWeightedCost(t *testing.T) {
	// 10 u a 100 + 10 u a 200 = 150
	got := WeightedCost(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(150)), got.String())

	// Stock negativo se trata como cero.
	got = WeightedCost(-4, decimal.NewFromInt(100), 2, decimal.NewFromInt(80))
	assert.True(t, got.Equal(decimal.NewFromInt(80)), got.String())

	got = WeightedCost(0, decimal.Zero, 0, decimal.NewFromInt(80))
	assert.True(t, got.IsZero())
}
