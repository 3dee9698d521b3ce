package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/stock"
)

// StatusFor es una función pura: cantidad + umbral determinan el estado.
func TestStatusFor_DerivaEstadoPorCantidad(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int64
		threshold int64
		want      string
	}{
		{"cantidad negativa es OUT_STOCK", -5, 10, entity.StockStatusOutStock},
		{"cero es OUT_STOCK", 0, 10, entity.StockStatusOutStock},
		{"uno es LOW_STOCK", 1, 10, entity.StockStatusLowStock},
		{"igual al umbral es LOW_STOCK", 10, 10, entity.StockStatusLowStock},
		{"umbral mas uno es ACTIVE", 11, 10, entity.StockStatusActive},
		{"muy por encima es ACTIVE", 5000, 10, entity.StockStatusActive},
		{"umbral personalizado", 25, 30, entity.StockStatusLowStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stock.StatusFor(tc.quantity, tc.threshold))
		})
	}
}

// Umbral no positivo cae al default (10).
func TestStatusFor_UmbralNoPositivo_UsaDefault(t *testing.T) {
	assert.Equal(t, entity.StockStatusLowStock, stock.StatusFor(10, 0))
	assert.Equal(t, entity.StockStatusActive, stock.StatusFor(11, -1))
	assert.EqualValues(t, 10, stock.DefaultLowStockThreshold)
}
