package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/apptest"
	"github.com/jhoicas/stockflow-api/internal/application/report"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func seedSale(t *testing.T, store *apptest.MemStore, id, status string, total int64, at time.Time) {
	t.Helper()
	err := store.SaleRepo().Create(&entity.Sale{
		ID:        id,
		Reference: "SALE-" + id,
		Status:    status,
		Total:     decimal.NewFromInt(total),
		CreatedAt: at,
		UpdatedAt: at,
	})
	require.NoError(t, err)
}

// El resumen diario agrupa solo ventas COMPLETED dentro del rango.
func TestDailySalesSummary_AgrupaPorDia(t *testing.T) {
	store := apptest.NewMemStore()
	uc := report.NewReportingUseCase(store.MovementRepo(), store.SaleRepo())

	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC)

	seedSale(t, store, "s1", entity.SaleStatusCompleted, 1000, day1)
	seedSale(t, store, "s2", entity.SaleStatusCompleted, 2500, day1.Add(2*time.Hour))
	seedSale(t, store, "s3", entity.SaleStatusCompleted, 700, day2)
	// Las no completadas no cuentan
	seedSale(t, store, "s4", entity.SaleStatusPending, 9999, day1)
	seedSale(t, store, "s5", entity.SaleStatusCancelled, 9999, day2)

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 2)

	out, err := uc.DailySalesSummary(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "2026-03-10", out[0].Date)
	assert.Equal(t, int64(2), out[0].SalesCount)
	assert.True(t, out[0].Total.Equal(decimal.NewFromInt(3500)),
		"total del día 1: esperado 3500, obtenido %s", out[0].Total)

	assert.Equal(t, "2026-03-11", out[1].Date)
	assert.Equal(t, int64(1), out[1].SalesCount)
	assert.True(t, out[1].Total.Equal(decimal.NewFromInt(700)))
}

// Ventas fuera del rango [from, to) quedan excluidas.
func TestDailySalesSummary_RespetaRango(t *testing.T) {
	store := apptest.NewMemStore()
	uc := report.NewReportingUseCase(store.MovementRepo(), store.SaleRepo())

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	seedSale(t, store, "antes", entity.SaleStatusCompleted, 100, from.Add(-time.Second))
	seedSale(t, store, "dentro", entity.SaleStatusCompleted, 200, from.Add(12*time.Hour))
	seedSale(t, store, "limite", entity.SaleStatusCompleted, 300, to)

	out, err := uc.DailySalesSummary(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Total.Equal(decimal.NewFromInt(200)))
}

// El reporte de movimientos junta el libro con los datos del ítem.
func TestMovementReport_IncluyeDatosDelItem(t *testing.T) {
	store := apptest.NewMemStore()
	uc := report.NewReportingUseCase(store.MovementRepo(), store.SaleRepo())

	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	store.SeedItem(&entity.StockItem{
		ID: "it-r", SKU: "R-1", Name: "Café", Quantity: 40,
		Status: entity.StockStatusActive, CreatedAt: now, UpdatedAt: now,
	})
	store.SeedMovement(&entity.StockMovement{
		ID: "m1", StockItemID: "it-r", Type: entity.MovementTypeIN,
		Quantity: 40, Reference: "PO-77", CreatedAt: now,
	})

	rows, err := uc.MovementReport(context.Background(), now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café", rows[0].ItemName)
	assert.Equal(t, "R-1", rows[0].SKU)
	assert.Equal(t, entity.MovementTypeIN, rows[0].Type)
	assert.Equal(t, "PO-77", rows[0].Reference)
}
