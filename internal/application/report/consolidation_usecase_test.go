package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/apptest"
	"github.com/jhoicas/stockflow-api/internal/application/report"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	itemA = "11111111-1111-1111-1111-111111111111"
	itemB = "22222222-2222-2222-2222-222222222222"
	locX  = "aaaaaaaa-0000-0000-0000-000000000001"
	locY  = "bbbbbbbb-0000-0000-0000-000000000002"
)

var reportDay = time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

func newConsolidation(t *testing.T) (*apptest.MemStore, *report.ConsolidationUseCase) {
	t.Helper()
	store := apptest.NewMemStore()
	runner := apptest.NewMemTxRunner(store)
	return store, report.NewConsolidationUseCase(runner, nil)
}

// movement arma una entrada del libro dentro del día reportado.
func movement(itemID, locID, typ string, qty int64, hour int) *entity.StockMovement {
	return &entity.StockMovement{
		ID:          "mov-" + typ + "-" + itemID[:4] + "-" + locID[:4],
		StockItemID: itemID,
		LocationID:  locID,
		Quantity:    qty,
		Type:        typ,
		CreatedAt:   reportDay.Add(time.Duration(hour) * time.Hour),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad del consolidado
// ──────────────────────────────────────────────────────────────────────────────

// apertura + entradas - salidas = remanente.
func TestGenerateReport_IdentidadDelResumen(t *testing.T) {
	store, uc := newConsolidation(t)
	store.SeedStockLocation(&entity.StockLocation{
		ID: "sl-1", StockItemID: itemA, LocationID: locX,
		Quantity: 11, OpeningQuantity: 10, UpdatedAt: reportDay.Add(2 * time.Hour),
	})
	store.SeedMovement(movement(itemA, locX, entity.MovementTypeIN, 4, 9))
	store.SeedMovement(movement(itemA, locX, entity.MovementTypeOUT, 3, 15))

	rep, err := uc.GenerateReport(context.Background(), reportDay)
	require.NoError(t, err)

	s := rep.Summaries[locX][itemA]
	assert.EqualValues(t, 10, s.OpeningStock)
	assert.EqualValues(t, 4, s.Incoming)
	assert.EqualValues(t, 3, s.Outgoing)
	assert.EqualValues(t, 11, s.Remainder, "10 + 4 - 3 = 11")
}

// Pareja con base pero sin movimientos: remanente = apertura.
func TestGenerateReport_SinMovimientos(t *testing.T) {
	store, uc := newConsolidation(t)
	store.SeedStockLocation(&entity.StockLocation{
		ID: "sl-1", StockItemID: itemA, LocationID: locX,
		Quantity: 7, OpeningQuantity: 7, UpdatedAt: reportDay,
	})

	rep, err := uc.GenerateReport(context.Background(), reportDay)
	require.NoError(t, err)

	s := rep.Summaries[locX][itemA]
	assert.EqualValues(t, 7, s.OpeningStock)
	assert.Zero(t, s.Incoming)
	assert.Zero(t, s.Outgoing)
	assert.EqualValues(t, 7, s.Remainder)
}

// Movimiento de una pareja sin base: apertura implícita cero.
func TestGenerateReport_ParejaSinBase_AperturaCero(t *testing.T) {
	store, uc := newConsolidation(t)
	store.SeedMovement(movement(itemB, locY, entity.MovementTypeIN, 6, 11))

	rep, err := uc.GenerateReport(context.Background(), reportDay)
	require.NoError(t, err)

	s := rep.Summaries[locY][itemB]
	assert.Zero(t, s.OpeningStock)
	assert.EqualValues(t, 6, s.Incoming)
	assert.EqualValues(t, 6, s.Remainder)
}

// Los movimientos globales (sin ubicación) no entran al consolidado.
func TestGenerateReport_IgnoraMovimientosGlobales(t *testing.T) {
	store, uc := newConsolidation(t)
	store.SeedMovement(&entity.StockMovement{
		ID: "mov-global", StockItemID: itemA, Quantity: 100,
		Type: entity.MovementTypeIN, CreatedAt: reportDay.Add(time.Hour),
	})

	rep, err := uc.GenerateReport(context.Background(), reportDay)
	require.NoError(t, err)
	assert.Empty(t, rep.Summaries)
}

// Los ADJUST se pliegan a salidas en el consolidado (solo IN suma entradas).
func TestGenerateReport_ADJUSTCuentaComoSalida(t *testing.T) {
	store, uc := newConsolidation(t)
	store.SeedStockLocation(&entity.StockLocation{
		ID: "sl-1", StockItemID: itemA, LocationID: locX,
		OpeningQuantity: 20, UpdatedAt: reportDay,
	})
	store.SeedMovement(movement(itemA, locX, entity.MovementTypeADJUST, 2, 10))

	rep, err := uc.GenerateReport(context.Background(), reportDay)
	require.NoError(t, err)

	s := rep.Summaries[locX][itemA]
	assert.EqualValues(t, 2, s.Outgoing)
	assert.EqualValues(t, 18, s.Remainder)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventana temporal
// ──────────────────────────────────────────────────────────────────────────────

// Solo cuentan los movimientos con created_at dentro de [día, día+1).
func TestGenerateReport_RespetaLaVentanaDelDia(t *testing.T) {
	store, uc := newConsolidation(t)
	store.SeedStockLocation(&entity.StockLocation{
		ID: "sl-1", StockItemID: itemA, LocationID: locX,
		OpeningQuantity: 5, UpdatedAt: reportDay,
	})
	// Víspera, dentro del día, y exactamente la medianoche siguiente.
	store.SeedMovement(movement(itemA, locX, entity.MovementTypeIN, 100, -1))
	store.SeedMovement(movement(itemA, locX, entity.MovementTypeIN, 4, 23))
	store.SeedMovement(movement(itemA, locX, entity.MovementTypeIN, 100, 24))

	rep, err := uc.GenerateReport(context.Background(), reportDay)
	require.NoError(t, err)

	s := rep.Summaries[locX][itemA]
	assert.EqualValues(t, 4, s.Incoming, "solo el movimiento dentro de la ventana")
}

// ──────────────────────────────────────────────────────────────────────────────
// Varias ubicaciones e ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateReport_MultiplesUbicaciones(t *testing.T) {
	store, uc := newConsolidation(t)
	store.SeedStockLocation(&entity.StockLocation{
		ID: "sl-1", StockItemID: itemA, LocationID: locX, OpeningQuantity: 10, UpdatedAt: reportDay,
	})
	store.SeedStockLocation(&entity.StockLocation{
		ID: "sl-2", StockItemID: itemA, LocationID: locY, OpeningQuantity: 0, UpdatedAt: reportDay,
	})
	// Un traslado X -> Y dentro del día.
	store.SeedMovement(movement(itemA, locX, entity.MovementTypeOUT, 4, 10))
	store.SeedMovement(movement(itemA, locY, entity.MovementTypeIN, 4, 10))

	rep, err := uc.GenerateReport(context.Background(), reportDay)
	require.NoError(t, err)

	sx := rep.Summaries[locX][itemA]
	sy := rep.Summaries[locY][itemA]
	assert.EqualValues(t, 6, sx.Remainder)
	assert.EqualValues(t, 4, sy.Remainder)
	assert.EqualValues(t, sx.Remainder+sy.Remainder, sx.OpeningStock+sy.OpeningStock,
		"un traslado conserva el total entre ubicaciones")

	assert.Equal(t, []string{locX, locY}, rep.SortedLocationIDs())
}
