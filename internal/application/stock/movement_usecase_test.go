package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/apptest"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testItemID = "11111111-1111-1111-1111-111111111111"
	testLocA   = "aaaaaaaa-0000-0000-0000-000000000001"
)

// newEngine arma un motor de movimientos sobre un almacén en memoria.
func newEngine(t *testing.T) (*apptest.MemStore, *stock.RecordMovementUseCase) {
	t.Helper()
	store := apptest.NewMemStore()
	runner := apptest.NewMemTxRunner(store)
	return store, stock.NewRecordMovementUseCase(runner, 10)
}

func seedGlobalItem(store *apptest.MemStore, qty int64) {
	store.SeedItem(&entity.StockItem{
		ID:       testItemID,
		SKU:      "SKU-001",
		Name:     "Tornillo 3/8",
		Price:    decimal.NewFromInt(500),
		Quantity: qty,
		Status:   "ACTIVE",
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos sobre el stock global
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_IN_IncrementaStockGlobal(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 20)

	mov, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: testItemID,
		Type:        entity.MovementTypeIN,
		Quantity:    5,
		Notes:       "reposición",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 25, store.ItemQuantity(testItemID))
	assert.Equal(t, entity.MovementTypeIN, mov.Type)
	assert.EqualValues(t, 5, mov.Quantity, "el libro guarda la magnitud positiva")
	assert.Empty(t, mov.LocationID)
	assert.Equal(t, 1, store.MovementCount())
}

func TestRecordMovement_OUT_DescuentaStockGlobal(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 20)

	_, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: testItemID,
		Type:        entity.MovementTypeOUT,
		Quantity:    8,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 12, store.ItemQuantity(testItemID))
}

// Salida mayor al disponible: se rechaza y nada queda escrito.
func TestRecordMovement_OUT_InsuficienteRechazaYNoEscribe(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 3)

	_, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: testItemID,
		Type:        entity.MovementTypeOUT,
		Quantity:    4,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.EqualValues(t, 3, store.ItemQuantity(testItemID), "la cantidad no debe cambiar")
	assert.Equal(t, 0, store.MovementCount(), "no debe quedar entrada en el libro")
}

// Salida exacta al disponible deja el stock en cero (permitido).
func TestRecordMovement_OUT_ExactoDejaEnCero(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 7)

	_, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: testItemID,
		Type:        entity.MovementTypeOUT,
		Quantity:    7,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, store.ItemQuantity(testItemID))
	assert.Equal(t, entity.StockStatusOutStock, store.ItemStatus(testItemID))
}

// El estado derivado sigue a la cantidad en cada movimiento.
func TestRecordMovement_ActualizaEstadoDerivado(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 50)
	ctx := context.Background()

	_, err := engine.RecordMovement(ctx, stock.MovementInput{
		StockItemID: testItemID, Type: entity.MovementTypeOUT, Quantity: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusLowStock, store.ItemStatus(testItemID), "5 <= umbral 10")

	_, err = engine.RecordMovement(ctx, stock.MovementInput{
		StockItemID: testItemID, Type: entity.MovementTypeIN, Quantity: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusActive, store.ItemStatus(testItemID))
}

// Un ítem marcado INACTIVE manualmente vuelve al estado derivado con el
// siguiente movimiento.
func TestRecordMovement_INACTIVESeSobrescribeConElSiguienteMovimiento(t *testing.T) {
	store, engine := newEngine(t)
	store.SeedItem(&entity.StockItem{
		ID: testItemID, SKU: "SKU-001", Name: "Tornillo", Quantity: 30, Status: entity.StockStatusInactive,
	})

	_, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: testItemID, Type: entity.MovementTypeIN, Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusActive, store.ItemStatus(testItemID))
}

// ──────────────────────────────────────────────────────────────────────────────
// ADJUST
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_ADJUST_RequiereDireccionExplicita(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 10)

	_, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: testItemID,
		Type:        entity.MovementTypeADJUST,
		Quantity:    2,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ADJUST sin adjust_direction debe rechazarse")
}

func TestRecordMovement_ADJUST_AplicaDireccion(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 10)
	ctx := context.Background()

	_, err := engine.RecordMovement(ctx, stock.MovementInput{
		StockItemID: testItemID, Type: entity.MovementTypeADJUST, Quantity: 3,
		AdjustDirection: entity.MovementTypeIN,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 13, store.ItemQuantity(testItemID))

	_, err = engine.RecordMovement(ctx, stock.MovementInput{
		StockItemID: testItemID, Type: entity.MovementTypeADJUST, Quantity: 5,
		AdjustDirection: entity.MovementTypeOUT,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 8, store.ItemQuantity(testItemID))

	// El tipo en el libro sigue siendo ADJUST, no la dirección.
	for _, m := range store.AllMovements() {
		assert.Equal(t, entity.MovementTypeADJUST, m.Type)
	}
}

// ADJUST de salida también respeta el piso de cero.
func TestRecordMovement_ADJUST_OUT_InsuficienteRechaza(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 2)

	_, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: testItemID, Type: entity.MovementTypeADJUST, Quantity: 3,
		AdjustDirection: entity.MovementTypeOUT,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradasInvalidas(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 10)
	ctx := context.Background()

	cases := []struct {
		name  string
		input stock.MovementInput
	}{
		{"sin item", stock.MovementInput{Type: entity.MovementTypeIN, Quantity: 1}},
		{"cantidad cero", stock.MovementInput{StockItemID: testItemID, Type: entity.MovementTypeIN, Quantity: 0}},
		{"cantidad negativa", stock.MovementInput{StockItemID: testItemID, Type: entity.MovementTypeIN, Quantity: -4}},
		{"tipo desconocido", stock.MovementInput{StockItemID: testItemID, Type: "TRANSFER", Quantity: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.RecordMovement(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRecordMovement_ItemInexistente(t *testing.T) {
	_, engine := newEngine(t)

	_, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: "no-existe", Type: entity.MovementTypeIN, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos por ubicación
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_PorUbicacion_NoTocaElStockGlobal(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 100)
	store.SeedStockLocation(&entity.StockLocation{
		ID: "sl-1", StockItemID: testItemID, LocationID: testLocA, Quantity: 10,
	})

	_, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: testItemID,
		LocationID:  testLocA,
		Type:        entity.MovementTypeOUT,
		Quantity:    4,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 6, store.StockLocationQuantity(testItemID, testLocA))
	assert.EqualValues(t, 100, store.ItemQuantity(testItemID), "el global no participa en movimientos por ubicación")
}

// La pareja (ítem, ubicación) debe existir para movimientos por ubicación.
func TestRecordMovement_PorUbicacion_ParejaInexistente(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 100)

	_, err := engine.RecordMovement(context.Background(), stock.MovementInput{
		StockItemID: testItemID,
		LocationID:  testLocA,
		Type:        entity.MovementTypeIN,
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad de concurrencia: N salidas concurrentes nunca sobregiran
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_SalidasConcurrentes_NuncaSobregiran(t *testing.T) {
	store, engine := newEngine(t)
	seedGlobalItem(store, 10)
	ctx := context.Background()

	const workers = 25
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = engine.RecordMovement(ctx, stock.MovementInput{
				StockItemID: testItemID,
				Type:        entity.MovementTypeOUT,
				Quantity:    1,
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			insufficient++
		}
	}

	assert.Equal(t, 10, ok, "deben tener éxito exactamente las salidas que caben")
	assert.Equal(t, workers-10, insufficient)
	assert.EqualValues(t, 0, store.ItemQuantity(testItemID), "el stock nunca baja de cero")
	assert.Equal(t, 10, store.MovementCount(), "una entrada del libro por salida exitosa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Rollover diario
// ──────────────────────────────────────────────────────────────────────────────

func TestRollover_CopiaCantidadAApertura_Idempotente(t *testing.T) {
	store := apptest.NewMemStore()
	runner := apptest.NewMemTxRunner(store)
	rollover := stock.NewRolloverUseCase(runner)
	ctx := context.Background()

	store.SeedStockLocation(&entity.StockLocation{
		ID: "sl-1", StockItemID: testItemID, LocationID: testLocA,
		Quantity: 42, OpeningQuantity: 30, UpdatedAt: time.Now(),
	})

	require.NoError(t, rollover.Run(ctx))
	baseline, err := store.StockLocationRepo().OpeningBaseline(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 42, baseline[testLocA][testItemID])

	// Repetir sin movimientos intermedios no cambia nada.
	require.NoError(t, rollover.Run(ctx))
	baseline, err = store.StockLocationRepo().OpeningBaseline(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 42, baseline[testLocA][testItemID])
}
