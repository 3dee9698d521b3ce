package sales_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/apptest"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/sales"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	itemA = "11111111-1111-1111-1111-111111111111"
	itemB = "22222222-2222-2222-2222-222222222222"
	locID = "aaaaaaaa-0000-0000-0000-000000000001"
)

// newSaleUC arma el caso de uso de ventas con dos ítems globales sembrados.
func newSaleUC(t *testing.T, qtyA, qtyB int64) (*apptest.MemStore, *sales.SaleUseCase) {
	t.Helper()
	store := apptest.NewMemStore()
	runner := apptest.NewMemTxRunner(store)
	engine := stock.NewRecordMovementUseCase(runner, 10)
	store.SeedItem(&entity.StockItem{
		ID: itemA, SKU: "SKU-A", Name: "Tornillo", Price: decimal.NewFromInt(500), Quantity: qtyA,
	})
	store.SeedItem(&entity.StockItem{
		ID: itemB, SKU: "SKU-B", Name: "Tuerca", Price: decimal.NewFromInt(200), Quantity: qtyB,
	})
	return store, sales.NewSaleUseCase(runner, engine, store.LocationRepo(), store.SaleRepo())
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DebitaTodasLasLineasYCongelaPrecios(t *testing.T) {
	store, uc := newSaleUC(t, 20, 30)

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "Carlos Pérez",
		Items: []dto.SaleItemRequest{
			{StockItemID: itemA, Quantity: 2},
			{StockItemID: itemB, Quantity: 5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusPending, sale.Status)
	assert.True(t, strings.HasPrefix(sale.Reference, "SALE-"))
	assert.EqualValues(t, 18, store.ItemQuantity(itemA))
	assert.EqualValues(t, 25, store.ItemQuantity(itemB))

	// Total = 2*500 + 5*200 con el precio congelado al crear.
	assert.True(t, decimal.NewFromInt(2000).Equal(sale.Total), "total %s", sale.Total)
	require.Len(t, sale.Items, 2)
	assert.True(t, decimal.NewFromInt(500).Equal(sale.Items[0].Price))
	assert.True(t, decimal.NewFromInt(1000).Equal(sale.Items[0].Total))

	// Cada línea deja un OUT en el libro con la referencia de la venta.
	movs := store.AllMovements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeOUT, m.Type)
		assert.Equal(t, sale.Reference, m.Reference)
	}
}

// Si una línea no cabe, ninguna queda aplicada (todo o nada).
func TestCreateSale_LineaInsuficienteRevierteTodo(t *testing.T) {
	store, uc := newSaleUC(t, 20, 3)

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{StockItemID: itemA, Quantity: 2},  // cabe
			{StockItemID: itemB, Quantity: 10}, // no cabe
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.EqualValues(t, 20, store.ItemQuantity(itemA), "la primera línea también debe revertirse")
	assert.EqualValues(t, 3, store.ItemQuantity(itemB))
	assert.Equal(t, 0, store.MovementCount())
}

func TestCreateSale_ItemInexistenteRevierteTodo(t *testing.T) {
	store, uc := newSaleUC(t, 20, 30)

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{StockItemID: itemA, Quantity: 1},
			{StockItemID: "fantasma", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualValues(t, 20, store.ItemQuantity(itemA))
}

func TestCreateSale_EntradasInvalidas(t *testing.T) {
	_, uc := newSaleUC(t, 20, 30)
	ctx := context.Background()

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "venta sin líneas")

	_, err = uc.CreateSale(ctx, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{StockItemID: itemA, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")
}

// Venta contra una ubicación: la pareja (ítem, ubicación) debe existir y se
// debita de ella, no del global.
func TestCreateSale_PorUbicacion(t *testing.T) {
	store, uc := newSaleUC(t, 50, 50)
	store.SeedLocation(&entity.Location{ID: locID, Name: "Bodega Norte", Type: entity.LocationTypeWarehouse})
	store.SeedStockLocation(&entity.StockLocation{
		ID: "sl-1", StockItemID: itemA, LocationID: locID, Quantity: 8,
	})

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		LocationID: locID,
		Items:      []dto.SaleItemRequest{{StockItemID: itemA, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 5, store.StockLocationQuantity(itemA, locID))
	assert.EqualValues(t, 50, store.ItemQuantity(itemA), "el stock global no se toca")
	assert.Equal(t, locID, sale.LocationID)
}

func TestCreateSale_UbicacionInexistente(t *testing.T) {
	_, uc := newSaleUC(t, 50, 50)

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		LocationID: "no-existe",
		Items:      []dto.SaleItemRequest{{StockItemID: itemA, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelSale_ReponeElStockYMarcaCancelled(t *testing.T) {
	store, uc := newSaleUC(t, 20, 30)
	ctx := context.Background()

	sale, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{StockItemID: itemA, Quantity: 4},
			{StockItemID: itemB, Quantity: 6},
		},
	})
	require.NoError(t, err)
	require.EqualValues(t, 16, store.ItemQuantity(itemA))

	cancelled, err := uc.CancelSale(ctx, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.EqualValues(t, 20, store.ItemQuantity(itemA), "el stock vuelve al nivel previo")
	assert.EqualValues(t, 30, store.ItemQuantity(itemB))
	assert.Equal(t, entity.SaleStatusCancelled, store.SaleByID(sale.ID).Status)

	// Por cada OUT original queda un IN compensatorio con referencia CANCEL-.
	var compensating int
	for _, m := range store.AllMovements() {
		if m.Type == entity.MovementTypeIN {
			compensating++
			assert.Equal(t, "CANCEL-"+sale.Reference, m.Reference)
		}
	}
	assert.Equal(t, 2, compensating)
}

// Solo PENDING es cancelable; COMPLETED y CANCELLED son terminales.
func TestCancelSale_EstadosTerminalesRechazan(t *testing.T) {
	store, uc := newSaleUC(t, 20, 30)
	ctx := context.Background()

	sale, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{StockItemID: itemA, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = uc.CompleteSale(ctx, sale.ID)
	require.NoError(t, err)

	_, err = uc.CancelSale(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "una venta COMPLETED no se cancela")
	assert.EqualValues(t, 19, store.ItemQuantity(itemA), "el stock no debe reponerse")

	_, err = uc.CompleteSale(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "completar dos veces se rechaza")
}

func TestCancelSale_DobleCancelacionRechazada(t *testing.T) {
	store, uc := newSaleUC(t, 20, 30)
	ctx := context.Background()

	sale, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{StockItemID: itemA, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = uc.CancelSale(ctx, sale.ID)
	require.NoError(t, err)

	_, err = uc.CancelSale(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualValues(t, 20, store.ItemQuantity(itemA), "la reposición no debe duplicarse")
}

func TestCancelSale_VentaInexistente(t *testing.T) {
	_, uc := newSaleUC(t, 20, 30)
	_, err := uc.CancelSale(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalización
// ──────────────────────────────────────────────────────────────────────────────

// CompleteSale no toca el stock: ya se debitó al crear.
func TestCompleteSale_SinEfectoSobreStock(t *testing.T) {
	store, uc := newSaleUC(t, 20, 30)
	ctx := context.Background()

	sale, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{StockItemID: itemA, Quantity: 3}},
	})
	require.NoError(t, err)
	movsBefore := store.MovementCount()

	completed, err := uc.CompleteSale(ctx, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCompleted, completed.Status)
	assert.EqualValues(t, 17, store.ItemQuantity(itemA))
	assert.Equal(t, movsBefore, store.MovementCount(), "completar no emite movimientos")
}
