package repository

import (
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// StockLocationRepository define el puerto para el stock por (ítem, ubicación).
// Las mutaciones de Quantity ocurren solo dentro de transacciones del motor
// de movimientos; OpeningQuantity la escribe únicamente el rollover diario.
type StockLocationRepository interface {
	Get(stockItemID, locationID string) (*entity.StockLocation, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	// Devuelve nil, nil si la pareja (ítem, ubicación) no existe.
	GetForUpdate(stockItemID, locationID string) (*entity.StockLocation, error)
	Create(sl *entity.StockLocation) error
	UpdateQuantity(sl *entity.StockLocation) error
	ListByLocation(locationID string) ([]*entity.StockLocation, error)
	CountByLocation(locationID string) (int64, error)
	// OpeningBaseline devuelve opening_quantity por ubicación e ítem para las
	// filas actualizadas hasta la fecha de corte: locationID -> itemID -> qty.
	OpeningBaseline(cutoff time.Time) (map[string]map[string]int64, error)
	// SnapshotOpeningQuantities copia quantity -> opening_quantity en bloque
	// (rollover diario). Idempotente: repetirlo sin movimientos intermedios no
	// cambia nada.
	SnapshotOpeningQuantities() error
}
