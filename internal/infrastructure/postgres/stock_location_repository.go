package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.StockLocationRepository = (*StockLocationRepo)(nil)

const stockLocationColumns = "id, stock_item_id, location_id, quantity, opening_quantity, created_at, updated_at"

// StockLocationRepo implementación del puerto StockLocationRepository sobre PostgreSQL (usable con pool o tx).
type StockLocationRepo struct {
	q Querier
}

// NewStockLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLocationRepository(q Querier) *StockLocationRepo {
	return &StockLocationRepo{q: q}
}

// Get obtiene la pareja (ítem, ubicación). Devuelve nil, nil si no existe.
func (r *StockLocationRepo) Get(stockItemID, locationID string) (*entity.StockLocation, error) {
	query := `SELECT ` + stockLocationColumns + `
		FROM stock_locations WHERE stock_item_id = $1 AND location_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, stockItemID, locationID), "get stock location")
}

// GetForUpdate obtiene la pareja y bloquea la fila (SELECT FOR UPDATE).
// Devuelve nil, nil si la pareja no existe.
func (r *StockLocationRepo) GetForUpdate(stockItemID, locationID string) (*entity.StockLocation, error) {
	query := `SELECT ` + stockLocationColumns + `
		FROM stock_locations WHERE stock_item_id = $1 AND location_id = $2
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, stockItemID, locationID), "get stock location for update")
}

// Create inserta la pareja (ítem, ubicación); única por constraint.
func (r *StockLocationRepo) Create(sl *entity.StockLocation) error {
	query := `
		INSERT INTO stock_locations (id, stock_item_id, location_id, quantity, opening_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		sl.ID, sl.StockItemID, sl.LocationID, sl.Quantity, sl.OpeningQuantity, sl.CreatedAt, sl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock location: %w", err)
	}
	return nil
}

// UpdateQuantity persiste la cantidad (solo la invoca el motor de movimientos).
func (r *StockLocationRepo) UpdateQuantity(sl *entity.StockLocation) error {
	query := `UPDATE stock_locations SET quantity = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, sl.ID, sl.Quantity, sl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock location quantity: %w", err)
	}
	return nil
}

// ListByLocation lista las existencias de una ubicación.
func (r *StockLocationRepo) ListByLocation(locationID string) ([]*entity.StockLocation, error) {
	query := `SELECT ` + stockLocationColumns + ` FROM stock_locations WHERE location_id = $1`
	rows, err := r.q.Query(context.Background(), query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list stock locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLocation
	for rows.Next() {
		var sl entity.StockLocation
		if err := rows.Scan(&sl.ID, &sl.StockItemID, &sl.LocationID, &sl.Quantity, &sl.OpeningQuantity, &sl.CreatedAt, &sl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock location: %w", err)
		}
		list = append(list, &sl)
	}
	return list, rows.Err()
}

// CountByLocation cuenta cuántas parejas tiene una ubicación.
func (r *StockLocationRepo) CountByLocation(locationID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM stock_locations WHERE location_id = $1`, locationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stock locations: %w", err)
	}
	return count, nil
}

// OpeningBaseline devuelve opening_quantity por ubicación e ítem para las
// filas actualizadas antes de la fecha de corte.
func (r *StockLocationRepo) OpeningBaseline(cutoff time.Time) (map[string]map[string]int64, error) {
	query := `
		SELECT location_id, stock_item_id, opening_quantity
		FROM stock_locations WHERE updated_at < $1`
	rows, err := r.q.Query(context.Background(), query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("opening baseline: %w", err)
	}
	defer rows.Close()

	baseline := make(map[string]map[string]int64)
	for rows.Next() {
		var locID, itemID string
		var qty int64
		if err := rows.Scan(&locID, &itemID, &qty); err != nil {
			return nil, fmt.Errorf("scan baseline: %w", err)
		}
		byItem, ok := baseline[locID]
		if !ok {
			byItem = make(map[string]int64)
			baseline[locID] = byItem
		}
		byItem[itemID] = qty
	}
	return baseline, rows.Err()
}

// SnapshotOpeningQuantities copia quantity -> opening_quantity en bloque
// (rollover diario). Idempotente por construcción.
func (r *StockLocationRepo) SnapshotOpeningQuantities() error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_locations SET opening_quantity = quantity WHERE opening_quantity <> quantity`)
	if err != nil {
		return fmt.Errorf("snapshot opening quantities: %w", err)
	}
	return nil
}

func (r *StockLocationRepo) scanOne(row pgx.Row, op string) (*entity.StockLocation, error) {
	var sl entity.StockLocation
	err := row.Scan(&sl.ID, &sl.StockItemID, &sl.LocationID, &sl.Quantity, &sl.OpeningQuantity, &sl.CreatedAt, &sl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sl, nil
}
