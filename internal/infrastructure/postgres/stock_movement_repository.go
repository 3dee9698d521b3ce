package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const stockMovementColumns = "id, stock_item_id, location_id, quantity, type, reference, notes, created_at"

// StockMovementRepo implementación del puerto StockMovementRepository sobre PostgreSQL.
// El ledger es append-only: no hay Update ni Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento en el ledger.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, stock_item_id, location_id, quantity, type, reference, notes, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.StockItemID, m.LocationID, m.Quantity, m.Type, m.Reference, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByItem lista los movimientos de un ítem, más recientes primero.
func (r *StockMovementRepo) ListByItem(stockItemID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, stock_item_id, COALESCE(location_id, ''), quantity, type, reference, notes, created_at
		FROM stock_movements
		WHERE stock_item_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, stockItemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListByDateRange lista los movimientos con created_at en [from, to), ascendente.
func (r *StockMovementRepo) ListByDateRange(from, to time.Time) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, stock_item_id, COALESCE(location_id, ''), quantity, type, reference, notes, created_at
		FROM stock_movements
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list movements by date range: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ReportByDateRange arma las filas del reporte de movimientos, con el
// nombre y SKU del ítem resueltos en el mismo query.
func (r *StockMovementRepo) ReportByDateRange(from, to time.Time) ([]dto.MovementReportRow, error) {
	query := `
		SELECT i.name, i.sku, m.type, m.quantity, m.reference, m.created_at
		FROM stock_movements m
		JOIN stock_items i ON i.id = m.stock_item_id
		WHERE m.created_at >= $1 AND m.created_at < $2
		ORDER BY m.created_at`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("movement report: %w", err)
	}
	defer rows.Close()

	var report []dto.MovementReportRow
	for rows.Next() {
		var row dto.MovementReportRow
		if err := rows.Scan(&row.ItemName, &row.SKU, &row.Type, &row.Quantity, &row.Reference, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func (r *StockMovementRepo) scanMany(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.StockItemID, &m.LocationID, &m.Quantity, &m.Type, &m.Reference, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
