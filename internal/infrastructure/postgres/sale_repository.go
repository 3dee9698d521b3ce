package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = "id, reference, customer_name, customer_phone, COALESCE(location_id, ''), status, total, created_at, updated_at"

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta con sus líneas. Referencia duplicada devuelve ErrDuplicate.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	query := `
		INSERT INTO sales (id, reference, customer_name, customer_phone, location_id, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.Reference, sale.CustomerName, sale.CustomerPhone, sale.LocationID,
		sale.Status, sale.Total, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, line := range sale.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, stock_item_id, quantity, price, total)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID, sale.ID, line.StockItemID, line.Quantity, line.Price, line.Total,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con sus líneas. Devuelve nil, nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return r.getOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByReference obtiene una venta por referencia, con sus líneas.
func (r *SaleRepo) GetByReference(reference string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE reference = $1`
	return r.getOne(r.q.QueryRow(context.Background(), query, reference))
}

// UpdateStatus cambia el estado de la venta.
func (r *SaleRepo) UpdateStatus(id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE sales SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ventas, más recientes primero, sin líneas.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Reference, &s.CustomerName, &s.CustomerPhone, &s.LocationID,
			&s.Status, &s.Total, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// DailySummary agrega ventas por día para un estado dado en [from, to).
func (r *SaleRepo) DailySummary(status string, from, to time.Time) ([]repository.DailySalesRow, error) {
	query := `
		SELECT DATE(created_at) AS day, COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY day
		ORDER BY day`
	rows, err := r.q.Query(context.Background(), query, status, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily sales summary: %w", err)
	}
	defer rows.Close()

	var summary []repository.DailySalesRow
	for rows.Next() {
		var row repository.DailySalesRow
		if err := rows.Scan(&row.Day, &row.Count, &row.Total); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}

func (r *SaleRepo) getOne(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.Reference, &s.CustomerName, &s.CustomerPhone, &s.LocationID,
		&s.Status, &s.Total, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.listItems(s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) listItems(saleID string) ([]entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, stock_item_id, quantity, price, total
		FROM sale_items WHERE sale_id = $1`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var items []entity.SaleItem
	for rows.Next() {
		var li entity.SaleItem
		if err := rows.Scan(&li.ID, &li.SaleID, &li.StockItemID, &li.Quantity, &li.Price, &li.Total); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, li)
	}
	return items, rows.Err()
}
