package repository

import (
	"time"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos.
// Solo inserta y lee: el libro es append-only.
type StockMovementRepository interface {
	Create(m *entity.StockMovement) error
	ListByItem(stockItemID string, limit, offset int) ([]*entity.StockMovement, error)
	// ListByDateRange devuelve movimientos con created_at en [from, to),
	// ordenados por created_at ascendente.
	ListByDateRange(from, to time.Time) ([]*entity.StockMovement, error)
	// ReportByDateRange devuelve las filas del reporte de movimientos de un
	// período (join con el ítem). La produce la DB; el use case la expone tal cual.
	ReportByDateRange(from, to time.Time) ([]dto.MovementReportRow, error)
}
