package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// DailySalesRow resultado crudo del resumen diario de ventas.
type DailySalesRow struct {
	Day   time.Time
	Count int64
	Total decimal.Decimal
}

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	// Create persiste la venta con todas sus líneas.
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	GetByReference(reference string) (*entity.Sale, error)
	UpdateStatus(id, status string) error
	List(limit, offset int) ([]*entity.Sale, error)
	// DailySummary agrupa ventas por día (conteo y total) para un estado dado.
	DailySummary(status string, from, to time.Time) ([]DailySalesRow, error)
}
