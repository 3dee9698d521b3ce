package report

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// ReportTxRunner ejecuta lecturas dentro de una transacción read-only: la
// base de apertura y los movimientos se leen en un mismo snapshot consistente
// para no observar un rollover a medio camino.
type ReportTxRunner interface {
	RunReadOnly(ctx context.Context, fn func(
		stockLocRepo repository.StockLocationRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// ConsolidationPDFGenerator genera la representación PDF de un reporte
// consolidado (puerto hacia la infraestructura Maroto).
type ConsolidationPDFGenerator interface {
	GenerateConsolidationPDF(ctx context.Context, rep *ReportData) ([]byte, error)
}
