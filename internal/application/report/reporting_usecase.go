package report

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// ReportingUseCase lecturas de reporte sobre el libro de movimientos y las
// ventas. Sin bloqueos: todo es histórico e inmutable.
type ReportingUseCase struct {
	movRepo  repository.StockMovementRepository
	saleRepo repository.SaleRepository
}

// NewReportingUseCase construye el caso de uso de reportes.
func NewReportingUseCase(movRepo repository.StockMovementRepository, saleRepo repository.SaleRepository) *ReportingUseCase {
	return &ReportingUseCase{movRepo: movRepo, saleRepo: saleRepo}
}

// MovementReport devuelve los movimientos del período con los datos del ítem.
func (uc *ReportingUseCase) MovementReport(ctx context.Context, from, to time.Time) ([]dto.MovementReportRow, error) {
	return uc.movRepo.ReportByDateRange(from, to)
}

// ItemMovements devuelve el historial de movimientos de un ítem, paginado,
// más recientes primero.
func (uc *ReportingUseCase) ItemMovements(ctx context.Context, stockItemID string, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByItem(stockItemID, limit, offset)
}

// DailySalesSummary agrupa las ventas COMPLETED por día: conteo y total.
func (uc *ReportingUseCase) DailySalesSummary(ctx context.Context, from, to time.Time) ([]dto.DailySalesSummary, error) {
	rows, err := uc.saleRepo.DailySummary(entity.SaleStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailySalesSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DailySalesSummary{
			Date:       r.Day.Format("2006-01-02"),
			SalesCount: r.Count,
			Total:      r.Total,
		})
	}
	return out, nil
}
