package report

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// ConsolidationUseCase reconstruye, para una fecha dada, el resumen
// apertura/entradas/salidas/remanente por (ubicación, ítem) a partir de la
// base de apertura y del libro de movimientos. Solo lectura: los movimientos
// históricos son inmutables.
type ConsolidationUseCase struct {
	txRunner ReportTxRunner
	pdf      ConsolidationPDFGenerator
}

// NewConsolidationUseCase construye el motor de consolidación.
func NewConsolidationUseCase(txRunner ReportTxRunner, pdf ConsolidationPDFGenerator) *ConsolidationUseCase {
	return &ConsolidationUseCase{txRunner: txRunner, pdf: pdf}
}

// ReportData reporte consolidado en memoria, con las filas ya ordenadas para
// render (PDF) además del mapa anidado que expone la API.
type ReportData struct {
	Date      time.Time
	Summaries map[string]map[string]dto.StockSummary
}

// GenerateReport calcula el consolidado del día [date 00:00, date+1 00:00).
// La base es opening_quantity de cada StockLocation actualizada hasta el fin
// del día; los movimientos con ubicación se pliegan en orden cronológico:
// IN suma a entradas, todo lo demás (OUT y ADJUST) a salidas. Un movimiento
// de una pareja sin base abre una entrada con apertura cero.
func (uc *ConsolidationUseCase) GenerateReport(ctx context.Context, date time.Time) (*ReportData, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	summaries := make(map[string]map[string]dto.StockSummary)
	err := uc.txRunner.RunReadOnly(ctx, func(
		stockLocRepo repository.StockLocationRepository,
		movRepo repository.StockMovementRepository,
	) error {
		baseline, err := stockLocRepo.OpeningBaseline(dayEnd)
		if err != nil {
			return err
		}
		for locID, items := range baseline {
			byItem := make(map[string]dto.StockSummary, len(items))
			for itemID, opening := range items {
				byItem[itemID] = dto.StockSummary{OpeningStock: opening, Remainder: opening}
			}
			summaries[locID] = byItem
		}

		movements, err := movRepo.ListByDateRange(dayStart, dayEnd)
		if err != nil {
			return err
		}
		for _, m := range movements {
			if m.LocationID == "" {
				continue // movimiento global, fuera del consolidado por ubicación
			}
			byItem, ok := summaries[m.LocationID]
			if !ok {
				byItem = make(map[string]dto.StockSummary)
				summaries[m.LocationID] = byItem
			}
			s := byItem[m.StockItemID] // pareja sin base: apertura implícita cero
			if m.Type == entity.MovementTypeIN {
				s.Incoming += m.Quantity
			} else {
				s.Outgoing += m.Quantity
			}
			s.Remainder = s.OpeningStock + s.Incoming - s.Outgoing
			byItem[m.StockItemID] = s
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ReportData{Date: dayStart, Summaries: summaries}, nil
}

// GenerateReportDTO devuelve el consolidado listo para serializar.
func (uc *ConsolidationUseCase) GenerateReportDTO(ctx context.Context, date time.Time) (*dto.ConsolidationReport, error) {
	rep, err := uc.GenerateReport(ctx, date)
	if err != nil {
		return nil, err
	}
	return &dto.ConsolidationReport{
		Date:      rep.Date.Format("2006-01-02"),
		Summaries: rep.Summaries,
	}, nil
}

// GenerateReportPDF genera el consolidado y lo exporta como PDF.
func (uc *ConsolidationUseCase) GenerateReportPDF(ctx context.Context, date time.Time) ([]byte, error) {
	rep, err := uc.GenerateReport(ctx, date)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateConsolidationPDF(ctx, rep)
}

// SortedLocationIDs devuelve las ubicaciones del reporte en orden estable.
func (r *ReportData) SortedLocationIDs() []string {
	ids := make([]string, 0, len(r.Summaries))
	for id := range r.Summaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedItemIDs devuelve los ítems de una ubicación en orden estable.
func (r *ReportData) SortedItemIDs(locationID string) []string {
	ids := make([]string, 0, len(r.Summaries[locationID]))
	for id := range r.Summaries[locationID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
