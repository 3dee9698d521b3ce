package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/report"
)

// ReportHandler maneja los reportes: consolidado diario (JSON y PDF),
// movimientos por período y resumen diario de ventas (protegido).
type ReportHandler struct {
	consolidationUC *report.ConsolidationUseCase
	reportingUC     *report.ReportingUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(consolidationUC *report.ConsolidationUseCase, reportingUC *report.ReportingUseCase) *ReportHandler {
	return &ReportHandler{consolidationUC: consolidationUC, reportingUC: reportingUC}
}

// Consolidation godoc
// @Summary      Reporte consolidado de stock de un día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Fecha YYYY-MM-DD (por defecto hoy)"
// @Success      200   {object}  dto.ConsolidationReport
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/consolidation [get]
func (h *ReportHandler) Consolidation(c *fiber.Ctx) error {
	date, err := parseDateParam(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	out, err := h.consolidationUC.GenerateReportDTO(c.UserContext(), date)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ConsolidationPDF godoc
// @Summary      Reporte consolidado de stock de un día en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        date  query  string  false  "Fecha YYYY-MM-DD (por defecto hoy)"
// @Success      200   {file}  byte
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/consolidation/pdf [get]
func (h *ReportHandler) ConsolidationPDF(c *fiber.Ctx) error {
	date, err := parseDateParam(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	pdfBytes, err := h.consolidationUC.GenerateReportPDF(c.UserContext(), date)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="consolidado-`+date.Format("2006-01-02")+`.pdf"`)
	return c.Send(pdfBytes)
}

// Movements godoc
// @Summary      Reporte de movimientos de un período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Desde YYYY-MM-DD (inclusive)"
// @Param        to    query  string  true  "Hasta YYYY-MM-DD (exclusive)"
// @Success      200   {array}  dto.MovementReportRow
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	from, to, err := parseRangeParams(c.Query("from"), c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.reportingUC.MovementReport(c.UserContext(), from, to)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// DailySales godoc
// @Summary      Resumen diario de ventas completadas de un período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Desde YYYY-MM-DD (inclusive)"
// @Param        to    query  string  true  "Hasta YYYY-MM-DD (exclusive)"
// @Success      200   {array}  dto.DailySalesSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/sales/daily [get]
func (h *ReportHandler) DailySales(c *fiber.Ctx) error {
	from, to, err := parseRangeParams(c.Query("from"), c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.reportingUC.DailySalesSummary(c.UserContext(), from, to)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// parseDateParam interpreta YYYY-MM-DD; vacío = hoy (UTC).
func parseDateParam(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

// parseRangeParams interpreta el rango [from, to) en YYYY-MM-DD.
func parseRangeParams(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "from debe ser YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "to debe ser YYYY-MM-DD")
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "to debe ser posterior a from")
	}
	return from, to, nil
}
