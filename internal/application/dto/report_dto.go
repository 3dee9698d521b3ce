package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSummary resumen diario de un (ubicación, ítem): apertura, entradas,
// salidas y remanente = apertura + entradas - salidas.
type StockSummary struct {
	OpeningStock int64 `json:"opening_stock"`
	Incoming     int64 `json:"incoming"`
	Outgoing     int64 `json:"outgoing"`
	Remainder    int64 `json:"remainder"`
}

// ConsolidationReport reporte consolidado por fecha:
// locationID -> stockItemID -> StockSummary.
type ConsolidationReport struct {
	Date      string                             `json:"date"`
	Summaries map[string]map[string]StockSummary `json:"summaries"`
}

// MovementReportRow fila del reporte de movimientos de un período.
type MovementReportRow struct {
	ItemName  string    `json:"item_name"`
	SKU       string    `json:"sku"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DailySalesSummary ventas completadas agrupadas por día.
type DailySalesSummary struct {
	Date       string          `json:"date"`
	SalesCount int64           `json:"sales_count"`
	Total      decimal.Decimal `json:"total"`
}
