package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockItemRequest body para POST /api/stock/items.
type CreateStockItemRequest struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// UpdateStockItemRequest body para PUT /api/stock/items/:id.
// Quantity no es editable: el stock solo cambia vía movimientos.
type UpdateStockItemRequest struct {
	Name   *string          `json:"name,omitempty"`
	Price  *decimal.Decimal `json:"price,omitempty"`
	Status *string          `json:"status,omitempty"`
}

// StockItemResponse representación de un ítem en respuestas.
type StockItemResponse struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StockItemListResponse listado paginado de ítems.
type StockItemListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// RecordMovementRequest body para POST /api/stock/movements.
// location_id vacío = movimiento sobre el stock global del ítem.
// adjust_direction ("IN"|"OUT") es obligatorio cuando type es ADJUST.
type RecordMovementRequest struct {
	StockItemID     string `json:"stock_item_id"`
	LocationID      string `json:"location_id,omitempty"`
	Type            string `json:"type"`
	Quantity        int64  `json:"quantity"`
	AdjustDirection string `json:"adjust_direction,omitempty"`
	Reference       string `json:"reference,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// MovementResponse representación de un movimiento del libro.
type MovementResponse struct {
	ID          string    `json:"id"`
	StockItemID string    `json:"stock_item_id"`
	LocationID  string    `json:"location_id,omitempty"`
	Quantity    int64     `json:"quantity"`
	Type        string    `json:"type"`
	Reference   string    `json:"reference,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransferRequest body para POST /api/transfers.
type TransferRequest struct {
	StockItemID      string `json:"stock_item_id"`
	SourceLocationID string `json:"source_location_id"`
	TargetLocationID string `json:"target_location_id"`
	Quantity         int64  `json:"quantity"`
	Reference        string `json:"reference,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// TransferResponse los dos movimientos generados por un traslado.
type TransferResponse struct {
	OutMovement MovementResponse `json:"out_movement"`
	InMovement  MovementResponse `json:"in_movement"`
}
