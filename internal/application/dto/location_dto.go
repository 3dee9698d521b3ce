package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationRequest body para crear/actualizar una ubicación.
type LocationRequest struct {
	Name string `json:"name"`
	Type string `json:"type"` // WAREHOUSE | STORE
}

// LocationResponse representación de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationInventoryRow existencia de un ítem en una ubicación.
type LocationInventoryRow struct {
	StockItemID string          `json:"stock_item_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
}
