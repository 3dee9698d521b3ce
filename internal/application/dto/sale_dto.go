package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta solicitada.
type SaleItemRequest struct {
	StockItemID string `json:"stock_item_id"`
	Quantity    int64  `json:"quantity"`
}

// CreateSaleRequest body para POST /api/sales.
// location_id vacío = la venta descuenta del stock global.
type CreateSaleRequest struct {
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	LocationID    string            `json:"location_id,omitempty"`
	Items         []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta con precio congelado.
type SaleItemResponse struct {
	StockItemID string          `json:"stock_item_id"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse representación de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	Reference     string             `json:"reference"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	LocationID    string             `json:"location_id,omitempty"`
	Status        string             `json:"status"`
	Total         decimal.Decimal    `json:"total"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
