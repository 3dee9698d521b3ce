package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. PENDING es el único estado no terminal.
const (
	SaleStatusPending   = "PENDING"
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCancelled = "CANCELLED"
)

// Sale representa una venta con sus líneas. El stock se descuenta al crearla;
// cancelarla emite movimientos IN compensatorios.
type Sale struct {
	ID            string
	Reference     string // único, formato SALE-<8HEX>
	CustomerName  string
	CustomerPhone string
	LocationID    string // vacío = venta contra stock global
	Status        string
	Total         decimal.Decimal
	Items         []SaleItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem es una línea de venta con el precio congelado al momento de crearla.
type SaleItem struct {
	ID          string
	SaleID      string
	StockItemID string
	Quantity    int64
	Price       decimal.Decimal
	Total       decimal.Decimal
}

// StockTransfer empareja los dos movimientos que produce un traslado.
// Resultado transitorio; no se persiste como entidad propia.
type StockTransfer struct {
	OutMovement *StockMovement
	InMovement  *StockMovement
}
