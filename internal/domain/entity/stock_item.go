package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un ítem de stock.
const (
	StockStatusActive   = "ACTIVE"    // disponible para venta
	StockStatusLowStock = "LOW_STOCK" // cantidad por debajo del umbral
	StockStatusOutStock = "OUT_STOCK" // sin existencias
	StockStatusInactive = "INACTIVE"  // retirado manualmente; nunca derivado
)

// StockItem representa un SKU con su cantidad global y precio de venta.
// Quantity es una denormalización del libro de movimientos; solo el motor
// de movimientos puede modificarla. Status (salvo INACTIVE) es función pura
// de Quantity.
type StockItem struct {
	ID        string
	SKU       string // único, inmutable después de la creación
	Name      string
	Price     decimal.Decimal
	Quantity  int64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
