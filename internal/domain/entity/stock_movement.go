package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN     = "IN"     // entrada
	MovementTypeOUT    = "OUT"    // salida
	MovementTypeADJUST = "ADJUST" // ajuste manual (conteo físico)
)

// StockMovement es una entrada inmutable del libro de movimientos: nunca se
// actualiza ni se borra. Quantity siempre es la magnitud positiva; el signo
// lo da Type (y la dirección explícita en los ajustes).
type StockMovement struct {
	ID          string
	StockItemID string
	LocationID  string // vacío = movimiento sobre el stock global
	Quantity    int64
	Type        string
	Reference   string // correlaciona movimientos relacionados (venta, traslado)
	Notes       string
	CreatedAt   time.Time
}
