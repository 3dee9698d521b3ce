package entity

import "time"

// Tipos de ubicación física.
const (
	LocationTypeWarehouse = "WAREHOUSE"
	LocationTypeStore     = "STORE"
)

// Location representa una bodega o tienda donde se almacena stock.
type Location struct {
	ID        string
	Name      string
	Type      string // WAREHOUSE o STORE
	CreatedAt time.Time
	UpdatedAt time.Time
}
