package entity

import "time"

// StockLocation representa la existencia de un ítem en una ubicación física.
// La clave natural es (StockItemID, LocationID). OpeningQuantity es la foto
// que toma el rollover diario y sirve de base para la consolidación.
type StockLocation struct {
	ID              string
	StockItemID     string
	LocationID      string
	Quantity        int64
	OpeningQuantity int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
