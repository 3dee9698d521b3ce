package stock

import "github.com/jhoicas/stockflow-api/internal/domain/entity"

// DefaultLowStockThreshold umbral por defecto para marcar LOW_STOCK.
const DefaultLowStockThreshold int64 = 10

// StatusFor deriva el estado de un ítem a partir de su cantidad (servicio de
// dominio, función pura): <= 0 OUT_STOCK; 1..umbral LOW_STOCK; resto ACTIVE.
// INACTIVE se asigna manualmente y nunca se deriva aquí.
func StatusFor(quantity, threshold int64) string {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	switch {
	case quantity <= 0:
		return entity.StockStatusOutStock
	case quantity <= threshold:
		return entity.StockStatusLowStock
	default:
		return entity.StockStatusActive
	}
}
