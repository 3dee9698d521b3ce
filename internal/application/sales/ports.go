package sales

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción con los
// repositorios de inventario y ventas atados a esa tx. Una venta parcial
// (algunas líneas debitadas, otras fallidas) jamás comitea.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		itemRepo repository.StockItemRepository,
		stockLocRepo repository.StockLocationRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
