package stock

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// movimientos: cualquier error hace rollback de todo lo aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.StockItemRepository,
		stockLocRepo repository.StockLocationRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// RolloverRunner ejecuta el rollover diario dentro de una transacción propia.
// La implementación debe garantizar una sola instancia activa (advisory lock):
// si otra instancia lo está ejecutando devuelve domain.ErrConflict sin tocar datos.
type RolloverRunner interface {
	RunRollover(ctx context.Context, fn func(
		stockLocRepo repository.StockLocationRepository,
	) error) error
}
