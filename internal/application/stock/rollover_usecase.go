package stock

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// RolloverUseCase ejecuta el cierre diario: copia quantity ->
// opening_quantity en todas las filas StockLocation, estableciendo la base
// de apertura del día siguiente para la consolidación.
type RolloverUseCase struct {
	runner RolloverRunner
}

// NewRolloverUseCase construye el caso de uso de rollover.
func NewRolloverUseCase(runner RolloverRunner) *RolloverUseCase {
	return &RolloverUseCase{runner: runner}
}

// Run ejecuta el snapshot en una transacción propia. Es idempotente: correrlo
// dos veces seguidas sin movimientos intermedios deja opening_quantity igual.
// El runner garantiza una sola instancia activa a la vez.
func (uc *RolloverUseCase) Run(ctx context.Context) error {
	err := uc.runner.RunRollover(ctx, func(stockLocRepo repository.StockLocationRepository) error {
		return stockLocRepo.SnapshotOpeningQuantities()
	})
	if err != nil {
		return fmt.Errorf("rollover diario: %w", err)
	}
	return nil
}
