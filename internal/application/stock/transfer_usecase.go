package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// TransferUseCase coordina un traslado entre ubicaciones: débito en origen y
// crédito en destino como una sola unidad atómica, compuesta sobre el motor
// de movimientos.
type TransferUseCase struct {
	txRunner TxRunner
	engine   *RecordMovementUseCase
}

// NewTransferUseCase construye el coordinador de traslados.
func NewTransferUseCase(txRunner TxRunner, engine *RecordMovementUseCase) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner, engine: engine}
}

// TransferInput entrada para un traslado entre ubicaciones.
// Reference vacío genera referencias OUT-/IN- con sufijo compartido.
type TransferInput struct {
	StockItemID      string
	SourceLocationID string
	TargetLocationID string
	Quantity         int64
	Reference        string
	Notes            string
}

// Transfer bloquea las dos filas StockLocation en orden total fijo (ID de
// ubicación ascendente, idéntico para todos los callers: dos traslados en
// direcciones opuestas jamás forman ciclo de espera), crea el destino si no
// existe (0/0), valida stock suficiente en el origen y emite los movimientos
// OUT e IN con referencia correlacionada. Ambas patas comitean juntas o
// ninguna queda visible.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*entity.StockTransfer, error) {
	if input.StockItemID == "" || input.SourceLocationID == "" || input.TargetLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.SourceLocationID == input.TargetLocationID || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	outRef, inRef := transferReferences(input.Reference)

	var result *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.StockItemRepository,
		stockLocRepo repository.StockLocationRepository,
		movRepo repository.StockMovementRepository,
	) error {
		item, err := itemRepo.GetByID(input.StockItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		// Adquisición de bloqueos en orden ascendente por LocationID.
		for _, locID := range lockOrder(input.SourceLocationID, input.TargetLocationID) {
			sl, err := stockLocRepo.GetForUpdate(input.StockItemID, locID)
			if err != nil {
				return err
			}
			if sl == nil {
				if locID == input.SourceLocationID {
					return domain.ErrNotFound
				}
				// Destino inexistente: se crea perezosamente con 0/0 y se bloquea.
				now := time.Now()
				if err := stockLocRepo.Create(&entity.StockLocation{
					ID:          uuid.New().String(),
					StockItemID: input.StockItemID,
					LocationID:  locID,
					CreatedAt:   now,
					UpdatedAt:   now,
				}); err != nil {
					return err
				}
				if _, err := stockLocRepo.GetForUpdate(input.StockItemID, locID); err != nil {
					return err
				}
			}
		}

		now := time.Now()
		out, err := uc.engine.ApplyInTx(itemRepo, stockLocRepo, movRepo, MovementInput{
			StockItemID: input.StockItemID,
			LocationID:  input.SourceLocationID,
			Type:        entity.MovementTypeOUT,
			Quantity:    input.Quantity,
			Reference:   outRef,
			Notes:       input.Notes,
		}, now)
		if err != nil {
			return err
		}
		in, err := uc.engine.ApplyInTx(itemRepo, stockLocRepo, movRepo, MovementInput{
			StockItemID: input.StockItemID,
			LocationID:  input.TargetLocationID,
			Type:        entity.MovementTypeIN,
			Quantity:    input.Quantity,
			Reference:   inRef,
			Notes:       input.Notes,
		}, now)
		if err != nil {
			return err
		}
		result = &entity.StockTransfer{OutMovement: out, InMovement: in}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockOrder devuelve las dos ubicaciones en orden total fijo (ascendente).
func lockOrder(a, b string) [2]string {
	if strings.Compare(a, b) <= 0 {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// transferReferences construye las referencias de las dos patas: la del
// caller para ambas, o OUT-/IN- con un sufijo aleatorio compartido.
func transferReferences(reference string) (outRef, inRef string) {
	if reference != "" {
		return reference, reference
	}
	suffix := uuid.New().String()[:8]
	return "OUT-" + suffix, "IN-" + suffix
}
