package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	domstock "github.com/jhoicas/stockflow-api/internal/domain/stock"
)

// RecordMovementUseCase es el motor de movimientos: la única primitiva que
// muta cantidades de stock. Cada movimiento bloquea su fila (SELECT FOR
// UPDATE), valida, actualiza la cantidad denormalizada y agrega una entrada
// inmutable al libro, todo en una transacción.
type RecordMovementUseCase struct {
	txRunner          TxRunner
	lowStockThreshold int64
}

// NewRecordMovementUseCase construye el motor. threshold <= 0 usa el umbral por defecto.
func NewRecordMovementUseCase(txRunner TxRunner, threshold int64) *RecordMovementUseCase {
	if threshold <= 0 {
		threshold = domstock.DefaultLowStockThreshold
	}
	return &RecordMovementUseCase{txRunner: txRunner, lowStockThreshold: threshold}
}

// MovementInput entrada para registrar un movimiento.
// LocationID vacío opera sobre el stock global del ítem.
// Quantity siempre es la magnitud positiva; AdjustDirection ("IN"|"OUT") hace
// explícito el signo de los ADJUST en lugar de adivinarlo.
type MovementInput struct {
	StockItemID     string
	LocationID      string
	Type            string
	Quantity        int64
	AdjustDirection string
	Reference       string
	Notes           string
}

// direction resuelve la dirección efectiva del movimiento.
func (in MovementInput) direction() (string, error) {
	switch in.Type {
	case entity.MovementTypeIN:
		return entity.MovementTypeIN, nil
	case entity.MovementTypeOUT:
		return entity.MovementTypeOUT, nil
	case entity.MovementTypeADJUST:
		if in.AdjustDirection != entity.MovementTypeIN && in.AdjustDirection != entity.MovementTypeOUT {
			return "", domain.ErrInvalidInput
		}
		return in.AdjustDirection, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// RecordMovement valida la entrada, abre una transacción y aplica el
// movimiento. Devuelve el movimiento creado.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.StockItemID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := input.direction(); err != nil {
		return nil, err
	}

	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.StockItemRepository,
		stockLocRepo repository.StockLocationRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		created, err = uc.ApplyInTx(itemRepo, stockLocRepo, movRepo, input, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ApplyInTx aplica un movimiento usando repositorios atados a la transacción
// del caller (traslados y ventas componen sobre esta primitiva). Bloquea la
// fila objetivo: el StockItem global si no hay ubicación, o la fila
// StockLocation de la pareja (ítem, ubicación). Valida stock suficiente en
// salidas, actualiza la cantidad y agrega la entrada al libro.
func (uc *RecordMovementUseCase) ApplyInTx(
	itemRepo repository.StockItemRepository,
	stockLocRepo repository.StockLocationRepository,
	movRepo repository.StockMovementRepository,
	input MovementInput,
	now time.Time,
) (*entity.StockMovement, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	dir, err := input.direction()
	if err != nil {
		return nil, err
	}
	delta := input.Quantity
	if dir == entity.MovementTypeOUT {
		delta = -delta
	}

	if input.LocationID == "" {
		// Stock global: bloquea la fila del ítem y deriva el estado.
		item, err := itemRepo.GetForUpdate(input.StockItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		if dir == entity.MovementTypeOUT && item.Quantity < input.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		item.Quantity += delta
		item.Status = domstock.StatusFor(item.Quantity, uc.lowStockThreshold)
		item.UpdatedAt = now
		if err := itemRepo.Update(item); err != nil {
			return nil, err
		}
	} else {
		// Stock por ubicación: el ítem se consulta solo para validar existencia.
		item, err := itemRepo.GetByID(input.StockItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		sl, err := stockLocRepo.GetForUpdate(input.StockItemID, input.LocationID)
		if err != nil {
			return nil, err
		}
		if sl == nil {
			return nil, domain.ErrNotFound
		}
		if dir == entity.MovementTypeOUT && sl.Quantity < input.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		sl.Quantity += delta
		sl.UpdatedAt = now
		if err := stockLocRepo.UpdateQuantity(sl); err != nil {
			return nil, err
		}
	}

	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		StockItemID: input.StockItemID,
		LocationID:  input.LocationID,
		Quantity:    input.Quantity,
		Type:        input.Type,
		Reference:   input.Reference,
		Notes:       input.Notes,
		CreatedAt:   now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordMovementFromRequest adapta el request HTTP al caso de uso.
func (uc *RecordMovementUseCase) RecordMovementFromRequest(ctx context.Context, in dto.RecordMovementRequest) (*entity.StockMovement, error) {
	return uc.RecordMovement(ctx, MovementInput{
		StockItemID:     in.StockItemID,
		LocationID:      in.LocationID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		AdjustDirection: in.AdjustDirection,
		Reference:       in.Reference,
		Notes:           in.Notes,
	})
}
