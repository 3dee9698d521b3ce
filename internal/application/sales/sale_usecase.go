package sales

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// SaleUseCase gestiona el ciclo de vida de una venta: creación (débito de
// stock línea a línea vía el motor de movimientos), cancelación (movimientos
// IN compensatorios) y finalización. PENDING -> {COMPLETED, CANCELLED} son
// las únicas transiciones; ambos destinos son terminales.
type SaleUseCase struct {
	txRunner     SaleTxRunner
	engine       *stock.RecordMovementUseCase
	locationRepo repository.LocationRepository
	saleRepo     repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso de ventas. saleRepo se usa para
// lecturas fuera de transacción (listados, GetByID).
func NewSaleUseCase(
	txRunner SaleTxRunner,
	engine *stock.RecordMovementUseCase,
	locationRepo repository.LocationRepository,
	saleRepo repository.SaleRepository,
) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, engine: engine, locationRepo: locationRepo, saleRepo: saleRepo}
}

// CreateSale crea una venta PENDING debitando el stock de cada línea en la
// misma transacción que persiste la venta. location_id presente exige que la
// pareja (ítem, ubicación) exista con stock suficiente; sin ubicación se
// debita el stock global. Cualquier línea fallida aborta toda la venta.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.StockItemID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.LocationID != "" {
		loc, err := uc.locationRepo.GetByID(in.LocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		Reference:     generateSaleReference(),
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		LocationID:    in.LocationID,
		Status:        entity.SaleStatusPending,
		Total:         decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := uc.txRunner.RunSale(ctx, func(
		itemRepo repository.StockItemRepository,
		stockLocRepo repository.StockLocationRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		total := decimal.Zero
		for _, line := range in.Items {
			item, err := itemRepo.GetByID(line.StockItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			// Débito vía el motor de movimientos (misma tx).
			if _, err := uc.engine.ApplyInTx(itemRepo, stockLocRepo, movRepo, stock.MovementInput{
				StockItemID: line.StockItemID,
				LocationID:  in.LocationID,
				Type:        entity.MovementTypeOUT,
				Quantity:    line.Quantity,
				Reference:   sale.Reference,
			}, now); err != nil {
				return err
			}
			lineTotal := item.Price.Mul(decimal.NewFromInt(line.Quantity))
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				StockItemID: line.StockItemID,
				Quantity:    line.Quantity,
				Price:       item.Price,
				Total:       lineTotal,
			})
			total = total.Add(lineTotal)
		}
		sale.Total = total
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// CancelSale revierte una venta PENDING: un movimiento IN compensatorio por
// línea (mismo alcance de ubicación que el débito original, referencia
// CANCEL-<referencia original>) y transición a CANCELLED, todo en una tx.
func (uc *SaleUseCase) CancelSale(ctx context.Context, saleID string) (*entity.Sale, error) {
	var cancelled *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		itemRepo repository.StockItemRepository,
		stockLocRepo repository.StockLocationRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusPending {
			return domain.ErrInvalidState
		}
		now := time.Now()
		for _, line := range sale.Items {
			if _, err := uc.engine.ApplyInTx(itemRepo, stockLocRepo, movRepo, stock.MovementInput{
				StockItemID: line.StockItemID,
				LocationID:  sale.LocationID,
				Type:        entity.MovementTypeIN,
				Quantity:    line.Quantity,
				Reference:   "CANCEL-" + sale.Reference,
				Notes:       "Cancelación de venta",
			}, now); err != nil {
				return err
			}
		}
		if err := saleRepo.UpdateStatus(sale.ID, entity.SaleStatusCancelled); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusCancelled
		sale.UpdatedAt = now
		cancelled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// CompleteSale transiciona PENDING -> COMPLETED sin efecto sobre el stock
// (ya se debitó al crear la venta).
func (uc *SaleUseCase) CompleteSale(ctx context.Context, saleID string) (*entity.Sale, error) {
	var completed *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		_ repository.StockItemRepository,
		_ repository.StockLocationRepository,
		_ repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusPending {
			return domain.ErrInvalidState
		}
		if err := saleRepo.UpdateStatus(sale.ID, entity.SaleStatusCompleted); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusCompleted
		completed = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// GetSale obtiene una venta por ID con sus líneas.
func (uc *SaleUseCase) GetSale(ctx context.Context, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// GetSaleByReference obtiene una venta por su referencia SALE-<8HEX>.
func (uc *SaleUseCase) GetSaleByReference(ctx context.Context, reference string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByReference(reference)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// ListSales lista ventas con paginación.
func (uc *SaleUseCase) ListSales(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	return uc.saleRepo.List(limit, offset)
}

// generateSaleReference genera una referencia única legible: SALE-<8HEX>.
func generateSaleReference() string {
	return "SALE-" + strings.ToUpper(uuid.New().String()[:8])
}
