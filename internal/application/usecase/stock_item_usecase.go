package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	domstock "github.com/jhoicas/stockflow-api/internal/domain/stock"
)

// StockItemUseCase casos de uso CRUD para ítems de stock. La cantidad solo
// cambia vía movimientos (pista de auditoría); aquí nunca se edita.
type StockItemUseCase struct {
	repo              repository.StockItemRepository
	lowStockThreshold int64
}

// NewStockItemUseCase construye el caso de uso.
func NewStockItemUseCase(repo repository.StockItemRepository, threshold int64) *StockItemUseCase {
	if threshold <= 0 {
		threshold = domstock.DefaultLowStockThreshold
	}
	return &StockItemUseCase{repo: repo, lowStockThreshold: threshold}
}

// Create crea un ítem. SKU duplicado devuelve ErrDuplicate. El estado inicial
// se deriva de la cantidad inicial.
func (uc *StockItemUseCase) Create(in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	if in.SKU == "" || in.Name == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.StockItem{
		ID:        uuid.New().String(),
		SKU:       in.SKU,
		Name:      in.Name,
		Price:     in.Price,
		Quantity:  in.Quantity,
		Status:    domstock.StatusFor(in.Quantity, uc.lowStockThreshold),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toStockItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *StockItemUseCase) GetByID(id string) (*dto.StockItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toStockItemResponse(item), nil
}

// Update actualiza nombre, precio o estado. SKU es inmutable y Quantity solo
// cambia vía movimientos. Status aquí solo admite INACTIVE o volver al estado
// derivado (cualquier otro valor explícito es entrada inválida).
func (uc *StockItemUseCase) Update(id string, in dto.UpdateStockItemRequest) (*dto.StockItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.StockStatusInactive:
			item.Status = entity.StockStatusInactive
		case entity.StockStatusActive:
			item.Status = domstock.StatusFor(item.Quantity, uc.lowStockThreshold)
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toStockItemResponse(item), nil
}

// Delete elimina un ítem sin existencias. Con stock restante devuelve
// ErrConflict: primero hay que darlo de salida o trasladarlo.
func (uc *StockItemUseCase) Delete(id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if item.Quantity > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

// List lista ítems con paginación.
func (uc *StockItemUseCase) List(limit, offset int) (*dto.StockItemListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toStockItemResponse(it))
	}
	return &dto.StockItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListLowStock lista los ítems en estado LOW_STOCK.
func (uc *StockItemUseCase) ListLowStock() ([]dto.StockItemResponse, error) {
	list, err := uc.repo.ListByStatus(entity.StockStatusLowStock)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toStockItemResponse(it))
	}
	return items, nil
}

func toStockItemResponse(it *entity.StockItem) *dto.StockItemResponse {
	if it == nil {
		return nil
	}
	return &dto.StockItemResponse{
		ID:        it.ID,
		SKU:       it.SKU,
		Name:      it.Name,
		Price:     it.Price,
		Quantity:  it.Quantity,
		Status:    it.Status,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}
