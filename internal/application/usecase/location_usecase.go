package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones físicas y la consulta
// del inventario por ubicación. Sin semántica de cantidades: eso es del
// motor de movimientos.
type LocationUseCase struct {
	repo         repository.LocationRepository
	stockLocRepo repository.StockLocationRepository
	itemRepo     repository.StockItemRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(
	repo repository.LocationRepository,
	stockLocRepo repository.StockLocationRepository,
	itemRepo repository.StockItemRepository,
) *LocationUseCase {
	return &LocationUseCase{repo: repo, stockLocRepo: stockLocRepo, itemRepo: itemRepo}
}

// Create crea una ubicación WAREHOUSE o STORE.
func (uc *LocationUseCase) Create(in dto.LocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" || !validLocationType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByID obtiene una ubicación.
func (uc *LocationUseCase) GetByID(id string) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(loc), nil
}

// Update actualiza nombre y tipo.
func (uc *LocationUseCase) Update(id string, in dto.LocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		loc.Name = in.Name
	}
	if in.Type != "" {
		if !validLocationType(in.Type) {
			return nil, domain.ErrInvalidInput
		}
		loc.Type = in.Type
	}
	loc.UpdatedAt = time.Now()
	if err := uc.repo.Update(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// List lista todas las ubicaciones.
func (uc *LocationUseCase) List() ([]dto.LocationResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

// Delete elimina una ubicación sin stock. Con existencias devuelve
// ErrConflict: primero hay que trasladar el stock.
func (uc *LocationUseCase) Delete(id string) error {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	count, err := uc.stockLocRepo.CountByLocation(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

// Inventory devuelve las existencias por ítem en una ubicación.
func (uc *LocationUseCase) Inventory(locationID string) ([]dto.LocationInventoryRow, error) {
	loc, err := uc.repo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	stockLocs, err := uc.stockLocRepo.ListByLocation(locationID)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.LocationInventoryRow, 0, len(stockLocs))
	for _, sl := range stockLocs {
		item, err := uc.itemRepo.GetByID(sl.StockItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		rows = append(rows, dto.LocationInventoryRow{
			StockItemID: item.ID,
			SKU:         item.SKU,
			Name:        item.Name,
			Price:       item.Price,
			Quantity:    sl.Quantity,
		})
	}
	return rows, nil
}

func validLocationType(t string) bool {
	return t == entity.LocationTypeWarehouse || t == entity.LocationTypeStore
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{ID: l.ID, Name: l.Name, Type: l.Type, CreatedAt: l.CreatedAt}
}
