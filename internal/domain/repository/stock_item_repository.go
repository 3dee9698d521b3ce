package repository

import "github.com/jhoicas/stockflow-api/internal/domain/entity"

// StockItemRepository define el puerto de persistencia para StockItem (DIP).
// Quantity y Status solo se escriben desde el motor de movimientos.
type StockItemRepository interface {
	Create(item *entity.StockItem) error
	GetByID(id string) (*entity.StockItem, error)
	GetBySKU(sku string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.StockItem, error)
	Update(item *entity.StockItem) error
	List(limit, offset int) ([]*entity.StockItem, error)
	ListByStatus(status string) ([]*entity.StockItem, error)
	Delete(id string) error
}
