// Package apptest provee un almacén en memoria que implementa los puertos de
// repositorio y los runners transaccionales, para probar los casos de uso sin
// PostgreSQL. Las transacciones se serializan con un mutex y un error del
// callback restaura el snapshot previo (rollback).
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// MemStore estado compartido de los repos en memoria.
type MemStore struct {
	mu        sync.Mutex
	items     map[string]*entity.StockItem
	stockLocs map[string]*entity.StockLocation // clave: itemID|locID
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
	locations map[string]*entity.Location
	users     map[string]*entity.User
}

// NewMemStore construye un almacén vacío.
func NewMemStore() *MemStore {
	return &MemStore{
		items:     make(map[string]*entity.StockItem),
		stockLocs: make(map[string]*entity.StockLocation),
		sales:     make(map[string]*entity.Sale),
		locations: make(map[string]*entity.Location),
		users:     make(map[string]*entity.User),
	}
}

func slKey(itemID, locID string) string { return itemID + "|" + locID }

// ── Seeds y lecturas directas para asserts ───────────────────────────────────

// SeedItem inserta un ítem directamente (sin validación).
func (s *MemStore) SeedItem(it *entity.StockItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *it
	s.items[it.ID] = &cp
}

// SeedStockLocation inserta una pareja (ítem, ubicación) directamente.
func (s *MemStore) SeedStockLocation(sl *entity.StockLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sl
	s.stockLocs[slKey(sl.StockItemID, sl.LocationID)] = &cp
}

// SeedMovement agrega una entrada al libro directamente.
func (s *MemStore) SeedMovement(m *entity.StockMovement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.movements = append(s.movements, &cp)
}

// SeedLocation inserta una ubicación directamente.
func (s *MemStore) SeedLocation(l *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.locations[l.ID] = &cp
}

// ItemQuantity devuelve la cantidad global actual de un ítem.
func (s *MemStore) ItemQuantity(itemID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[itemID]; ok {
		return it.Quantity
	}
	return 0
}

// ItemStatus devuelve el estado actual de un ítem.
func (s *MemStore) ItemStatus(itemID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[itemID]; ok {
		return it.Status
	}
	return ""
}

// StockLocationQuantity devuelve la cantidad de la pareja (ítem, ubicación),
// o -1 si la pareja no existe.
func (s *MemStore) StockLocationQuantity(itemID, locID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.stockLocs[slKey(itemID, locID)]; ok {
		return sl.Quantity
	}
	return -1
}

// MovementCount devuelve cuántas entradas tiene el libro.
func (s *MemStore) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// AllMovements devuelve una copia del libro completo.
func (s *MemStore) AllMovements() []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

// SaleByID devuelve una copia de la venta, o nil.
func (s *MemStore) SaleByID(id string) *entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale, ok := s.sales[id]; ok {
		return cloneSale(sale)
	}
	return nil
}

// ── Snapshot y rollback ──────────────────────────────────────────────────────

type snapshot struct {
	items     map[string]*entity.StockItem
	stockLocs map[string]*entity.StockLocation
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
	locations map[string]*entity.Location
	users     map[string]*entity.User
}

func (s *MemStore) takeSnapshot() snapshot {
	snap := snapshot{
		items:     make(map[string]*entity.StockItem, len(s.items)),
		stockLocs: make(map[string]*entity.StockLocation, len(s.stockLocs)),
		movements: make([]*entity.StockMovement, len(s.movements)),
		sales:     make(map[string]*entity.Sale, len(s.sales)),
		locations: make(map[string]*entity.Location, len(s.locations)),
		users:     make(map[string]*entity.User, len(s.users)),
	}
	for k, v := range s.items {
		cp := *v
		snap.items[k] = &cp
	}
	for k, v := range s.stockLocs {
		cp := *v
		snap.stockLocs[k] = &cp
	}
	copy(snap.movements, s.movements)
	for k, v := range s.sales {
		snap.sales[k] = cloneSale(v)
	}
	for k, v := range s.locations {
		cp := *v
		snap.locations[k] = &cp
	}
	for k, v := range s.users {
		cp := *v
		snap.users[k] = &cp
	}
	return snap
}

func (s *MemStore) restore(snap snapshot) {
	s.items = snap.items
	s.stockLocs = snap.stockLocs
	s.movements = snap.movements
	s.sales = snap.sales
	s.locations = snap.locations
	s.users = snap.users
}

func cloneSale(in *entity.Sale) *entity.Sale {
	cp := *in
	cp.Items = append([]entity.SaleItem(nil), in.Items...)
	return &cp
}

// ── Runner transaccional ─────────────────────────────────────────────────────

// MemTxRunner serializa transacciones sobre un MemStore.
type MemTxRunner struct {
	store *MemStore
}

// NewMemTxRunner construye el runner.
func NewMemTxRunner(store *MemStore) *MemTxRunner {
	return &MemTxRunner{store: store}
}

func (r *MemTxRunner) inTx(fn func() error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap := r.store.takeSnapshot()
	if err := fn(); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// Run implementa stock.TxRunner.
func (r *MemTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	stockLocRepo repository.StockLocationRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(func() error {
		return fn(&memItemRepo{r.store}, &memStockLocRepo{r.store}, &memMovementRepo{r.store})
	})
}

// RunSale implementa sales.SaleTxRunner.
func (r *MemTxRunner) RunSale(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	stockLocRepo repository.StockLocationRepository,
	movRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.inTx(func() error {
		return fn(&memItemRepo{r.store}, &memStockLocRepo{r.store}, &memMovementRepo{r.store}, &memSaleRepo{r.store})
	})
}

// RunReadOnly implementa report.ReportTxRunner.
func (r *MemTxRunner) RunReadOnly(ctx context.Context, fn func(
	stockLocRepo repository.StockLocationRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(func() error {
		return fn(&memStockLocRepo{r.store}, &memMovementRepo{r.store})
	})
}

// RunRollover implementa stock.RolloverRunner.
func (r *MemTxRunner) RunRollover(ctx context.Context, fn func(
	stockLocRepo repository.StockLocationRepository,
) error) error {
	return r.inTx(func() error {
		return fn(&memStockLocRepo{r.store})
	})
}

// ── Repos: StockItem ─────────────────────────────────────────────────────────

// ItemRepo devuelve un repo de ítems fuera de transacción (para casos de uso
// que leen sin runner). Toma el mutex internamente por operación.
func (s *MemStore) ItemRepo() repository.StockItemRepository { return &lockedItemRepo{s} }

// LocationRepo devuelve un repo de ubicaciones fuera de transacción.
func (s *MemStore) LocationRepo() repository.LocationRepository { return &memLocationRepo{s} }

// SaleRepo devuelve un repo de ventas fuera de transacción.
func (s *MemStore) SaleRepo() repository.SaleRepository { return &memSaleRepo{s} }

// StockLocationRepo devuelve un repo de stock por ubicación fuera de transacción.
func (s *MemStore) StockLocationRepo() repository.StockLocationRepository { return &memStockLocRepo{s} }

// MovementRepo devuelve un repo del libro fuera de transacción.
func (s *MemStore) MovementRepo() repository.StockMovementRepository { return &memMovementRepo{s} }

type memItemRepo struct{ s *MemStore }

func (r *memItemRepo) Create(item *entity.StockItem) error {
	for _, it := range r.s.items {
		if it.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.StockItem, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepo) GetBySKU(sku string) (*entity.StockItem, error) {
	for _, it := range r.s.items {
		if it.SKU == sku {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) Update(item *entity.StockItem) error {
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) List(limit, offset int) ([]*entity.StockItem, error) {
	all := make([]*entity.StockItem, 0, len(r.s.items))
	for _, it := range r.s.items {
		cp := *it
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memItemRepo) ListByStatus(status string) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, it := range r.s.items {
		if it.Status == status {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memItemRepo) Delete(id string) error {
	delete(r.s.items, id)
	return nil
}

// lockedItemRepo toma el mutex por operación (uso fuera de transacción).
type lockedItemRepo struct{ s *MemStore }

func (r *lockedItemRepo) withLock(fn func(inner *memItemRepo) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(&memItemRepo{r.s})
}

func (r *lockedItemRepo) Create(item *entity.StockItem) error {
	return r.withLock(func(inner *memItemRepo) error { return inner.Create(item) })
}

func (r *lockedItemRepo) GetByID(id string) (out *entity.StockItem, err error) {
	r.withLock(func(inner *memItemRepo) error { out, err = inner.GetByID(id); return nil })
	return out, err
}

func (r *lockedItemRepo) GetBySKU(sku string) (out *entity.StockItem, err error) {
	r.withLock(func(inner *memItemRepo) error { out, err = inner.GetBySKU(sku); return nil })
	return out, err
}

func (r *lockedItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	return r.GetByID(id)
}

func (r *lockedItemRepo) Update(item *entity.StockItem) error {
	return r.withLock(func(inner *memItemRepo) error { return inner.Update(item) })
}

func (r *lockedItemRepo) List(limit, offset int) (out []*entity.StockItem, err error) {
	r.withLock(func(inner *memItemRepo) error { out, err = inner.List(limit, offset); return nil })
	return out, err
}

func (r *lockedItemRepo) ListByStatus(status string) (out []*entity.StockItem, err error) {
	r.withLock(func(inner *memItemRepo) error { out, err = inner.ListByStatus(status); return nil })
	return out, err
}

func (r *lockedItemRepo) Delete(id string) error {
	return r.withLock(func(inner *memItemRepo) error { return inner.Delete(id) })
}

// ── Repos: StockLocation ─────────────────────────────────────────────────────

type memStockLocRepo struct{ s *MemStore }

func (r *memStockLocRepo) Get(itemID, locID string) (*entity.StockLocation, error) {
	sl, ok := r.s.stockLocs[slKey(itemID, locID)]
	if !ok {
		return nil, nil
	}
	cp := *sl
	return &cp, nil
}

func (r *memStockLocRepo) GetForUpdate(itemID, locID string) (*entity.StockLocation, error) {
	return r.Get(itemID, locID)
}

func (r *memStockLocRepo) Create(sl *entity.StockLocation) error {
	cp := *sl
	r.s.stockLocs[slKey(sl.StockItemID, sl.LocationID)] = &cp
	return nil
}

func (r *memStockLocRepo) UpdateQuantity(sl *entity.StockLocation) error {
	key := slKey(sl.StockItemID, sl.LocationID)
	if _, ok := r.s.stockLocs[key]; !ok {
		return domain.ErrNotFound
	}
	cp := *sl
	r.s.stockLocs[key] = &cp
	return nil
}

func (r *memStockLocRepo) ListByLocation(locID string) ([]*entity.StockLocation, error) {
	var out []*entity.StockLocation
	for _, sl := range r.s.stockLocs {
		if sl.LocationID == locID {
			cp := *sl
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockItemID < out[j].StockItemID })
	return out, nil
}

func (r *memStockLocRepo) CountByLocation(locID string) (int64, error) {
	var n int64
	for _, sl := range r.s.stockLocs {
		if sl.LocationID == locID {
			n++
		}
	}
	return n, nil
}

func (r *memStockLocRepo) OpeningBaseline(cutoff time.Time) (map[string]map[string]int64, error) {
	baseline := make(map[string]map[string]int64)
	for _, sl := range r.s.stockLocs {
		if !sl.UpdatedAt.Before(cutoff) {
			continue
		}
		byItem, ok := baseline[sl.LocationID]
		if !ok {
			byItem = make(map[string]int64)
			baseline[sl.LocationID] = byItem
		}
		byItem[sl.StockItemID] = sl.OpeningQuantity
	}
	return baseline, nil
}

func (r *memStockLocRepo) SnapshotOpeningQuantities() error {
	for _, sl := range r.s.stockLocs {
		sl.OpeningQuantity = sl.Quantity
	}
	return nil
}

// ── Repos: StockMovement ─────────────────────────────────────────────────────

type memMovementRepo struct{ s *MemStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) ListByItem(itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	var all []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.StockItemID == itemID {
			cp := *m
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memMovementRepo) ListByDateRange(from, to time.Time) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memMovementRepo) ReportByDateRange(from, to time.Time) ([]dto.MovementReportRow, error) {
	movs, _ := r.ListByDateRange(from, to)
	var out []dto.MovementReportRow
	for _, m := range movs {
		row := dto.MovementReportRow{
			Type:      m.Type,
			Quantity:  m.Quantity,
			Reference: m.Reference,
			CreatedAt: m.CreatedAt,
		}
		if it, ok := r.s.items[m.StockItemID]; ok {
			row.ItemName = it.Name
			row.SKU = it.SKU
		}
		out = append(out, row)
	}
	return out, nil
}

// ── Repos: Sale ──────────────────────────────────────────────────────────────

type memSaleRepo struct{ s *MemStore }

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	for _, existing := range r.s.sales {
		if existing.Reference == sale.Reference {
			return domain.ErrDuplicate
		}
	}
	r.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r *memSaleRepo) GetByReference(reference string) (*entity.Sale, error) {
	for _, sale := range r.s.sales {
		if sale.Reference == reference {
			return cloneSale(sale), nil
		}
	}
	return nil, nil
}

func (r *memSaleRepo) UpdateStatus(id, status string) error {
	sale, ok := r.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sale.Status = status
	sale.UpdatedAt = time.Now()
	return nil
}

func (r *memSaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	all := make([]*entity.Sale, 0, len(r.s.sales))
	for _, sale := range r.s.sales {
		all = append(all, cloneSale(sale))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memSaleRepo) DailySummary(status string, from, to time.Time) ([]repository.DailySalesRow, error) {
	byDay := make(map[string]*repository.DailySalesRow)
	for _, sale := range r.s.sales {
		if sale.Status != status || sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		day := sale.CreatedAt.Format("2006-01-02")
		row, ok := byDay[day]
		if !ok {
			d, _ := time.Parse("2006-01-02", day)
			row = &repository.DailySalesRow{Day: d}
			byDay[day] = row
		}
		row.Count++
		row.Total = row.Total.Add(sale.Total)
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]repository.DailySalesRow, 0, len(days))
	for _, d := range days {
		out = append(out, *byDay[d])
	}
	return out, nil
}

// ── Repos: Location ──────────────────────────────────────────────────────────

type memLocationRepo struct{ s *MemStore }

func (r *memLocationRepo) Create(loc *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.locations {
		if strings.EqualFold(existing.Name, loc.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *loc
	r.s.locations[loc.ID] = &cp
	return nil
}

func (r *memLocationRepo) GetByID(id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *loc
	return &cp, nil
}

func (r *memLocationRepo) Update(loc *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[loc.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *loc
	r.s.locations[loc.ID] = &cp
	return nil
}

func (r *memLocationRepo) List() ([]*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Location, 0, len(r.s.locations))
	for _, loc := range r.s.locations {
		cp := *loc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memLocationRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.locations, id)
	return nil
}

// ── Repos: User ──────────────────────────────────────────────────────────────

// UserRepo devuelve un repo de usuarios en memoria.
func (s *MemStore) UserRepo() repository.UserRepository { return &memUserRepo{s} }

type memUserRepo struct{ s *MemStore }

func (r *memUserRepo) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
