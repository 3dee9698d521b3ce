package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stockflow-api/internal/application/report"
	"github.com/jhoicas/stockflow-api/internal/application/sales"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// Ensure TxRunner implements the application tx ports.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ stock.RolloverRunner = (*TxRunner)(nil)
var _ sales.SaleTxRunner = (*TxRunner)(nil)
var _ report.ReportTxRunner = (*TxRunner)(nil)

// Clave fija del advisory lock del rollover diario (una sola instancia activa).
const rolloverLockKey = 874301

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Cada transacción de escritura fija SET LOCAL lock_timeout: ninguna espera
// por bloqueo de fila es indefinida; al agotarse el presupuesto la operación
// falla con domain.ErrLockTimeout y se revierte completa.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int
}

// NewTxRunner construye el runner. lockTimeoutMS <= 0 usa 5000.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int) *TxRunner {
	if lockTimeoutMS <= 0 {
		lockTimeoutMS = 5000
	}
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

func (r *TxRunner) begin(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	if opts.AccessMode != pgx.ReadOnly {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMS)); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("set lock_timeout: %w", err)
		}
	}
	return tx, nil
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	stockLocRepo repository.StockLocationRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.begin(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockItemRepository(tx), NewStockLocationRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale inicia una transacción con repos de inventario y ventas (para CreateSale/CancelSale).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	stockLocRepo repository.StockLocationRepository,
	movRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.begin(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockItemRepository(tx), NewStockLocationRepository(tx), NewStockMovementRepository(tx), NewSaleRepository(tx)); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReadOnly inicia una transacción read-only: base de apertura y movimientos
// se leen en un mismo snapshot (la consolidación no observa un rollover a medias).
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(
	stockLocRepo repository.StockLocationRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.begin(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockLocationRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRollover ejecuta el rollover bajo advisory lock transaccional: si otra
// instancia lo tiene, devuelve domain.ErrConflict sin tocar datos. El lock se
// libera solo al terminar la transacción.
func (r *TxRunner) RunRollover(ctx context.Context, fn func(
	stockLocRepo repository.StockLocationRepository,
) error) error {
	tx, err := r.begin(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var acquired bool
	if err := tx.QueryRow(ctx, "SELECT pg_try_advisory_xact_lock($1)", rolloverLockKey).Scan(&acquired); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	if !acquired {
		return domain.ErrConflict
	}

	if err := fn(NewStockLocationRepository(tx)); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
