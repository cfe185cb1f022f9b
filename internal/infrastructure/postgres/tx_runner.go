package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/garantias-api/internal/application/inventory"
	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (read committed + SELECT FOR UPDATE).
// Los conflictos 40001/40P01 se reintentan desde cero hasta maxRetries veces.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log zerolog.Logger) *TxRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, log: log}
}

// Run inicia una transacción, ejecuta fn con los libros atados a la tx y hace Commit o Rollback.
// fn puede ejecutarse más de una vez: no debe tener efectos fuera de la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Ledgers) error) error {
	for attempt := 0; ; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !isRetryable(err) {
			return err
		}
		if attempt >= r.maxRetries {
			return domain.Storage("run transaction", fmt.Errorf("%w tras %d intentos: %w", domain.ErrConcurrentModification, attempt+1, err))
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("conflicto de concurrencia, reintentando transacción")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 15 * time.Millisecond):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx repository.Ledgers) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.Storage("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(NewLedgers(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Storage("commit transaction", err)
	}
	return nil
}

// NewLedgers ata los repositorios de los libros a q (pool para lecturas, tx dentro de Run).
func NewLedgers(q Querier) repository.Ledgers {
	return repository.Ledgers{
		Levels:    NewStockLevelRepository(q),
		Movements: NewStockMovementRepository(q),
		Cash:      NewCashRepository(q),
		Credit:    NewCustomerCreditRepository(q),
		Records:   NewReturnRecordRepository(q),
	}
}
