package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/garantias-api/internal/application/analytics"
	"github.com/jhoicas/garantias-api/internal/application/inventory"
	"github.com/jhoicas/garantias-api/internal/application/returns"
	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
	"github.com/jhoicas/garantias-api/internal/infrastructure/postgres"
	"github.com/jhoicas/garantias-api/pkg/config"
)

type pgEnv struct {
	pool     *pgxpool.Pool
	svc      *returns.Service
	movement *inventory.RegisterMovementUseCase
	history  *inventory.StockHistoryUseCase
	failures *analytics.FailureUseCase
	ledgers  repository.Ledgers
}

// setupPostgres levanta PostgreSQL en un contenedor, aplica las migraciones y carga sucursales y ventas.
func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	if os.Getenv("INTEGRATION") != "1" {
		t.Skip("requiere Docker; exportar INTEGRATION=1")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("garantias_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := postgres.NewMigrator(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	soldAt := time.Now().UTC().AddDate(0, 0, -30)
	seed := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO branches (code, name) VALUES ('B1', 'Centro'), ('B2', 'Norte')`, nil},
		{`INSERT INTO sales (id, numero_venta, branch, customer_id, customer_name, payment_method, sold_at)
			VALUES ('S1', 'V-0001', 'B1', 'C1', 'Ana Pérez', 'efectivo', $1)`, []any{soldAt}},
		{`INSERT INTO sale_items (id, sale_id, product_id, product_name, unit_price, quantity)
			VALUES ('L1', 'S1', 'P1', 'Licuadora', 80, 20)`, nil},
		{`INSERT INTO cash_registers (branch, balance) VALUES ('B1', 500)`, nil},
	}
	for _, s := range seed {
		_, err := pool.Exec(ctx, s.sql, s.args...)
		require.NoError(t, err)
	}

	log := zerolog.Nop()
	runner := postgres.NewTxRunner(pool, 5, log)
	recorder := inventory.NewMovementRecorder(nil)
	ledgers := postgres.NewLedgers(pool)
	branches := postgres.NewBranchRepository(pool)
	env := &pgEnv{
		pool:     pool,
		svc:      returns.NewService(runner, recorder, ledgers, postgres.NewSaleRepository(pool), branches, returns.DefaultPolicy(), log),
		movement: inventory.NewRegisterMovementUseCase(runner, recorder, branches),
		history:  inventory.NewStockHistoryUseCase(ledgers.Movements),
		failures: analytics.NewFailureUseCase(postgres.NewFailureAnalyticsRepository(pool), nil, 0, log),
		ledgers:  ledgers,
	}

	_, err = env.movement.RegisterMovement(ctx, inventory.MovementInput{
		Type: inventory.RequestManualAdjustment, Branch: "B1", ProductID: "P1", ProductName: "Licuadora",
		GoodDelta: 5, ActorEmail: "admin@tienda.com", Notes: "inventario inicial",
	})
	require.NoError(t, err)
	return env
}

func TestPostgres_DevolucionesYReemplazo(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	beforeReturns := time.Now().UTC()

	rec, err := env.svc.ProcessReturn(ctx, returns.ReturnInput{
		SaleLineItemID: "L1", Disposition: entity.DispositionGood, RefundMethod: entity.RefundCash,
		RefundAmount: decimal.NewFromInt(100), ActorEmail: "cajero@tienda.com", Notes: "no enciende",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.KindReturn, rec.Kind)
	assert.NotEmpty(t, rec.ID)

	_, err = env.svc.ProcessReturn(ctx, returns.ReturnInput{
		SaleLineItemID: "L1", Disposition: entity.DispositionFailed, RefundMethod: entity.RefundCustomerCredit,
		RefundAmount: decimal.NewFromInt(50), ActorEmail: "cajero@tienda.com",
	})
	require.NoError(t, err)

	_, err = env.svc.ProcessReplacement(ctx, returns.ReplacementInput{
		SaleLineItemID: "L1", Quantity: 2, ActorEmail: "cajero@tienda.com",
	})
	require.NoError(t, err)

	level, err := env.ledgers.Levels.Get(ctx, "P1", "B1")
	require.NoError(t, err)
	assert.Equal(t, 4, level.StockGood)
	assert.Equal(t, 3, level.StockFailed)

	cash, err := env.svc.Cash(ctx, "B1", 10, 0)
	require.NoError(t, err)
	assert.True(t, cash.Register.Balance.Equal(decimal.NewFromInt(400)), "saldo %s", cash.Register.Balance)
	require.Len(t, cash.Movements, 1)
	assert.Equal(t, entity.CashMovementRefundEgress, cash.Movements[0].Type)

	credit, err := env.svc.CreditAccount(ctx, "B1", "C1", 10, 0)
	require.NoError(t, err)
	assert.True(t, credit.Account.Balance.Equal(decimal.NewFromInt(-50)), "saldo %s", credit.Account.Balance)
	require.Len(t, credit.Movements, 1)

	records, err := env.svc.ListRecords(ctx, repository.RecordFilter{Branch: "B1"})
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		if r.Kind == entity.KindReplacement {
			assert.Nil(t, r.RefundMethod)
			assert.Nil(t, r.RefundAmount)
			assert.Equal(t, 2, r.Quantity)
		}
	}

	// Reconstrucción: antes de las devoluciones solo existía el ajuste inicial.
	at, err := env.history.StockAsOf(ctx, "P1", "B1", beforeReturns)
	require.NoError(t, err)
	assert.Equal(t, entity.StockQuantities{StockGood: 5, StockFailed: 0}, at)

	now, err := env.history.StockAsOf(ctx, "P1", "B1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, entity.StockQuantities{StockGood: 4, StockFailed: 3}, now)

	report, err := env.failures.GetFailureAnalytics(ctx, analytics.FailureQuery{Branch: "B1"})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Summary.TotalEvents)
	assert.Equal(t, 2, report.Summary.Returns)
	assert.Equal(t, 1, report.Summary.Replacements)
	assert.True(t, report.Summary.TotalRefunded.Equal(decimal.NewFromInt(150)))
	assert.True(t, report.Summary.AverageRefund.Equal(decimal.NewFromInt(75)))
	require.Len(t, report.ByProduct, 1)
	assert.Equal(t, "P1", report.ByProduct[0].ProductID)
	require.Len(t, report.ByCustomer, 1)
	assert.Equal(t, "C1", report.ByCustomer[0].CustomerID)
}

func TestPostgres_ReemplazoSinStockNoEscribeNada(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	_, err := env.svc.ProcessReplacement(ctx, returns.ReplacementInput{
		SaleLineItemID: "L1", Quantity: 6, ActorEmail: "cajero@tienda.com",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	level, err := env.ledgers.Levels.Get(ctx, "P1", "B1")
	require.NoError(t, err)
	assert.Equal(t, 5, level.StockGood)
	records, err := env.svc.ListRecords(ctx, repository.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPostgres_DevolucionesConcurrentes(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	const n = 12

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			method := entity.RefundCash
			if i%2 == 0 {
				method = entity.RefundCustomerCredit
			}
			_, err := env.svc.ProcessReturn(ctx, returns.ReturnInput{
				SaleLineItemID: "L1", Disposition: entity.DispositionGood, RefundMethod: method,
				RefundAmount: decimal.NewFromInt(10), ActorEmail: "cajero@tienda.com",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	level, err := env.ledgers.Levels.Get(ctx, "P1", "B1")
	require.NoError(t, err)
	assert.Equal(t, 5+n, level.StockGood)

	cash, err := env.ledgers.Cash.Get(ctx, "B1")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(decimal.NewFromInt(500-10*n/2)), "saldo %s", cash.Balance)

	// Cada movimiento parte del stock en que terminó el anterior.
	movs, err := env.history.ListMovements(ctx, repository.MovementFilter{Branch: "B1", ProductID: "P1", Limit: 100})
	require.NoError(t, err)
	require.Len(t, movs, n+1)
	for i := 0; i < len(movs)-1; i++ {
		newer, older := movs[i], movs[i+1]
		assert.Equal(t, older.StockGoodAfter, newer.StockGoodBefore, "movimiento %d", newer.ID)
		assert.False(t, newer.CreatedAt.Before(older.CreatedAt))
	}
}

func TestPostgres_TrasladoEntreSucursales(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	movs, err := env.movement.RegisterMovement(ctx, inventory.MovementInput{
		Type: inventory.RequestTransfer, Branch: "B1", ToBranch: "B2", ProductID: "P1", ProductName: "Licuadora",
		Quantity: 2, ActorEmail: "admin@tienda.com",
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)

	origin, err := env.ledgers.Levels.Get(ctx, "P1", "B1")
	require.NoError(t, err)
	dest, err := env.ledgers.Levels.Get(ctx, "P1", "B2")
	require.NoError(t, err)
	assert.Equal(t, 3, origin.StockGood)
	assert.Equal(t, 2, dest.StockGood)

	snapshot, err := env.history.SnapshotAsOf(ctx, "B2", time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, 2, snapshot[0].StockGood)
}
