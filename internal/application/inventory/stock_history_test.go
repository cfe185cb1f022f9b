package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
	"github.com/jhoicas/garantias-api/internal/infrastructure/memory"
)

func TestStockAsOf_SinMovimientosDevuelveCero(t *testing.T) {
	st := memory.New()
	uc := NewStockHistoryUseCase(st.Ledgers().Movements)

	q, err := uc.StockAsOf(context.Background(), "P1", "B1", t0)
	require.NoError(t, err)
	assert.Equal(t, entity.StockQuantities{}, q)
}

func TestStockAsOf_ReconstruyeYEsIdempotente(t *testing.T) {
	st := memory.New()
	rec := NewMovementRecorder(newStepClock(t0).Now) // t0+1m, t0+2m, t0+3m
	_, err := record(t, st, rec, "B1", "P1", entity.StockDelta{GoodDelta: 5}, entity.MovementManualAdjustment)
	require.NoError(t, err)
	_, err = record(t, st, rec, "B1", "P1", entity.StockDelta{GoodDelta: -2, FailedDelta: 2}, entity.MovementReplacement)
	require.NoError(t, err)
	_, err = record(t, st, rec, "B1", "P1", entity.StockDelta{GoodDelta: 1}, entity.MovementReturnToGood)
	require.NoError(t, err)

	uc := NewStockHistoryUseCase(st.Ledgers().Movements)
	ctx := context.Background()

	q, err := uc.StockAsOf(ctx, "P1", "B1", t0)
	require.NoError(t, err)
	assert.Equal(t, entity.StockQuantities{}, q)

	q, err = uc.StockAsOf(ctx, "P1", "B1", t0.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, entity.StockQuantities{StockGood: 5, StockFailed: 0}, q)

	// el límite es inclusivo
	q, err = uc.StockAsOf(ctx, "P1", "B1", t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, entity.StockQuantities{StockGood: 3, StockFailed: 2}, q)

	again, err := uc.StockAsOf(ctx, "P1", "B1", t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, q, again)

	q, err = uc.StockAsOf(ctx, "P1", "B1", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, entity.StockQuantities{StockGood: 4, StockFailed: 2}, q)

	q, err = uc.StockAsOf(ctx, "P1", "B2", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, entity.StockQuantities{}, q)
}

func TestStockAsOf_EmpateDeTimestampGanaMayorID(t *testing.T) {
	st := memory.New()
	rec := NewMovementRecorder(func() time.Time { return t0 })
	_, err := record(t, st, rec, "B1", "P1", entity.StockDelta{GoodDelta: 1}, entity.MovementReturnToGood)
	require.NoError(t, err)
	_, err = record(t, st, rec, "B1", "P1", entity.StockDelta{GoodDelta: 1}, entity.MovementReturnToGood)
	require.NoError(t, err)

	uc := NewStockHistoryUseCase(st.Ledgers().Movements)
	q, err := uc.StockAsOf(context.Background(), "P1", "B1", t0)
	require.NoError(t, err)
	assert.Equal(t, 2, q.StockGood)
}

func TestStockAsOf_EntradaInvalida(t *testing.T) {
	uc := NewStockHistoryUseCase(memory.New().Ledgers().Movements)
	_, err := uc.StockAsOf(context.Background(), "", "B1", t0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.StockAsOf(context.Background(), "P1", "B1", time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSnapshotAsOf_CadaProductoConSuPropioCorte(t *testing.T) {
	st := memory.New()
	clock := newStepClock(t0)
	rec := NewMovementRecorder(clock.Now)
	_, err := record(t, st, rec, "B1", "P1", entity.StockDelta{GoodDelta: 3}, entity.MovementManualAdjustment) // t0+1m
	require.NoError(t, err)
	_, err = record(t, st, rec, "B1", "P2", entity.StockDelta{GoodDelta: 8}, entity.MovementManualAdjustment) // t0+2m
	require.NoError(t, err)
	_, err = record(t, st, rec, "B1", "P2", entity.StockDelta{GoodDelta: -1, FailedDelta: 1}, entity.MovementReplacement) // t0+3m
	require.NoError(t, err)
	_, err = record(t, st, rec, "B2", "P1", entity.StockDelta{GoodDelta: 9}, entity.MovementManualAdjustment) // t0+4m
	require.NoError(t, err)

	uc := NewStockHistoryUseCase(st.Ledgers().Movements)
	snap, err := uc.SnapshotAsOf(context.Background(), "B1", t0.Add(150*time.Second))
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, "P1", snap[0].ProductID)
	assert.Equal(t, 3, snap[0].StockGood)
	assert.Equal(t, "P2", snap[1].ProductID)
	assert.Equal(t, 8, snap[1].StockGood)
	assert.Equal(t, 0, snap[1].StockFailed)

	snap, err = uc.SnapshotAsOf(context.Background(), "B1", t0)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestListMovements_MasRecientePrimeroYPaginado(t *testing.T) {
	st := memory.New()
	rec := NewMovementRecorder(newStepClock(t0).Now)
	for i := 0; i < 5; i++ {
		_, err := record(t, st, rec, "B1", "P1", entity.StockDelta{GoodDelta: 1}, entity.MovementReturnToGood)
		require.NoError(t, err)
	}
	uc := NewStockHistoryUseCase(st.Ledgers().Movements)

	movs, err := uc.ListMovements(context.Background(), repository.MovementFilter{Branch: "B1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, 5, movs[0].StockGoodAfter)
	assert.Equal(t, 4, movs[1].StockGoodAfter)

	movs, err = uc.ListMovements(context.Background(), repository.MovementFilter{Branch: "B1", Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, 1, movs[0].StockGoodAfter)

	movs, err = uc.ListMovements(context.Background(), repository.MovementFilter{ProductID: "otro"})
	require.NoError(t, err)
	assert.NotNil(t, movs)
	assert.Empty(t, movs)
}
