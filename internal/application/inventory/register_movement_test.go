package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/infrastructure/memory"
)

func newRegisterFixture() (*memory.Store, *RegisterMovementUseCase) {
	st := memory.New()
	st.AddBranch("B1", "Centro")
	st.AddBranch("B2", "Norte")
	uc := NewRegisterMovementUseCase(st, NewMovementRecorder(newStepClock(t0).Now), st)
	return st, uc
}

func TestRegisterMovement_AjusteManual(t *testing.T) {
	st, uc := newRegisterFixture()

	movs, err := uc.RegisterMovement(context.Background(), MovementInput{
		Type: RequestManualAdjustment, Branch: "B1", ProductID: "P1", GoodDelta: 7, FailedDelta: 2, ActorEmail: "bodega@tienda.com",
	})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementManualAdjustment, movs[0].Type)

	level := st.Level("P1", "B1")
	assert.Equal(t, 7, level.StockGood)
	assert.Equal(t, 2, level.StockFailed)

	_, err = uc.RegisterMovement(context.Background(), MovementInput{
		Type: RequestManualAdjustment, Branch: "B1", ProductID: "P1", FailedDelta: -3,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStockOperation)
	assert.Equal(t, 2, st.Level("P1", "B1").StockFailed)
}

func TestRegisterMovement_VentaStockInsuficiente(t *testing.T) {
	st, uc := newRegisterFixture()
	st.SeedStock("P1", "Licuadora", "B1", 2, 0, t0)

	_, err := uc.RegisterMovement(context.Background(), MovementInput{Type: RequestSale, Branch: "B1", ProductID: "P1", Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	movs, err := uc.RegisterMovement(context.Background(), MovementInput{Type: RequestSale, Branch: "B1", ProductID: "P1", Quantity: 2, Reference: "V-9"})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementSale, movs[0].Type)
	assert.Equal(t, 0, st.Level("P1", "B1").StockGood)
}

func TestRegisterMovement_TrasladoEntreSucursales(t *testing.T) {
	st, uc := newRegisterFixture()
	st.SeedStock("P1", "Licuadora", "B2", 5, 1, t0)

	movs, err := uc.RegisterMovement(context.Background(), MovementInput{
		Type: RequestTransfer, Branch: "B2", ToBranch: "B1", ProductID: "P1", Quantity: 3,
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTransferOut, movs[0].Type)
	assert.Equal(t, "B2", movs[0].Branch)
	assert.Equal(t, entity.MovementTransferIn, movs[1].Type)
	assert.Equal(t, "B1", movs[1].Branch)

	assert.Equal(t, 2, st.Level("P1", "B2").StockGood)
	assert.Equal(t, 1, st.Level("P1", "B2").StockFailed)
	assert.Equal(t, 3, st.Level("P1", "B1").StockGood)

	_, err = uc.RegisterMovement(context.Background(), MovementInput{
		Type: RequestTransfer, Branch: "B2", ToBranch: "B1", ProductID: "P1", Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, st.Level("P1", "B1").StockGood)
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	_, uc := newRegisterFixture()
	cases := map[string]MovementInput{
		"tipo desconocido":     {Type: "IN", Branch: "B1", ProductID: "P1", Quantity: 1},
		"sin producto":         {Type: RequestSale, Branch: "B1", Quantity: 1},
		"ajuste en cero":       {Type: RequestManualAdjustment, Branch: "B1", ProductID: "P1"},
		"venta sin cantidad":   {Type: RequestSale, Branch: "B1", ProductID: "P1"},
		"traslado a si mismo":  {Type: RequestTransfer, Branch: "B1", ToBranch: "B1", ProductID: "P1", Quantity: 1},
		"sucursal desconocida": {Type: RequestSale, Branch: "ZZ", ProductID: "P1", Quantity: 1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.RegisterMovement(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
