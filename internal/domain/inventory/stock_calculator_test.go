package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

func TestApplyDelta(t *testing.T) {
	level := entity.StockLevel{ProductID: "P1", Branch: "centro", StockGood: 5, StockFailed: 1}

	t.Run("suma y resta", func(t *testing.T) {
		after, err := ApplyDelta(level, entity.StockDelta{GoodDelta: -2, FailedDelta: 2})
		require.NoError(t, err)
		assert.Equal(t, entity.StockQuantities{StockGood: 3, StockFailed: 3}, after)
	})

	t.Run("llegar a cero es válido", func(t *testing.T) {
		after, err := ApplyDelta(level, entity.StockDelta{GoodDelta: -5, FailedDelta: -1})
		require.NoError(t, err)
		assert.Equal(t, entity.StockQuantities{}, after)
	})

	t.Run("negativo en stock bueno", func(t *testing.T) {
		_, err := ApplyDelta(level, entity.StockDelta{GoodDelta: -6})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidStockOperation))

		var stockErr *domain.StockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 5, stockErr.StockGood)
		assert.Equal(t, -6, stockErr.GoodDelta)
	})

	t.Run("negativo en fallas", func(t *testing.T) {
		_, err := ApplyDelta(level, entity.StockDelta{FailedDelta: -2})
		assert.ErrorIs(t, err, domain.ErrInvalidStockOperation)
	})
}

func TestDeltaForDisposition(t *testing.T) {
	assert.Equal(t, entity.StockDelta{GoodDelta: 1}, DeltaForDisposition(entity.DispositionGood))
	assert.Equal(t, entity.StockDelta{FailedDelta: 1}, DeltaForDisposition(entity.DispositionFailed))
	assert.Equal(t, entity.MovementReturnToGood, MovementTypeForDisposition(entity.DispositionGood))
	assert.Equal(t, entity.MovementReturnToFailed, MovementTypeForDisposition(entity.DispositionFailed))
	assert.Equal(t, entity.StockDelta{GoodDelta: -3, FailedDelta: 3}, ReplacementDelta(3))
}
