package inventory

import (
	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

// ApplyDelta calcula el stock resultante de aplicar delta sobre level (servicio de dominio).
// After = Before + Delta; falla con ErrInvalidStockOperation si algún contador quedaría negativo.
func ApplyDelta(level entity.StockLevel, delta entity.StockDelta) (entity.StockQuantities, error) {
	after := entity.StockQuantities{
		StockGood:   level.StockGood + delta.GoodDelta,
		StockFailed: level.StockFailed + delta.FailedDelta,
	}
	if after.StockGood < 0 || after.StockFailed < 0 {
		return entity.StockQuantities{}, &domain.StockError{
			Err:         domain.ErrInvalidStockOperation,
			ProductID:   level.ProductID,
			Branch:      level.Branch,
			StockGood:   level.StockGood,
			StockFailed: level.StockFailed,
			GoodDelta:   delta.GoodDelta,
			FailedDelta: delta.FailedDelta,
		}
	}
	return after, nil
}

// DeltaForDisposition delta de una devolución de una unidad según su destino.
func DeltaForDisposition(d entity.StockDisposition) entity.StockDelta {
	if d == entity.DispositionGood {
		return entity.StockDelta{GoodDelta: 1}
	}
	return entity.StockDelta{FailedDelta: 1}
}

// MovementTypeForDisposition tipo de movimiento de una devolución según su destino.
func MovementTypeForDisposition(d entity.StockDisposition) entity.MovementType {
	if d == entity.DispositionGood {
		return entity.MovementReturnToGood
	}
	return entity.MovementReturnToFailed
}

// ReplacementDelta delta de un reemplazo: sale stock bueno y entra la misma cantidad a fallas.
func ReplacementDelta(quantity int) entity.StockDelta {
	return entity.StockDelta{GoodDelta: -quantity, FailedDelta: quantity}
}
