package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ProductStock stock reconstruido de un producto en una sucursal a una fecha.
type ProductStock struct {
	ProductID      string
	ProductName    string
	StockGood      int
	StockFailed    int
	LastMovementAt time.Time
}

// StockHistoryUseCase reconstruye el stock a una fecha leyendo el historial de movimientos.
// Solo lectura: no abre transacciones ni bloquea filas.
type StockHistoryUseCase struct {
	movements repository.StockMovementRepository
}

// NewStockHistoryUseCase construye el caso de uso.
func NewStockHistoryUseCase(movements repository.StockMovementRepository) *StockHistoryUseCase {
	return &StockHistoryUseCase{movements: movements}
}

// StockAsOf devuelve los valores After del último movimiento con timestamp <= at para (producto, sucursal).
// Empates en el mismo timestamp se resuelven por id (mayor id = posterior). Sin movimientos devuelve {0,0}.
func (uc *StockHistoryUseCase) StockAsOf(ctx context.Context, productID, branch string, at time.Time) (entity.StockQuantities, error) {
	if productID == "" {
		return entity.StockQuantities{}, domain.Invalid("product_id", "es obligatorio")
	}
	if branch == "" {
		return entity.StockQuantities{}, domain.Invalid("branch", "es obligatorio")
	}
	if at.IsZero() {
		return entity.StockQuantities{}, domain.Invalid("date", "es obligatoria")
	}
	mov, err := uc.movements.LatestAtOrBefore(ctx, productID, branch, at)
	if err != nil {
		return entity.StockQuantities{}, err
	}
	if mov == nil {
		return entity.StockQuantities{}, nil
	}
	return entity.StockQuantities{StockGood: mov.StockGoodAfter, StockFailed: mov.StockFailedAfter}, nil
}

// SnapshotAsOf reconstruye el catálogo de una sucursal a la fecha at: un registro por producto
// con al menos un movimiento <= at, cada uno con su propio último movimiento.
func (uc *StockHistoryUseCase) SnapshotAsOf(ctx context.Context, branch string, at time.Time) ([]ProductStock, error) {
	if branch == "" {
		return nil, domain.Invalid("branch", "es obligatorio")
	}
	if at.IsZero() {
		return nil, domain.Invalid("date", "es obligatoria")
	}
	latest, err := uc.movements.LatestPerProductAtOrBefore(ctx, branch, at)
	if err != nil {
		return nil, err
	}
	out := make([]ProductStock, 0, len(latest))
	for _, m := range latest {
		out = append(out, ProductStock{
			ProductID:      m.ProductID,
			ProductName:    m.ProductName,
			StockGood:      m.StockGoodAfter,
			StockFailed:    m.StockFailedAfter,
			LastMovementAt: m.CreatedAt,
		})
	}
	return out, nil
}

// ListMovements lista el historial filtrado, más reciente primero.
func (uc *StockHistoryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.Invalid("from", "debe ser anterior a to")
	}
	filter.Limit, filter.Offset = pageBounds(filter.Limit, filter.Offset)
	movs, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if movs == nil {
		movs = []*entity.StockMovement{}
	}
	return movs, nil
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
