package repository

import (
	"context"
	"time"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

// MovementFilter filtros para listar el historial de movimientos.
type MovementFilter struct {
	Branch    string
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository puerto del historial de movimientos (append-only: no hay Update ni Delete).
type StockMovementRepository interface {
	// Append inserta el movimiento y completa su ID.
	Append(ctx context.Context, movement *entity.StockMovement) error
	// LatestAtOrBefore devuelve el último movimiento de (producto, sucursal) con CreatedAt <= at,
	// desempatando por ID mayor. nil si no hay ninguno.
	LatestAtOrBefore(ctx context.Context, productID, branch string, at time.Time) (*entity.StockMovement, error)
	// LatestPerProductAtOrBefore versión agrupada de LatestAtOrBefore para todos los productos de una sucursal.
	LatestPerProductAtOrBefore(ctx context.Context, branch string, at time.Time) ([]*entity.StockMovement, error)
	// List devuelve movimientos filtrados, más recientes primero.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
