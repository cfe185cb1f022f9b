package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/inventory"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

// MovementRecorder es el único escritor de StockLevel: agrega un StockMovement inmutable
// y actualiza el stock actual en la misma transacción del caller.
type MovementRecorder struct {
	now func() time.Time
}

// NewMovementRecorder construye el registrador. now puede ser nil (usa time.Now).
func NewMovementRecorder(now func() time.Time) *MovementRecorder {
	if now == nil {
		now = time.Now
	}
	return &MovementRecorder{now: now}
}

// RecordMovement bloquea la fila de stock (SELECT FOR UPDATE, creándola en cero si no existe),
// calcula After = Before + delta, guarda el nuevo StockLevel y agrega el movimiento.
// Debe llamarse dentro de TxRunner.Run; un error deja la transacción para Rollback.
func (r *MovementRecorder) RecordMovement(
	ctx context.Context,
	tx repository.Ledgers,
	branch, productID string,
	delta entity.StockDelta,
	mc entity.MovementContext,
) (*entity.StockMovement, error) {
	if branch == "" || productID == "" {
		return nil, domain.Invalid("branch/product_id", "es obligatorio")
	}
	if !mc.Type.IsValid() {
		return nil, domain.Invalid("movement_type", "no es un tipo de movimiento válido")
	}
	if delta.IsZero() {
		return nil, domain.Invalid("delta", "no mueve stock")
	}

	level, err := tx.Levels.GetForUpdate(ctx, productID, branch)
	if err != nil {
		return nil, err
	}
	after, err := inventory.ApplyDelta(*level, delta)
	if err != nil {
		return nil, err
	}

	// El timestamp se toma con la fila bloqueada y nunca retrocede respecto al último movimiento,
	// así el orden (CreatedAt, ID) coincide con el orden de commit.
	now := r.now().UTC().Truncate(time.Microsecond)
	if now.Before(level.UpdatedAt) {
		now = level.UpdatedAt.UTC()
	}

	mov := &entity.StockMovement{
		Branch:            branch,
		ProductID:         productID,
		ProductName:       mc.ProductName,
		CustomerID:        mc.CustomerID,
		CustomerName:      mc.CustomerName,
		StockGoodBefore:   level.StockGood,
		StockGoodAfter:    after.StockGood,
		StockFailedBefore: level.StockFailed,
		StockFailedAfter:  after.StockFailed,
		Type:              mc.Type,
		Reference:         mc.Reference,
		ActorEmail:        mc.ActorEmail,
		Notes:             mc.Notes,
		CreatedAt:         now,
	}

	level.StockGood = after.StockGood
	level.StockFailed = after.StockFailed
	level.UpdatedAt = now
	if err := tx.Levels.Upsert(ctx, level); err != nil {
		return nil, err
	}
	if err := tx.Movements.Append(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
