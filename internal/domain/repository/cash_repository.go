package repository

import (
	"context"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

// CashRepository puerto de la caja por sucursal.
// El saldo solo se actualiza junto con un CashMovement en la misma transacción.
type CashRepository interface {
	// GetForUpdate devuelve la caja de la sucursal (saldo 0 si no existe) bloqueando la fila.
	GetForUpdate(ctx context.Context, branch string) (*entity.CashRegister, error)
	Get(ctx context.Context, branch string) (*entity.CashRegister, error)
	UpdateBalance(ctx context.Context, register *entity.CashRegister) error
	AppendMovement(ctx context.Context, movement *entity.CashMovement) error
	ListMovements(ctx context.Context, branch string, limit, offset int) ([]*entity.CashMovement, error)
}
