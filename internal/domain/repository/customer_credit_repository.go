package repository

import (
	"context"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

// CustomerCreditRepository puerto de la cuenta corriente de clientes (append-only).
type CustomerCreditRepository interface {
	Append(ctx context.Context, movement *entity.CustomerCreditMovement) error
	// Account devuelve los totales del cliente en la sucursal; totales en cero si no hay asientos.
	Account(ctx context.Context, branch, customerID string) (*entity.CustomerCreditAccount, error)
	List(ctx context.Context, branch, customerID string, limit, offset int) ([]*entity.CustomerCreditMovement, error)
}
