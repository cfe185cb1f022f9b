package repository

import (
	"context"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

// SaleRepository consulta de ventas (colaborador externo, solo lectura).
type SaleRepository interface {
	// GetLineItem devuelve nil, nil si la línea no existe.
	GetLineItem(ctx context.Context, lineItemID string) (*entity.SaleLineItem, error)
	ListLineItems(ctx context.Context, saleID string) ([]*entity.SaleLineItem, error)
}

// BranchRepository registro de sucursales (colaborador externo, solo lectura).
type BranchRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
}
