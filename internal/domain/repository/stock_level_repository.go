package repository

import (
	"context"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

// StockLevelRepository define el puerto para consultar/actualizar stock por producto+sucursal.
// Usado dentro de transacciones para garantizar consistencia.
type StockLevelRepository interface {
	// Get devuelve el stock actual; si no existe la fila devuelve {0,0} sin error.
	Get(ctx context.Context, productID, branch string) (*entity.StockLevel, error)
	// GetForUpdate crea la fila en cero si no existe y la bloquea hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, branch string) (*entity.StockLevel, error)
	Upsert(ctx context.Context, level *entity.StockLevel) error
}
