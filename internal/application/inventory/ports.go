package inventory

import (
	"context"

	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los libros atados a esa tx.
// Si fn devuelve error se hace Rollback; si el contexto se cancela antes del Commit, también.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Ledgers) error) error
}
