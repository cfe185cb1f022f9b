package repository

import (
	"context"
	"time"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

// RecordFilter filtro por sucursal (vacío = todas) y rango inclusivo sobre ProcessedAt.
type RecordFilter struct {
	Branch string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ReturnRecordRepository puerto de los registros de devoluciones y reemplazos (append-only).
type ReturnRecordRepository interface {
	Create(ctx context.Context, record *entity.ReturnRecord) error
	List(ctx context.Context, filter RecordFilter) ([]*entity.ReturnRecord, error)
}
