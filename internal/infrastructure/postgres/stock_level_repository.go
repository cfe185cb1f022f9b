package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// Get obtiene el stock actual; sin fila devuelve {0,0}.
func (r *StockLevelRepo) Get(ctx context.Context, productID, branch string) (*entity.StockLevel, error) {
	query := `
		SELECT product_id, branch, stock_good, stock_failed, updated_at
		FROM stock_levels WHERE product_id = $1 AND branch = $2`
	var l entity.StockLevel
	err := r.q.QueryRow(ctx, query, productID, branch).Scan(
		&l.ProductID, &l.Branch, &l.StockGood, &l.StockFailed, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ProductID: productID, Branch: branch}, nil
		}
		return nil, domain.Storage("get stock level", err)
	}
	return &l, nil
}

// GetForUpdate asegura que la fila exista y la bloquea (SELECT FOR UPDATE).
// Crear la fila primero evita que dos primeras devoluciones concurrentes lean ambas "sin fila".
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID, branch string) (*entity.StockLevel, error) {
	ensure := `
		INSERT INTO stock_levels (product_id, branch)
		VALUES ($1, $2)
		ON CONFLICT (product_id, branch) DO NOTHING`
	if _, err := r.q.Exec(ctx, ensure, productID, branch); err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.Invalid("branch", "sucursal desconocida: "+branch)
		}
		return nil, domain.Storage("ensure stock level", err)
	}

	query := `
		SELECT product_id, branch, stock_good, stock_failed, updated_at
		FROM stock_levels WHERE product_id = $1 AND branch = $2
		FOR UPDATE`
	var l entity.StockLevel
	if err := r.q.QueryRow(ctx, query, productID, branch).Scan(
		&l.ProductID, &l.Branch, &l.StockGood, &l.StockFailed, &l.UpdatedAt,
	); err != nil {
		return nil, domain.Storage("get stock level for update", err)
	}
	return &l, nil
}

// Upsert guarda el stock (por producto y sucursal).
func (r *StockLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (product_id, branch, stock_good, stock_failed, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, branch)
		DO UPDATE SET stock_good = EXCLUDED.stock_good,
		              stock_failed = EXCLUDED.stock_failed,
		              updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, level.ProductID, level.Branch, level.StockGood, level.StockFailed, level.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("upsert stock level %s/%s: %w", level.ProductID, level.Branch, domain.ErrInvalidStockOperation)
		}
		return domain.Storage("upsert stock level", err)
	}
	return nil
}
