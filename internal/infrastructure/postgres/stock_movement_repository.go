package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, branch, product_id, product_name, customer_id, customer_name,
	stock_good_before, stock_good_after, stock_failed_before, stock_failed_after,
	movement_type, reference, actor_email, notes, created_at`

// StockMovementRepo historial append-only de movimientos de stock.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta el movimiento y asigna su ID (BIGSERIAL, desempata movimientos con igual timestamp).
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (branch, product_id, product_name, customer_id, customer_name,
			stock_good_before, stock_good_after, stock_failed_before, stock_failed_after,
			movement_type, reference, actor_email, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.Branch, m.ProductID, m.ProductName, m.CustomerID, m.CustomerName,
		m.StockGoodBefore, m.StockGoodAfter, m.StockFailedBefore, m.StockFailedAfter,
		string(m.Type), m.Reference, m.ActorEmail, m.Notes, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return domain.Storage("append stock movement", err)
	}
	return nil
}

// LatestAtOrBefore último movimiento con created_at <= at; nil si no hay.
func (r *StockMovementRepo) LatestAtOrBefore(ctx context.Context, productID, branch string, at time.Time) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE product_id = $1 AND branch = $2 AND created_at <= $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, productID, branch, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("latest stock movement", err)
	}
	return m, nil
}

// LatestPerProductAtOrBefore último movimiento <= at de cada producto de la sucursal (DISTINCT ON).
func (r *StockMovementRepo) LatestPerProductAtOrBefore(ctx context.Context, branch string, at time.Time) ([]*entity.StockMovement, error) {
	query := `SELECT DISTINCT ON (product_id) ` + movementColumns + `
		FROM stock_movements
		WHERE branch = $1 AND created_at <= $2
		ORDER BY product_id, created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, branch, at)
	if err != nil {
		return nil, domain.Storage("snapshot stock movements", err)
	}
	return collectMovements(rows)
}

// List lista movimientos filtrados, más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var where []string
	var args []any
	pos := 1
	if f.Branch != "" {
		where = append(where, fmt.Sprintf("branch = $%d", pos))
		args = append(args, f.Branch)
		pos++
	}
	if f.ProductID != "" {
		where = append(where, fmt.Sprintf("product_id = $%d", pos))
		args = append(args, f.ProductID)
		pos++
	}
	if f.From != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", pos))
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", pos))
		args = append(args, *f.To)
		pos++
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("list stock movements", err)
	}
	return collectMovements(rows)
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var typ string
	err := row.Scan(
		&m.ID, &m.Branch, &m.ProductID, &m.ProductName, &m.CustomerID, &m.CustomerName,
		&m.StockGoodBefore, &m.StockGoodAfter, &m.StockFailedBefore, &m.StockFailedAfter,
		&typ, &m.Reference, &m.ActorEmail, &m.Notes, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	out := make([]*entity.StockMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, domain.Storage("scan stock movement", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("iterate stock movements", err)
	}
	return out, nil
}
