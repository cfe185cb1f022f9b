package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var _ repository.CashRepository = (*CashRepo)(nil)

// CashRepo caja por sucursal y su historial de movimientos.
type CashRepo struct {
	q Querier
}

// NewCashRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRepository(q Querier) *CashRepo {
	return &CashRepo{q: q}
}

// Get lee la caja sin bloquearla. Si la sucursal no tiene fila devuelve saldo cero.
func (r *CashRepo) Get(ctx context.Context, branch string) (*entity.CashRegister, error) {
	query := `SELECT branch, balance, updated_at FROM cash_registers WHERE branch = $1`
	var reg entity.CashRegister
	err := r.q.QueryRow(ctx, query, branch).Scan(&reg.Branch, &reg.Balance, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.CashRegister{Branch: branch, Balance: decimal.Zero}, nil
		}
		return nil, domain.Storage("get cash register", err)
	}
	return &reg, nil
}

// GetForUpdate asegura la fila de caja y la bloquea hasta el fin de la transacción.
func (r *CashRepo) GetForUpdate(ctx context.Context, branch string) (*entity.CashRegister, error) {
	ensure := `INSERT INTO cash_registers (branch) VALUES ($1) ON CONFLICT (branch) DO NOTHING`
	if _, err := r.q.Exec(ctx, ensure, branch); err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.Invalid("branch", "sucursal desconocida: "+branch)
		}
		return nil, domain.Storage("ensure cash register", err)
	}
	query := `SELECT branch, balance, updated_at FROM cash_registers WHERE branch = $1 FOR UPDATE`
	var reg entity.CashRegister
	if err := r.q.QueryRow(ctx, query, branch).Scan(&reg.Branch, &reg.Balance, &reg.UpdatedAt); err != nil {
		return nil, domain.Storage("get cash register for update", err)
	}
	return &reg, nil
}

// UpdateBalance persiste el saldo y la fecha de actualización de la caja.
func (r *CashRepo) UpdateBalance(ctx context.Context, reg *entity.CashRegister) error {
	query := `UPDATE cash_registers SET balance = $2, updated_at = $3 WHERE branch = $1`
	tag, err := r.q.Exec(ctx, query, reg.Branch, reg.Balance, reg.UpdatedAt)
	if err != nil {
		return domain.Storage("update cash register", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Storage("update cash register", pgx.ErrNoRows)
	}
	return nil
}

// AppendMovement inserta un movimiento de caja y asigna m.ID.
func (r *CashRepo) AppendMovement(ctx context.Context, m *entity.CashMovement) error {
	query := `
		INSERT INTO cash_movements (branch, type, amount, balance_before, balance_after, concept, actor_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.Branch, m.Type, m.Amount, m.BalanceBefore, m.BalanceAfter, m.Concept, m.ActorEmail, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return domain.Storage("append cash movement", err)
	}
	return nil
}

// ListMovements devuelve los movimientos de la sucursal, del más reciente al más antiguo.
func (r *CashRepo) ListMovements(ctx context.Context, branch string, limit, offset int) ([]*entity.CashMovement, error) {
	query := `
		SELECT id, branch, type, amount, balance_before, balance_after, concept, actor_email, created_at
		FROM cash_movements WHERE branch = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, branch, limit, offset)
	if err != nil {
		return nil, domain.Storage("list cash movements", err)
	}
	defer rows.Close()
	out := make([]*entity.CashMovement, 0)
	for rows.Next() {
		var m entity.CashMovement
		if err := rows.Scan(&m.ID, &m.Branch, &m.Type, &m.Amount, &m.BalanceBefore, &m.BalanceAfter,
			&m.Concept, &m.ActorEmail, &m.CreatedAt); err != nil {
			return nil, domain.Storage("scan cash movement", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("iterate cash movements", err)
	}
	return out, nil
}
