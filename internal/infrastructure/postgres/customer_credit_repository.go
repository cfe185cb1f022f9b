package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var _ repository.CustomerCreditRepository = (*CustomerCreditRepo)(nil)

// CustomerCreditRepo movimientos de cuenta corriente; el saldo se deriva sumando.
type CustomerCreditRepo struct {
	q Querier
}

// NewCustomerCreditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerCreditRepository(q Querier) *CustomerCreditRepo {
	return &CustomerCreditRepo{q: q}
}

// Append inserta un movimiento de cuenta corriente; genera el ID si viene vacío.
func (r *CustomerCreditRepo) Append(ctx context.Context, m *entity.CustomerCreditMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO customer_credit_movements (id, branch, customer_id, customer_name, type, debit, haber, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Branch, m.CustomerID, m.CustomerName, m.Type, m.Debit, m.Haber, m.Description, m.CreatedAt,
	)
	if err != nil {
		return domain.Storage("append customer credit movement", err)
	}
	return nil
}

// Account saldo = Σ debe − Σ haber. Sin movimientos devuelve la cuenta en cero.
func (r *CustomerCreditRepo) Account(ctx context.Context, branch, customerID string) (*entity.CustomerCreditAccount, error) {
	query := `
		SELECT COALESCE(MAX(customer_name), ''), COALESCE(SUM(debit), 0), COALESCE(SUM(haber), 0)
		FROM customer_credit_movements
		WHERE branch = $1 AND customer_id = $2`
	acc := entity.CustomerCreditAccount{Branch: branch, CustomerID: customerID}
	if err := r.q.QueryRow(ctx, query, branch, customerID).Scan(&acc.CustomerName, &acc.TotalDebit, &acc.TotalHaber); err != nil {
		return nil, domain.Storage("customer credit account", err)
	}
	acc.Balance = acc.TotalDebit.Sub(acc.TotalHaber)
	return &acc, nil
}

// List devuelve los movimientos del cliente en la sucursal, del más reciente al más antiguo.
func (r *CustomerCreditRepo) List(ctx context.Context, branch, customerID string, limit, offset int) ([]*entity.CustomerCreditMovement, error) {
	query := `
		SELECT id::text, branch, customer_id, customer_name, type, debit, haber, description, created_at
		FROM customer_credit_movements
		WHERE branch = $1 AND customer_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, branch, customerID, limit, offset)
	if err != nil {
		return nil, domain.Storage("list customer credit movements", err)
	}
	defer rows.Close()
	out := make([]*entity.CustomerCreditMovement, 0)
	for rows.Next() {
		var m entity.CustomerCreditMovement
		if err := rows.Scan(&m.ID, &m.Branch, &m.CustomerID, &m.CustomerName, &m.Type,
			&m.Debit, &m.Haber, &m.Description, &m.CreatedAt); err != nil {
			return nil, domain.Storage("scan customer credit movement", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("iterate customer credit movements", err)
	}
	return out, nil
}
