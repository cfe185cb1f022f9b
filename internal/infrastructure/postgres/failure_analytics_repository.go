package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var _ repository.FailureAnalyticsRepository = (*FailureAnalyticsRepo)(nil)

// FailureAnalyticsRepo consultas agregadas sobre return_records (solo lectura).
type FailureAnalyticsRepo struct {
	q Querier
}

// NewFailureAnalyticsRepository construye el adaptador de analítica sobre return_records.
func NewFailureAnalyticsRepository(q Querier) *FailureAnalyticsRepo {
	return &FailureAnalyticsRepo{q: q}
}

// failureWhere arma el WHERE del filtro. Fechas en cero no restringen.
func failureWhere(f repository.FailureFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Branch != "" {
		args = append(args, f.Branch)
		conds = append(conds, fmt.Sprintf("branch = $%d", len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		conds = append(conds, fmt.Sprintf("processed_at >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		conds = append(conds, fmt.Sprintf("processed_at <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// andCustomer agrega la condición de cliente informado a un WHERE posiblemente vacío.
func andCustomer(where string) string {
	if where == "" {
		return " WHERE customer_id <> ''"
	}
	return where + " AND customer_id <> ''"
}

// TopProducts agrupa por producto, ordenado por eventos de falla.
func (r *FailureAnalyticsRepo) TopProducts(ctx context.Context, f repository.FailureFilter, limit int) ([]repository.ProductFailureResult, error) {
	where, args := failureWhere(f)
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT product_id, MAX(product_name), COUNT(*),
			COUNT(*) FILTER (WHERE kind = 'return'),
			COUNT(*) FILTER (WHERE kind = 'replacement'),
			COALESCE(SUM(refund_amount), 0)
		FROM return_records%s
		GROUP BY product_id
		ORDER BY COUNT(*) DESC, product_id
		LIMIT $%d`, where, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("top failed products", err)
	}
	defer rows.Close()
	out := make([]repository.ProductFailureResult, 0)
	for rows.Next() {
		var p repository.ProductFailureResult
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.TotalEvents, &p.Returns, &p.Replacements, &p.TotalRefunded); err != nil {
			return nil, domain.Storage("scan top failed products", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("iterate top failed products", err)
	}
	return out, nil
}

// ByBranch agrupa por sucursal.
func (r *FailureAnalyticsRepo) ByBranch(ctx context.Context, f repository.FailureFilter) ([]repository.BranchFailureResult, error) {
	where, args := failureWhere(f)
	query := `
		SELECT branch, COUNT(*), COUNT(DISTINCT product_id), COUNT(DISTINCT NULLIF(customer_id, '')),
			COALESCE(SUM(refund_amount), 0)
		FROM return_records` + where + `
		GROUP BY branch
		ORDER BY COUNT(*) DESC, branch`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("failures by branch", err)
	}
	defer rows.Close()
	out := make([]repository.BranchFailureResult, 0)
	for rows.Next() {
		var b repository.BranchFailureResult
		if err := rows.Scan(&b.Branch, &b.TotalEvents, &b.DistinctProducts, &b.DistinctCustomers, &b.TotalRefunded); err != nil {
			return nil, domain.Storage("scan failures by branch", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("iterate failures by branch", err)
	}
	return out, nil
}

// TopCustomers agrupa por cliente; excluye registros sin cliente.
func (r *FailureAnalyticsRepo) TopCustomers(ctx context.Context, f repository.FailureFilter, limit int) ([]repository.CustomerFailureResult, error) {
	where, args := failureWhere(f)
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT customer_id, MAX(customer_name), COUNT(*), MAX(processed_at), COALESCE(SUM(refund_amount), 0)
		FROM return_records%s
		GROUP BY customer_id
		ORDER BY COUNT(*) DESC, customer_id
		LIMIT $%d`, andCustomer(where), len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("top failure customers", err)
	}
	defer rows.Close()
	out := make([]repository.CustomerFailureResult, 0)
	for rows.Next() {
		var c repository.CustomerFailureResult
		if err := rows.Scan(&c.CustomerID, &c.CustomerName, &c.TotalEvents, &c.LastFailureAt, &c.TotalRefunded); err != nil {
			return nil, domain.Storage("scan top failure customers", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("iterate top failure customers", err)
	}
	return out, nil
}

// ByCustomerProduct agrupa por par cliente/producto.
func (r *FailureAnalyticsRepo) ByCustomerProduct(ctx context.Context, f repository.FailureFilter) ([]repository.CustomerProductFailureResult, error) {
	where, args := failureWhere(f)
	query := `
		SELECT customer_id, MAX(customer_name), product_id, MAX(product_name), COUNT(*), MAX(processed_at),
			COALESCE(SUM(refund_amount), 0)
		FROM return_records` + andCustomer(where) + `
		GROUP BY customer_id, product_id
		ORDER BY COUNT(*) DESC, customer_id, product_id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("failures by customer and product", err)
	}
	defer rows.Close()
	out := make([]repository.CustomerProductFailureResult, 0)
	for rows.Next() {
		var p repository.CustomerProductFailureResult
		if err := rows.Scan(&p.CustomerID, &p.CustomerName, &p.ProductID, &p.ProductName,
			&p.FailureCount, &p.LastFailureAt, &p.TotalRefunded); err != nil {
			return nil, domain.Storage("scan failures by customer and product", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("iterate failures by customer and product", err)
	}
	return out, nil
}

// Summary calcula los totales del rango.
func (r *FailureAnalyticsRepo) Summary(ctx context.Context, f repository.FailureFilter) (repository.FailureSummaryResult, error) {
	where, args := failureWhere(f)
	query := `
		SELECT COUNT(*), COUNT(DISTINCT product_id), COUNT(DISTINCT NULLIF(customer_id, '')), COUNT(DISTINCT branch),
			COUNT(*) FILTER (WHERE kind = 'return'),
			COUNT(*) FILTER (WHERE kind = 'replacement'),
			COALESCE(SUM(refund_amount), 0),
			COALESCE(AVG(refund_amount), 0)
		FROM return_records` + where
	var s repository.FailureSummaryResult
	err := r.q.QueryRow(ctx, query, args...).Scan(&s.TotalEvents, &s.DistinctProducts, &s.DistinctCustomers,
		&s.DistinctBranches, &s.Returns, &s.Replacements, &s.TotalRefunded, &s.AverageRefund)
	if err != nil {
		return repository.FailureSummaryResult{}, domain.Storage("failure summary", err)
	}
	s.AverageRefund = s.AverageRefund.Round(2)
	return s, nil
}
