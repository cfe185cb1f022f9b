package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository   = (*SaleRepo)(nil)
	_ repository.BranchRepository = (*BranchRepo)(nil)
)

const lineItemColumns = `si.id, si.sale_id, s.numero_venta, s.branch, si.product_id, si.product_name,
	si.unit_price, si.quantity, s.sold_at, s.customer_id, s.customer_name, s.payment_method`

// SaleRepo lectura de ventas registradas por el punto de venta (este servicio no las escribe).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas (solo lectura).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// GetLineItem devuelve nil, nil si la línea no existe.
func (r *SaleRepo) GetLineItem(ctx context.Context, lineItemID string) (*entity.SaleLineItem, error) {
	query := `SELECT ` + lineItemColumns + `
		FROM sale_items si JOIN sales s ON s.id = si.sale_id
		WHERE si.id = $1`
	item, err := scanLineItem(r.q.QueryRow(ctx, query, lineItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get sale line item", err)
	}
	return item, nil
}

// ListLineItems devuelve las líneas de una venta ordenadas por id.
func (r *SaleRepo) ListLineItems(ctx context.Context, saleID string) ([]*entity.SaleLineItem, error) {
	query := `SELECT ` + lineItemColumns + `
		FROM sale_items si JOIN sales s ON s.id = si.sale_id
		WHERE si.sale_id = $1
		ORDER BY si.id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, domain.Storage("list sale line items", err)
	}
	defer rows.Close()
	out := make([]*entity.SaleLineItem, 0)
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, domain.Storage("scan sale line item", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("iterate sale line items", err)
	}
	return out, nil
}

func scanLineItem(row pgx.Row) (*entity.SaleLineItem, error) {
	var it entity.SaleLineItem
	err := row.Scan(&it.ID, &it.SaleID, &it.NumeroVenta, &it.Branch, &it.ProductID, &it.ProductName,
		&it.UnitPrice, &it.Quantity, &it.SoldAt, &it.CustomerID, &it.CustomerName, &it.PaymentMethod)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// BranchRepo registro de sucursales.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el registro de sucursales.
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// Exists indica si la sucursal está registrada.
func (r *BranchRepo) Exists(ctx context.Context, code string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM branches WHERE code = $1)`, code).Scan(&ok); err != nil {
		return false, domain.Storage("branch exists", err)
	}
	return ok, nil
}
