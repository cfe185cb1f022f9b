package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var _ repository.ReturnRecordRepository = (*ReturnRecordRepo)(nil)

// ReturnRecordRepo registros de devoluciones y reemplazos (append-only).
type ReturnRecordRepo struct {
	q Querier
}

// NewReturnRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRecordRepository(q Querier) *ReturnRecordRepo {
	return &ReturnRecordRepo{q: q}
}

// Create inserta el registro. Método y monto se guardan como NULL en los reemplazos.
func (r *ReturnRecordRepo) Create(ctx context.Context, rec *entity.ReturnRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	var method *string
	if rec.RefundMethod != nil {
		m := string(*rec.RefundMethod)
		method = &m
	}
	amount := decimal.NullDecimal{}
	if rec.RefundAmount != nil {
		amount = decimal.NewNullDecimal(*rec.RefundAmount)
	}
	query := `
		INSERT INTO return_records (id, branch, sale_id, sale_line_item_id, numero_venta, product_id, product_name,
			customer_id, customer_name, kind, refund_method, refund_amount, quantity, notes, actor_email,
			sale_timestamp, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.Branch, rec.SaleID, rec.SaleLineItemID, rec.NumeroVenta, rec.ProductID, rec.ProductName,
		rec.CustomerID, rec.CustomerName, string(rec.Kind), method, amount, rec.Quantity, rec.Notes, rec.ActorEmail,
		rec.SaleTimestamp, rec.ProcessedAt,
	)
	if err != nil {
		return domain.Storage("insert return record", err)
	}
	return nil
}

// List aplica los filtros presentes, del más reciente al más antiguo.
func (r *ReturnRecordRepo) List(ctx context.Context, f repository.RecordFilter) ([]*entity.ReturnRecord, error) {
	var where []string
	var args []any
	pos := 1
	if f.Branch != "" {
		where = append(where, fmt.Sprintf("branch = $%d", pos))
		args = append(args, f.Branch)
		pos++
	}
	if f.From != nil {
		where = append(where, fmt.Sprintf("processed_at >= $%d", pos))
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where = append(where, fmt.Sprintf("processed_at <= $%d", pos))
		args = append(args, *f.To)
		pos++
	}
	query := `
		SELECT id::text, branch, sale_id, sale_line_item_id, numero_venta, product_id, product_name,
			customer_id, customer_name, kind, refund_method, refund_amount, quantity, notes, actor_email,
			sale_timestamp, processed_at
		FROM return_records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY processed_at DESC, id LIMIT $%d OFFSET $%d`, pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("list return records", err)
	}
	defer rows.Close()
	out := make([]*entity.ReturnRecord, 0)
	for rows.Next() {
		var rec entity.ReturnRecord
		var kind string
		var method *string
		var amount decimal.NullDecimal
		if err := rows.Scan(&rec.ID, &rec.Branch, &rec.SaleID, &rec.SaleLineItemID, &rec.NumeroVenta,
			&rec.ProductID, &rec.ProductName, &rec.CustomerID, &rec.CustomerName, &kind, &method, &amount,
			&rec.Quantity, &rec.Notes, &rec.ActorEmail, &rec.SaleTimestamp, &rec.ProcessedAt); err != nil {
			return nil, domain.Storage("scan return record", err)
		}
		rec.Kind = entity.RecordKind(kind)
		if method != nil {
			m := entity.RefundMethod(*method)
			rec.RefundMethod = &m
		}
		if amount.Valid {
			a := amount.Decimal
			rec.RefundAmount = &a
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("iterate return records", err)
	}
	return out, nil
}
