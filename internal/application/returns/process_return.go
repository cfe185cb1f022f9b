package returns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/inventory"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

// ReturnInput datos de una devolución. Producto y cliente salen de la línea de venta.
type ReturnInput struct {
	SaleLineItemID string
	Branch         string // opcional: sucursal donde se recibe; por defecto la de la venta
	Disposition    entity.StockDisposition
	RefundMethod   entity.RefundMethod
	RefundAmount   decimal.Decimal
	ActorEmail     string
	Notes          string
}

func (in ReturnInput) validate() error {
	if strings.TrimSpace(in.SaleLineItemID) == "" {
		return domain.Invalid("sale_line_item_id", "es obligatorio")
	}
	if !in.Disposition.IsValid() {
		return domain.Invalid("stock_disposition", "debe ser good o failed")
	}
	if !in.RefundMethod.IsValid() {
		return domain.Invalid("refund_method", "debe ser customer_credit o cash")
	}
	if !in.RefundAmount.IsPositive() {
		return domain.Invalid("refund_amount", "debe ser mayor que cero")
	}
	// Los libros guardan montos NUMERIC(14,2): más decimales romperían el encadenamiento de saldos.
	if !in.RefundAmount.Equal(in.RefundAmount.Round(2)) {
		return domain.Invalid("refund_amount", "admite como máximo dos decimales")
	}
	return nil
}

// ProcessReturn registra una devolución: mueve una unidad a stock bueno o de fallas y reembolsa
// por cuenta corriente o egreso de caja. Todo en una transacción; cualquier error deja los libros intactos.
func (s *Service) ProcessReturn(ctx context.Context, in ReturnInput) (*entity.ReturnRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.lineItem(ctx, in.SaleLineItemID)
	if err != nil {
		return nil, err
	}
	if in.RefundMethod == entity.RefundCustomerCredit && item.CustomerID == "" {
		return nil, domain.Invalid("refund_method", "la venta no tiene cliente para acreditar")
	}
	branch, err := s.resolveBranch(ctx, in.Branch, item)
	if err != nil {
		return nil, err
	}
	if err := s.checkWarranty(item); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var record *entity.ReturnRecord
	err = s.txRunner.Run(ctx, func(tx repository.Ledgers) error {
		mov, err := s.recorder.RecordMovement(ctx, tx, branch, item.ProductID,
			inventory.DeltaForDisposition(in.Disposition),
			entity.MovementContext{
				Type:         inventory.MovementTypeForDisposition(in.Disposition),
				ProductName:  item.ProductName,
				CustomerID:   item.CustomerID,
				CustomerName: item.CustomerName,
				Reference:    item.NumeroVenta,
				ActorEmail:   in.ActorEmail,
				Notes:        in.Notes,
			})
		if err != nil {
			return err
		}

		switch in.RefundMethod {
		case entity.RefundCustomerCredit:
			err = s.creditRefund(ctx, tx, branch, item, in, mov.CreatedAt)
		case entity.RefundCash:
			err = s.cashRefund(ctx, tx, branch, item, in, mov.CreatedAt)
		}
		if err != nil {
			return err
		}

		method := in.RefundMethod
		amount := in.RefundAmount
		rec := &entity.ReturnRecord{
			ID:             uuid.New().String(),
			Branch:         branch,
			SaleID:         item.SaleID,
			SaleLineItemID: item.ID,
			NumeroVenta:    item.NumeroVenta,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			CustomerID:     item.CustomerID,
			CustomerName:   item.CustomerName,
			Kind:           entity.KindReturn,
			RefundMethod:   &method,
			RefundAmount:   &amount,
			Quantity:       1,
			Notes:          in.Notes,
			ActorEmail:     in.ActorEmail,
			SaleTimestamp:  item.SoldAt,
			ProcessedAt:    mov.CreatedAt,
		}
		if err := tx.Records.Create(ctx, rec); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		s.logFailure("process_return", err)
		return nil, err
	}

	s.log.Info().
		Str("record_id", record.ID).
		Str("branch", branch).
		Str("product_id", item.ProductID).
		Str("disposition", string(in.Disposition)).
		Str("refund_method", string(in.RefundMethod)).
		Str("refund_amount", in.RefundAmount.StringFixed(2)).
		Str("actor", in.ActorEmail).
		Msg("devolución registrada")
	return record, nil
}

// creditRefund agrega un haber en la cuenta corriente del cliente. No toca la caja.
func (s *Service) creditRefund(ctx context.Context, tx repository.Ledgers, branch string, item *entity.SaleLineItem, in ReturnInput, at time.Time) error {
	desc := fmt.Sprintf("Devolución %s (venta %s)", item.ProductName, item.NumeroVenta)
	if in.Notes != "" {
		desc += ": " + in.Notes
	}
	return tx.Credit.Append(ctx, &entity.CustomerCreditMovement{
		ID:           uuid.New().String(),
		Branch:       branch,
		CustomerID:   item.CustomerID,
		CustomerName: item.CustomerName,
		Type:         entity.CreditMovementReturn,
		Debit:        decimal.Zero,
		Haber:        in.RefundAmount,
		Description:  desc,
		CreatedAt:    at,
	})
}

// cashRefund registra un egreso de caja. No verifica saldo: la caja puede quedar negativa.
func (s *Service) cashRefund(ctx context.Context, tx repository.Ledgers, branch string, item *entity.SaleLineItem, in ReturnInput, at time.Time) error {
	reg, err := tx.Cash.GetForUpdate(ctx, branch)
	if err != nil {
		return err
	}
	if at.Before(reg.UpdatedAt) {
		at = reg.UpdatedAt
	}
	before := reg.Balance
	after := before.Sub(in.RefundAmount)
	if err := tx.Cash.AppendMovement(ctx, &entity.CashMovement{
		Branch:        branch,
		Type:          entity.CashMovementRefundEgress,
		Amount:        in.RefundAmount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Concept:       fmt.Sprintf("Devolución %s (venta %s)", item.ProductName, item.NumeroVenta),
		ActorEmail:    in.ActorEmail,
		CreatedAt:     at,
	}); err != nil {
		return err
	}
	reg.Balance = after
	reg.UpdatedAt = at
	return tx.Cash.UpdateBalance(ctx, reg)
}
