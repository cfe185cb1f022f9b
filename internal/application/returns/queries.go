package returns

import (
	"context"
	"time"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
	"github.com/jhoicas/garantias-api/internal/domain/warranty"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ReturnableItem línea de venta con su estado de garantía (informativo).
type ReturnableItem struct {
	Item     *entity.SaleLineItem
	Warranty warranty.Result
}

// CreditView cuenta corriente de un cliente en una sucursal con sus últimos movimientos.
type CreditView struct {
	Account   *entity.CustomerCreditAccount
	Movements []*entity.CustomerCreditMovement
}

// CashView saldo actual de la caja de una sucursal con sus últimos movimientos.
type CashView struct {
	Register  *entity.CashRegister
	Movements []*entity.CashMovement
}

// GetWarrantyStatus evalúa la garantía de una línea de venta a la fecha now (cero = ahora).
func (s *Service) GetWarrantyStatus(ctx context.Context, saleLineItemID string, now time.Time) (warranty.Result, error) {
	if saleLineItemID == "" {
		return warranty.Result{}, domain.Invalid("sale_line_item_id", "es obligatorio")
	}
	item, err := s.lineItem(ctx, saleLineItemID)
	if err != nil {
		return warranty.Result{}, err
	}
	if now.IsZero() {
		now = s.now()
	}
	return warranty.EvaluateWithWindow(item.SoldAt, now, s.policy.WarrantyDays), nil
}

// ReturnableItems lista las líneas de una venta anotadas con su garantía. Una venta sin líneas devuelve vacío.
func (s *Service) ReturnableItems(ctx context.Context, saleID string) ([]ReturnableItem, error) {
	if saleID == "" {
		return nil, domain.Invalid("sale_id", "es obligatorio")
	}
	items, err := s.sales.ListLineItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]ReturnableItem, 0, len(items))
	for _, it := range items {
		out = append(out, ReturnableItem{
			Item:     it,
			Warranty: warranty.EvaluateWithWindow(it.SoldAt, now, s.policy.WarrantyDays),
		})
	}
	return out, nil
}

// ListRecords lista devoluciones y reemplazos, más recientes primero.
func (s *Service) ListRecords(ctx context.Context, filter repository.RecordFilter) ([]*entity.ReturnRecord, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.Invalid("from", "debe ser anterior a to")
	}
	filter.Limit, filter.Offset = pageBounds(filter.Limit, filter.Offset)
	recs, err := s.ledgers.Records.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []*entity.ReturnRecord{}
	}
	return recs, nil
}

// CreditAccount saldo (Σ debe − Σ haber) y movimientos del cliente en la sucursal.
func (s *Service) CreditAccount(ctx context.Context, branch, customerID string, limit, offset int) (*CreditView, error) {
	if branch == "" {
		return nil, domain.Invalid("branch", "es obligatorio")
	}
	if customerID == "" {
		return nil, domain.Invalid("customer_id", "es obligatorio")
	}
	acc, err := s.ledgers.Credit.Account(ctx, branch, customerID)
	if err != nil {
		return nil, err
	}
	limit, offset = pageBounds(limit, offset)
	movs, err := s.ledgers.Credit.List(ctx, branch, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	if movs == nil {
		movs = []*entity.CustomerCreditMovement{}
	}
	return &CreditView{Account: acc, Movements: movs}, nil
}

// Cash saldo y movimientos de la caja de la sucursal.
func (s *Service) Cash(ctx context.Context, branch string, limit, offset int) (*CashView, error) {
	if branch == "" {
		return nil, domain.Invalid("branch", "es obligatorio")
	}
	reg, err := s.ledgers.Cash.Get(ctx, branch)
	if err != nil {
		return nil, err
	}
	limit, offset = pageBounds(limit, offset)
	movs, err := s.ledgers.Cash.ListMovements(ctx, branch, limit, offset)
	if err != nil {
		return nil, err
	}
	if movs == nil {
		movs = []*entity.CashMovement{}
	}
	return &CashView{Register: reg, Movements: movs}, nil
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
