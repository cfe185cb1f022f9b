package returns

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/inventory"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

// ReplacementInput datos de un reemplazo por garantía. No hay reembolso.
type ReplacementInput struct {
	SaleLineItemID string
	Branch         string
	Quantity       int
	ActorEmail     string
	Notes          string
}

func (in ReplacementInput) validate() error {
	if strings.TrimSpace(in.SaleLineItemID) == "" {
		return domain.Invalid("sale_line_item_id", "es obligatorio")
	}
	if in.Quantity < 1 {
		return domain.Invalid("quantity", "debe ser al menos 1")
	}
	return nil
}

// ProcessReplacement entrega unidades buenas y pasa las fallidas a stock de fallas.
// Falla con ErrInsufficientStock si el stock bueno no alcanza; en ese caso no se escribe nada.
func (s *Service) ProcessReplacement(ctx context.Context, in ReplacementInput) (*entity.ReturnRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.lineItem(ctx, in.SaleLineItemID)
	if err != nil {
		return nil, err
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
		level, err := tx.Levels.GetForUpdate(ctx, item.ProductID, branch)
		if err != nil {
			return err
		}
		if level.StockGood < in.Quantity {
			return &domain.StockError{
				Err:         domain.ErrInsufficientStock,
				ProductID:   item.ProductID,
				Branch:      branch,
				StockGood:   level.StockGood,
				StockFailed: level.StockFailed,
				GoodDelta:   -in.Quantity,
				FailedDelta: in.Quantity,
			}
		}

		mov, err := s.recorder.RecordMovement(ctx, tx, branch, item.ProductID,
			inventory.ReplacementDelta(in.Quantity),
			entity.MovementContext{
				Type:         entity.MovementReplacement,
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
			Kind:           entity.KindReplacement,
			Quantity:       in.Quantity,
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
		s.logFailure("process_replacement", err)
		return nil, err
	}

	s.log.Info().
		Str("record_id", record.ID).
		Str("branch", branch).
		Str("product_id", item.ProductID).
		Int("quantity", in.Quantity).
		Str("actor", in.ActorEmail).
		Msg("reemplazo registrado")
	return record, nil
}
