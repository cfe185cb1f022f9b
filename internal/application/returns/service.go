// Package returns orquesta devoluciones y reemplazos: stock, caja, cuenta corriente y registro
// se escriben en una sola transacción.
package returns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/garantias-api/internal/application/inventory"
	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
	"github.com/jhoicas/garantias-api/internal/domain/warranty"
)

// Policy reglas de negocio configurables del flujo de devoluciones.
type Policy struct {
	WarrantyDays         int
	BlockExpiredWarranty bool          // false: la garantía solo se informa al operador
	TxTimeout            time.Duration // 0 = sin timeout propio
}

// DefaultPolicy ventana de 90 días, garantía informativa, sin timeout.
func DefaultPolicy() Policy {
	return Policy{WarrantyDays: warranty.DefaultWindowDays}
}

// Service casos de uso de devoluciones y reemplazos.
type Service struct {
	txRunner inventory.TxRunner
	recorder *inventory.MovementRecorder
	ledgers  repository.Ledgers // vistas de lectura fuera de transacción
	sales    repository.SaleRepository
	branches repository.BranchRepository
	policy   Policy
	log      zerolog.Logger
	now      func() time.Time
}

// NewService construye el servicio.
func NewService(
	txRunner inventory.TxRunner,
	recorder *inventory.MovementRecorder,
	ledgers repository.Ledgers,
	sales repository.SaleRepository,
	branches repository.BranchRepository,
	policy Policy,
	log zerolog.Logger,
) *Service {
	if policy.WarrantyDays <= 0 {
		policy.WarrantyDays = warranty.DefaultWindowDays
	}
	return &Service{
		txRunner: txRunner,
		recorder: recorder,
		ledgers:  ledgers,
		sales:    sales,
		branches: branches,
		policy:   policy,
		log:      log,
		now:      time.Now,
	}
}

// lineItem busca la línea de venta; ErrNotFound si no existe.
func (s *Service) lineItem(ctx context.Context, id string) (*entity.SaleLineItem, error) {
	item, err := s.sales.GetLineItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("línea de venta %s: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

// resolveBranch usa la sucursal pedida o, si viene vacía, la de la venta; debe existir en el registro.
func (s *Service) resolveBranch(ctx context.Context, requested string, item *entity.SaleLineItem) (string, error) {
	branch := requested
	if branch == "" {
		branch = item.Branch
	}
	ok, err := s.branches.Exists(ctx, branch)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.Invalid("branch", "sucursal desconocida: "+branch)
	}
	return branch, nil
}

// checkWarranty devuelve ErrWarrantyExpired solo si la política bloquea garantías vencidas.
func (s *Service) checkWarranty(item *entity.SaleLineItem) error {
	res := warranty.EvaluateWithWindow(item.SoldAt, s.now(), s.policy.WarrantyDays)
	if s.policy.BlockExpiredWarranty && res.Status == warranty.StatusVencida {
		return fmt.Errorf("%w (%d días desde la venta)", domain.ErrWarrantyExpired, res.DaysSinceSale)
	}
	return nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.policy.TxTimeout > 0 {
		return context.WithTimeout(ctx, s.policy.TxTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Service) logFailure(op string, err error) {
	if errors.Is(err, domain.ErrStorage) || errors.Is(err, context.DeadlineExceeded) {
		s.log.Error().Err(err).Str("op", op).Msg("transacción abortada")
	}
}
