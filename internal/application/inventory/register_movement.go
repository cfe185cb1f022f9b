package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

// Tipos de solicitud aceptados por RegisterMovement.
const (
	RequestManualAdjustment = "manual_adjustment"
	RequestSale             = "sale"
	RequestTransfer         = "transfer"
)

// RegisterMovementUseCase registra movimientos de stock fuera del flujo de devoluciones
// (ajuste manual, venta, traslado entre sucursales) con bloqueo de fila y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner   TxRunner
	recorder   *MovementRecorder
	branchRepo repository.BranchRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	recorder *MovementRecorder,
	branchRepo repository.BranchRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:   txRunner,
		recorder:   recorder,
		branchRepo: branchRepo,
	}
}

// MovementInput entrada para registrar un movimiento.
// manual_adjustment: Branch, ProductID, GoodDelta y/o FailedDelta (con signo).
// sale: Branch, ProductID, Quantity > 0 (sale de stock bueno).
// transfer: Branch (origen), ToBranch (destino), ProductID, Quantity > 0.
type MovementInput struct {
	Type        string
	Branch      string
	ToBranch    string
	ProductID   string
	ProductName string
	GoodDelta   int
	FailedDelta int
	Quantity    int
	Reference   string
	Notes       string
	ActorEmail  string
}

// RegisterMovement valida la entrada, verifica las sucursales y aplica el movimiento en una transacción.
// Devuelve los movimientos escritos (dos en un traslado).
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) ([]*entity.StockMovement, error) {
	if err := validateMovementInput(input); err != nil {
		return nil, err
	}
	if err := uc.checkBranch(ctx, input.Branch); err != nil {
		return nil, err
	}
	if input.Type == RequestTransfer {
		if err := uc.checkBranch(ctx, input.ToBranch); err != nil {
			return nil, err
		}
	}

	var written []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(tx repository.Ledgers) error {
		written = written[:0]
		var movs []*entity.StockMovement
		var err error
		switch input.Type {
		case RequestManualAdjustment:
			movs, err = uc.doAdjustment(ctx, tx, input)
		case RequestSale:
			movs, err = uc.doSale(ctx, tx, input)
		case RequestTransfer:
			movs, err = uc.doTransfer(ctx, tx, input)
		default:
			err = domain.Invalid("type", "no soportado")
		}
		if err != nil {
			return err
		}
		written = append(written, movs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

func validateMovementInput(input MovementInput) error {
	if input.ProductID == "" {
		return domain.Invalid("product_id", "es obligatorio")
	}
	if input.Branch == "" {
		return domain.Invalid("branch", "es obligatorio")
	}
	switch input.Type {
	case RequestManualAdjustment:
		if input.GoodDelta == 0 && input.FailedDelta == 0 {
			return domain.Invalid("good_delta/failed_delta", "al menos uno debe ser distinto de cero")
		}
	case RequestSale:
		if input.Quantity <= 0 {
			return domain.Invalid("quantity", "debe ser mayor que cero")
		}
	case RequestTransfer:
		if input.Quantity <= 0 {
			return domain.Invalid("quantity", "debe ser mayor que cero")
		}
		if input.ToBranch == "" || input.ToBranch == input.Branch {
			return domain.Invalid("to_branch", "debe ser una sucursal distinta del origen")
		}
	default:
		return domain.Invalid("type", "debe ser manual_adjustment, sale o transfer")
	}
	return nil
}

func (uc *RegisterMovementUseCase) checkBranch(ctx context.Context, code string) error {
	ok, err := uc.branchRepo.Exists(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Invalid("branch", "sucursal desconocida: "+code)
	}
	return nil
}

func (uc *RegisterMovementUseCase) doAdjustment(ctx context.Context, tx repository.Ledgers, input MovementInput) ([]*entity.StockMovement, error) {
	mov, err := uc.recorder.RecordMovement(ctx, tx, input.Branch, input.ProductID,
		entity.StockDelta{GoodDelta: input.GoodDelta, FailedDelta: input.FailedDelta},
		movementContext(input, entity.MovementManualAdjustment))
	if err != nil {
		return nil, err
	}
	return []*entity.StockMovement{mov}, nil
}

// doSale: bloquea fila, verifica stock bueno >= cantidad y descuenta.
func (uc *RegisterMovementUseCase) doSale(ctx context.Context, tx repository.Ledgers, input MovementInput) ([]*entity.StockMovement, error) {
	level, err := tx.Levels.GetForUpdate(ctx, input.ProductID, input.Branch)
	if err != nil {
		return nil, err
	}
	if level.StockGood < input.Quantity {
		return nil, insufficient(level, -input.Quantity)
	}
	mov, err := uc.recorder.RecordMovement(ctx, tx, input.Branch, input.ProductID,
		entity.StockDelta{GoodDelta: -input.Quantity},
		movementContext(input, entity.MovementSale))
	if err != nil {
		return nil, err
	}
	return []*entity.StockMovement{mov}, nil
}

// doTransfer: resta del origen y suma en destino en la misma transacción.
// Las filas se bloquean en orden de código de sucursal para que dos traslados cruzados no se bloqueen mutuamente.
func (uc *RegisterMovementUseCase) doTransfer(ctx context.Context, tx repository.Ledgers, input MovementInput) ([]*entity.StockMovement, error) {
	branches := []string{input.Branch, input.ToBranch}
	sort.Strings(branches)
	levels := make(map[string]*entity.StockLevel, 2)
	for _, b := range branches {
		level, err := tx.Levels.GetForUpdate(ctx, input.ProductID, b)
		if err != nil {
			return nil, err
		}
		levels[b] = level
	}
	origin := levels[input.Branch]
	if origin.StockGood < input.Quantity {
		return nil, insufficient(origin, -input.Quantity)
	}

	outMov, err := uc.recorder.RecordMovement(ctx, tx, input.Branch, input.ProductID,
		entity.StockDelta{GoodDelta: -input.Quantity},
		movementContext(input, entity.MovementTransferOut))
	if err != nil {
		return nil, err
	}
	inMov, err := uc.recorder.RecordMovement(ctx, tx, input.ToBranch, input.ProductID,
		entity.StockDelta{GoodDelta: input.Quantity},
		movementContext(input, entity.MovementTransferIn))
	if err != nil {
		return nil, err
	}
	return []*entity.StockMovement{outMov, inMov}, nil
}

func movementContext(input MovementInput, t entity.MovementType) entity.MovementContext {
	return entity.MovementContext{
		Type:        t,
		ProductName: input.ProductName,
		Reference:   input.Reference,
		ActorEmail:  input.ActorEmail,
		Notes:       input.Notes,
	}
}

func insufficient(level *entity.StockLevel, goodDelta int) error {
	return &domain.StockError{
		Err:         domain.ErrInsufficientStock,
		ProductID:   level.ProductID,
		Branch:      level.Branch,
		StockGood:   level.StockGood,
		StockFailed: level.StockFailed,
		GoodDelta:   goodDelta,
	}
}
