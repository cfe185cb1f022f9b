// Package memory implementa los libros del motor de devoluciones en memoria.
// Lo usan los tests de aplicación y de HTTP; las transacciones se serializan con un único mutex
// y un error dentro de Run restaura el estado previo.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

type levelKey struct {
	productID string
	branch    string
}

// Store guarda todos los libros en mapas y slices protegidos por mu.
// Implementa inventory.TxRunner y los puertos de repository.
type Store struct {
	mu sync.Mutex

	levels         map[levelKey]entity.StockLevel
	movements      []entity.StockMovement
	nextMovementID int64
	registers      map[string]entity.CashRegister
	cashMovements  []entity.CashMovement
	nextCashID     int64
	credit         []entity.CustomerCreditMovement
	records        []entity.ReturnRecord
	branches       map[string]entity.Branch
	lineItems      map[string]entity.SaleLineItem
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		levels:    make(map[levelKey]entity.StockLevel),
		registers: make(map[string]entity.CashRegister),
		branches:  make(map[string]entity.Branch),
		lineItems: make(map[string]entity.SaleLineItem),
	}
}

type snapshot struct {
	levels         map[levelKey]entity.StockLevel
	registers      map[string]entity.CashRegister
	movements      int
	nextMovementID int64
	cashMovements  int
	nextCashID     int64
	credit         int
	records        int
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		levels:         maps.Clone(s.levels),
		registers:      maps.Clone(s.registers),
		movements:      len(s.movements),
		nextMovementID: s.nextMovementID,
		cashMovements:  len(s.cashMovements),
		nextCashID:     s.nextCashID,
		credit:         len(s.credit),
		records:        len(s.records),
	}
}

// restore descarta todo lo escrito después de snap. Los logs son append-only, basta truncar.
func (s *Store) restore(snap snapshot) {
	s.levels = snap.levels
	s.registers = snap.registers
	s.movements = s.movements[:snap.movements]
	s.nextMovementID = snap.nextMovementID
	s.cashMovements = s.cashMovements[:snap.cashMovements]
	s.nextCashID = snap.nextCashID
	s.credit = s.credit[:snap.credit]
	s.records = s.records[:snap.records]
}

// Run ejecuta fn con los libros atados a la transacción. Si fn falla o ctx se cancela, hace rollback.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Ledgers) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	err := fn(s.ledgers(true))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Ledgers devuelve vistas de solo lectura fuera de transacción; cada llamada toma el mutex.
// No usar dentro de Run: el mutex no es reentrante.
func (s *Store) Ledgers() repository.Ledgers {
	return s.ledgers(false)
}

func (s *Store) ledgers(inTx bool) repository.Ledgers {
	v := view{s: s, inTx: inTx}
	return repository.Ledgers{
		Levels:    levelRepo{v},
		Movements: movementRepo{v},
		Cash:      cashRepo{v},
		Credit:    creditRepo{v},
		Records:   recordRepo{v},
	}
}

type view struct {
	s    *Store
	inTx bool
}

// guard toma el mutex salvo que la vista ya corra dentro de Run.
func (v view) guard() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

// ── Datos de arranque ──────────────────────────────────────────────────────

// AddBranch registra una sucursal.
func (s *Store) AddBranch(code, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches[code] = entity.Branch{Code: code, Name: name}
}

// AddSaleLineItem registra una línea de venta (colaborador externo de solo lectura).
func (s *Store) AddSaleLineItem(item entity.SaleLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineItems[item.ID] = item
}

// SeedStock fija el stock inicial escribiendo un ajuste manual, así la cadena de movimientos queda consistente.
func (s *Store) SeedStock(productID, productName, branch string, good, failed int, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := levelKey{productID, branch}
	prev := s.levels[key]
	s.nextMovementID++
	s.movements = append(s.movements, entity.StockMovement{
		ID:                s.nextMovementID,
		Branch:            branch,
		ProductID:         productID,
		ProductName:       productName,
		StockGoodBefore:   prev.StockGood,
		StockGoodAfter:    good,
		StockFailedBefore: prev.StockFailed,
		StockFailedAfter:  failed,
		Type:              entity.MovementManualAdjustment,
		Reference:         "seed",
		CreatedAt:         at,
	})
	s.levels[key] = entity.StockLevel{ProductID: productID, Branch: branch, StockGood: good, StockFailed: failed, UpdatedAt: at}
}

// SeedCash abre la caja de la sucursal con un saldo inicial.
func (s *Store) SeedCash(branch string, balance decimal.Decimal, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.registers[branch].Balance
	s.nextCashID++
	s.cashMovements = append(s.cashMovements, entity.CashMovement{
		ID:            s.nextCashID,
		Branch:        branch,
		Type:          entity.CashMovementOpening,
		Amount:        balance.Sub(prev),
		BalanceBefore: prev,
		BalanceAfter:  balance,
		Concept:       "apertura",
		CreatedAt:     at,
	})
	s.registers[branch] = entity.CashRegister{Branch: branch, Balance: balance, UpdatedAt: at}
}

// ── Consultas para tests ───────────────────────────────────────────────────

// Level devuelve el stock actual (cero si no existe la fila).
func (s *Store) Level(productID, branch string) entity.StockLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.levels[levelKey{productID, branch}]; ok {
		return l
	}
	return entity.StockLevel{ProductID: productID, Branch: branch}
}

// Movements devuelve una copia del historial de stock en orden de escritura.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.movements...)
}

// CashMovements devuelve una copia del historial de caja en orden de escritura.
func (s *Store) CashMovements() []entity.CashMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.CashMovement(nil), s.cashMovements...)
}

// CreditMovements devuelve una copia de los movimientos de cuenta corriente.
func (s *Store) CreditMovements() []entity.CustomerCreditMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.CustomerCreditMovement(nil), s.credit...)
}

// Records devuelve una copia de los registros de devolución/reemplazo.
func (s *Store) Records() []entity.ReturnRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ReturnRecord(nil), s.records...)
}

func newID() string { return uuid.New().String() }
