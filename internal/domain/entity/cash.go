package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja.
const (
	CashMovementRefundEgress = "egreso_devolucion" // egreso por devolución en efectivo
	CashMovementOpening      = "ingreso_apertura"  // saldo inicial de la caja
)

// CashRegister saldo de caja de una sucursal. Siempre igual al BalanceAfter del último CashMovement.
type CashRegister struct {
	Branch    string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

// CashMovement registro inmutable de la caja. Amount es siempre positivo; el signo lo da Type.
type CashMovement struct {
	ID            int64
	Branch        string
	Type          string
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Concept       string
	ActorEmail    string
	CreatedAt     time.Time
}

// IsEgress indica si el tipo de movimiento resta del saldo.
func IsEgress(movementType string) bool {
	return strings.HasPrefix(movementType, "egreso")
}

// SignedAmount devuelve Amount con el signo del tipo de movimiento.
func (m CashMovement) SignedAmount() decimal.Decimal {
	if IsEgress(m.Type) {
		return m.Amount.Neg()
	}
	return m.Amount
}
