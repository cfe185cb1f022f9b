package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de cuenta corriente.
const (
	CreditMovementReturn = "devolucion"
)

// CustomerCreditMovement asiento inmutable de la cuenta corriente de un cliente en una sucursal.
// Debit aumenta lo que el cliente debe; Haber lo reduce (o aumenta lo que el negocio le debe).
type CustomerCreditMovement struct {
	ID           string
	Branch       string
	CustomerID   string
	CustomerName string
	Type         string
	Debit        decimal.Decimal
	Haber        decimal.Decimal
	Description  string
	CreatedAt    time.Time
}

// CustomerCreditAccount vista derivada: saldo = Σ debit − Σ haber.
type CustomerCreditAccount struct {
	Branch       string
	CustomerID   string
	CustomerName string
	TotalDebit   decimal.Decimal
	TotalHaber   decimal.Decimal
	Balance      decimal.Decimal
}
