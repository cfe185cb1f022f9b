package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditMovementDTO movimiento de cuenta corriente.
type CreditMovementDTO struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Debit       decimal.Decimal `json:"debit"`
	Haber       decimal.Decimal `json:"haber"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// CreditAccountDTO cuenta corriente del cliente en una sucursal. Balance = Σ debit − Σ haber.
type CreditAccountDTO struct {
	Branch       string              `json:"branch"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name,omitempty"`
	TotalDebit   decimal.Decimal     `json:"total_debit"`
	TotalHaber   decimal.Decimal     `json:"total_haber"`
	Balance      decimal.Decimal     `json:"balance"`
	Movements    []CreditMovementDTO `json:"movements"`
}

// CashMovementDTO movimiento de caja.
type CashMovementDTO struct {
	ID            int64           `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Concept       string          `json:"concept"`
	ActorEmail    string          `json:"actor_email,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// CashRegisterDTO caja de una sucursal.
type CashRegisterDTO struct {
	Branch    string            `json:"branch"`
	Balance   decimal.Decimal   `json:"balance"`
	UpdatedAt time.Time         `json:"updated_at"`
	Movements []CashMovementDTO `json:"movements"`
}
