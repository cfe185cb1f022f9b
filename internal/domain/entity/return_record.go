package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind tipo de operación registrada.
type RecordKind string

const (
	KindReturn      RecordKind = "return"
	KindReplacement RecordKind = "replacement"
)

// RefundMethod forma de reintegro de una devolución.
type RefundMethod string

const (
	RefundCustomerCredit RefundMethod = "customer_credit"
	RefundCash           RefundMethod = "cash"
)

// IsValid indica si el método de reintegro es uno de los permitidos.
func (m RefundMethod) IsValid() bool {
	return m == RefundCustomerCredit || m == RefundCash
}

// StockDisposition destino del producto devuelto.
type StockDisposition string

const (
	DispositionGood   StockDisposition = "good"
	DispositionFailed StockDisposition = "failed"
)

// IsValid indica si el destino es uno de los permitidos.
func (d StockDisposition) IsValid() bool {
	return d == DispositionGood || d == DispositionFailed
}

// ReturnRecord registro inmutable de una devolución o reemplazo.
// RefundMethod y RefundAmount solo se informan cuando Kind = return; Quantity solo en reemplazos.
type ReturnRecord struct {
	ID             string
	Branch         string
	SaleID         string
	SaleLineItemID string
	NumeroVenta    string
	ProductID      string
	ProductName    string
	CustomerID     string
	CustomerName   string
	Kind           RecordKind
	RefundMethod   *RefundMethod
	RefundAmount   *decimal.Decimal
	Quantity       int
	Notes          string
	ActorEmail     string
	SaleTimestamp  time.Time
	ProcessedAt    time.Time
}
