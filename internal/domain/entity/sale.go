package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineItem línea de venta (colaborador externo, solo lectura). Inmutable una vez creada.
type SaleLineItem struct {
	ID            string
	SaleID        string
	NumeroVenta   string
	Branch        string
	ProductID     string
	ProductName   string
	UnitPrice     decimal.Decimal
	Quantity      int
	SoldAt        time.Time
	CustomerID    string
	CustomerName  string
	PaymentMethod string
}

// Branch sucursal registrada.
type Branch struct {
	Code string
	Name string
}
