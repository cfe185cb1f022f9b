package entity

import "time"

// StockLevel stock actual de un producto en una sucursal: unidades vendibles y unidades en fallas.
// Solo lo modifica el registrador de movimientos; es el pliegue del historial de movimientos hasta "ahora".
type StockLevel struct {
	ProductID   string
	Branch      string
	StockGood   int
	StockFailed int
	UpdatedAt   time.Time // timestamp del último movimiento aplicado
}
