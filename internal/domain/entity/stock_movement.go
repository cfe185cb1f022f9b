package entity

import "time"

// MovementType tipo de movimiento de stock.
type MovementType string

// Tipos de movimiento de stock.
const (
	MovementReturnToGood     MovementType = "return_to_good"
	MovementReturnToFailed   MovementType = "return_to_failed"
	MovementReplacement      MovementType = "replacement"
	MovementSale             MovementType = "sale"
	MovementManualAdjustment MovementType = "manual_adjustment"
	MovementTransferIn       MovementType = "transfer_in"
	MovementTransferOut      MovementType = "transfer_out"
)

// IsValid indica si el tipo pertenece al conjunto cerrado de movimientos.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementReturnToGood, MovementReturnToFailed, MovementReplacement, MovementSale,
		MovementManualAdjustment, MovementTransferIn, MovementTransferOut:
		return true
	}
	return false
}

// StockDelta variación firmada de stock bueno y de fallas.
type StockDelta struct {
	GoodDelta   int
	FailedDelta int
}

// IsZero indica si el delta no mueve stock.
func (d StockDelta) IsZero() bool {
	return d.GoodDelta == 0 && d.FailedDelta == 0
}

// StockMovement registro inmutable del historial de stock (delta log encadenado).
// Para un (producto, sucursal), ordenando por (CreatedAt, ID), los campos *Before de cada fila
// coinciden con los *After de la fila anterior.
type StockMovement struct {
	ID                int64
	Branch            string
	ProductID         string
	ProductName       string
	CustomerID        string
	CustomerName      string
	StockGoodBefore   int
	StockGoodAfter    int
	StockFailedBefore int
	StockFailedAfter  int
	Type              MovementType
	Reference         string // número de venta, traslado, nota de ajuste
	ActorEmail        string
	Notes             string
	CreatedAt         time.Time
}

// MovementContext datos descriptivos del movimiento que no afectan el cálculo.
type MovementContext struct {
	Type         MovementType
	ProductName  string
	CustomerID   string
	CustomerName string
	Reference    string
	ActorEmail   string
	Notes        string
}

// StockQuantities par de contadores de stock; respuesta de la reconstrucción histórica.
type StockQuantities struct {
	StockGood   int
	StockFailed int
}
