// Package warranty evalúa el estado de garantía de una línea de venta.
// Es una función pura: no consulta almacenamiento ni falla.
package warranty

import "time"

// DefaultWindowDays ventana de garantía estándar.
const DefaultWindowDays = 90

// Status estado de garantía.
type Status string

const (
	StatusVigente Status = "vigente"
	StatusVencida Status = "vencida"
)

// Result resultado de la evaluación.
type Result struct {
	DaysSinceSale int    `json:"days_since_sale"`
	Status        Status `json:"status"`
}

// Evaluate calcula los días completos transcurridos desde la venta y el estado con la ventana estándar.
func Evaluate(soldAt, now time.Time) Result {
	return EvaluateWithWindow(soldAt, now, DefaultWindowDays)
}

// EvaluateWithWindow como Evaluate pero con una ventana configurable.
// vigente si días <= windowDays. Una fecha de venta futura cuenta como 0 días.
func EvaluateWithWindow(soldAt, now time.Time, windowDays int) Result {
	days := 0
	if elapsed := now.Sub(soldAt); elapsed > 0 {
		days = int(elapsed / (24 * time.Hour))
	}
	status := StatusVencida
	if days <= windowDays {
		status = StatusVigente
	}
	return Result{DaysSinceSale: days, Status: status}
}
