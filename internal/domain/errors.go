package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidStockOperation  = errors.New("operación de stock inválida: el stock quedaría negativo")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrStorage                = errors.New("error de almacenamiento")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrWarrantyExpired        = fmt.Errorf("%w: garantía vencida", ErrInvalidInput)
	ErrConcurrentModification = fmt.Errorf("%w: conflicto de concurrencia", ErrStorage)
)

// ValidationError detalla qué campo de la entrada es inválido. Unwrap devuelve ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entrada inválida: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StockError describe un movimiento rechazado. Unwrap devuelve ErrInvalidStockOperation
// o ErrInsufficientStock según Err.
type StockError struct {
	Err         error
	ProductID   string
	Branch      string
	StockGood   int
	StockFailed int
	GoodDelta   int
	FailedDelta int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%v (producto %s, sucursal %s, stock %d/%d, delta %+d/%+d)",
		e.Err, e.ProductID, e.Branch, e.StockGood, e.StockFailed, e.GoodDelta, e.FailedDelta)
}

func (e *StockError) Unwrap() error { return e.Err }

// StorageError envuelve un error del almacenamiento. errors.Is(err, ErrStorage) es verdadero
// y la causa original sigue disponible para logs.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Storage envuelve err como StorageError; devuelve nil si err es nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
