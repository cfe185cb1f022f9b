package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FailureFilter sucursal opcional y rango inclusivo sobre ReturnRecord.ProcessedAt.
type FailureFilter struct {
	Branch string
	From   time.Time
	To     time.Time
}

// ProductFailureResult fallas agregadas por producto.
type ProductFailureResult struct {
	ProductID     string
	ProductName   string
	TotalEvents   int
	Returns       int
	Replacements  int
	TotalRefunded decimal.Decimal
}

// BranchFailureResult fallas agregadas por sucursal.
type BranchFailureResult struct {
	Branch            string
	TotalEvents       int
	DistinctProducts  int
	DistinctCustomers int
	TotalRefunded     decimal.Decimal
}

// CustomerFailureResult fallas agregadas por cliente (todas las sucursales).
type CustomerFailureResult struct {
	CustomerID    string
	CustomerName  string
	TotalEvents   int
	LastFailureAt time.Time
	TotalRefunded decimal.Decimal
}

// CustomerProductFailureResult tabla cruzada (cliente, producto).
type CustomerProductFailureResult struct {
	CustomerID    string
	CustomerName  string
	ProductID     string
	ProductName   string
	FailureCount  int
	LastFailureAt time.Time
	TotalRefunded decimal.Decimal
}

// FailureSummaryResult resumen general.
type FailureSummaryResult struct {
	TotalEvents       int
	DistinctProducts  int
	DistinctCustomers int
	DistinctBranches  int
	Returns           int
	Replacements      int
	TotalRefunded     decimal.Decimal
	AverageRefund     decimal.Decimal // promedio sobre devoluciones con monto
}

// FailureAnalyticsRepository consultas de solo lectura sobre devoluciones y reemplazos.
// Todas devuelven colecciones vacías o ceros cuando no hay filas.
type FailureAnalyticsRepository interface {
	TopProducts(ctx context.Context, f FailureFilter, limit int) ([]ProductFailureResult, error)
	ByBranch(ctx context.Context, f FailureFilter) ([]BranchFailureResult, error)
	TopCustomers(ctx context.Context, f FailureFilter, limit int) ([]CustomerFailureResult, error)
	ByCustomerProduct(ctx context.Context, f FailureFilter) ([]CustomerProductFailureResult, error)
	Summary(ctx context.Context, f FailureFilter) (FailureSummaryResult, error)
}
