package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// FailureAnalyticsRequest parámetros para GET /api/analytics/failures.
type FailureAnalyticsRequest struct {
	Branch string `query:"branch"` // vacío = todas las sucursales
	From   string `query:"from"`   // RFC3339 o YYYY-MM-DD; vacío = desde el inicio
	To     string `query:"to"`     // vacío = ahora
}

// FailureSummaryDTO totales del período.
type FailureSummaryDTO struct {
	TotalEvents       int             `json:"total_events"`
	DistinctProducts  int             `json:"distinct_products"`
	DistinctCustomers int             `json:"distinct_customers"`
	DistinctBranches  int             `json:"distinct_branches"`
	Returns           int             `json:"returns"`
	Replacements      int             `json:"replacements"`
	TotalRefunded     decimal.Decimal `json:"total_refunded"`
	AverageRefund     decimal.Decimal `json:"average_refund"`
}

// ProductFailureDTO fallas por producto (top 10).
type ProductFailureDTO struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalEvents   int             `json:"total_events"`
	Returns       int             `json:"returns"`
	Replacements  int             `json:"replacements"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
}

// BranchFailureDTO fallas por sucursal.
type BranchFailureDTO struct {
	Branch            string          `json:"branch"`
	TotalEvents       int             `json:"total_events"`
	DistinctProducts  int             `json:"distinct_products"`
	DistinctCustomers int             `json:"distinct_customers"`
	TotalRefunded     decimal.Decimal `json:"total_refunded"`
}

// CustomerFailureDTO fallas por cliente (top 20).
type CustomerFailureDTO struct {
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	TotalEvents   int             `json:"total_events"`
	LastFailureAt time.Time       `json:"last_failure_at"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
}

// CustomerProductFailureDTO cruce cliente × producto para detectar reincidencias.
type CustomerProductFailureDTO struct {
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	FailureCount  int             `json:"failure_count"`
	LastFailureAt time.Time       `json:"last_failure_at"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
}

// FailureAnalyticsDTO respuesta de la analítica de fallas. Las listas nunca son null.
type FailureAnalyticsDTO struct {
	Branch            string                      `json:"branch,omitempty"`
	From              time.Time                   `json:"from"`
	To                time.Time                   `json:"to"`
	Summary           FailureSummaryDTO           `json:"summary"`
	ByProduct         []ProductFailureDTO         `json:"by_product"`
	ByBranch          []BranchFailureDTO          `json:"by_branch"`
	ByCustomer        []CustomerFailureDTO        `json:"by_customer"`
	ByCustomerProduct []CustomerProductFailureDTO `json:"by_customer_product"`
}
