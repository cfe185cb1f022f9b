package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

// ProcessReturnRequest body para POST /api/returns.
// Producto y cliente se toman de la línea de venta; branch es opcional (por defecto la sucursal de la venta).
type ProcessReturnRequest struct {
	SaleLineItemID   string          `json:"sale_line_item_id" validate:"required"`
	Branch           string          `json:"branch,omitempty"`
	StockDisposition string          `json:"stock_disposition" validate:"required,oneof=good failed"`
	RefundMethod     string          `json:"refund_method" validate:"required,oneof=customer_credit cash"`
	RefundAmount     decimal.Decimal `json:"refund_amount"` // > 0 y con hasta dos decimales, lo valida el caso de uso
	Notes            string          `json:"notes,omitempty" validate:"max=500"`
}

// ProcessReplacementRequest body para POST /api/replacements.
type ProcessReplacementRequest struct {
	SaleLineItemID string `json:"sale_line_item_id" validate:"required"`
	Branch         string `json:"branch,omitempty"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	Notes          string `json:"notes,omitempty" validate:"max=500"`
}

// ReturnRecordDTO devolución o reemplazo registrado.
type ReturnRecordDTO struct {
	ID             string           `json:"id"`
	Branch         string           `json:"branch"`
	SaleID         string           `json:"sale_id"`
	SaleLineItemID string           `json:"sale_line_item_id"`
	NumeroVenta    string           `json:"numero_venta"`
	ProductID      string           `json:"product_id"`
	ProductName    string           `json:"product_name"`
	CustomerID     string           `json:"customer_id,omitempty"`
	CustomerName   string           `json:"customer_name,omitempty"`
	Kind           string           `json:"kind"`                    // return | replacement
	RefundMethod   *string          `json:"refund_method,omitempty"` // solo en return
	RefundAmount   *decimal.Decimal `json:"refund_amount,omitempty"` // solo en return
	Quantity       int              `json:"quantity"`
	Notes          string           `json:"notes,omitempty"`
	ActorEmail     string           `json:"actor_email"`
	SaleTimestamp  time.Time        `json:"sale_timestamp"`
	ProcessedAt    time.Time        `json:"processed_at"`
}

// NewReturnRecordDTO convierte la entidad al DTO de respuesta.
func NewReturnRecordDTO(r *entity.ReturnRecord) ReturnRecordDTO {
	out := ReturnRecordDTO{
		ID:             r.ID,
		Branch:         r.Branch,
		SaleID:         r.SaleID,
		SaleLineItemID: r.SaleLineItemID,
		NumeroVenta:    r.NumeroVenta,
		ProductID:      r.ProductID,
		ProductName:    r.ProductName,
		CustomerID:     r.CustomerID,
		CustomerName:   r.CustomerName,
		Kind:           string(r.Kind),
		RefundAmount:   r.RefundAmount,
		Quantity:       r.Quantity,
		Notes:          r.Notes,
		ActorEmail:     r.ActorEmail,
		SaleTimestamp:  r.SaleTimestamp,
		ProcessedAt:    r.ProcessedAt,
	}
	if r.RefundMethod != nil {
		m := string(*r.RefundMethod)
		out.RefundMethod = &m
	}
	return out
}

// RecordListRequest parámetros para GET /api/returns.
type RecordListRequest struct {
	Branch string `query:"branch"`
	From   string `query:"from"` // RFC3339 o YYYY-MM-DD
	To     string `query:"to"`
	PageRequest
}

// RecordListResponse página de registros.
type RecordListResponse struct {
	Items []ReturnRecordDTO `json:"items"`
	Page  PageResponse      `json:"page"`
}

// WarrantyStatusDTO estado de garantía de una línea de venta.
type WarrantyStatusDTO struct {
	SaleLineItemID string `json:"sale_line_item_id"`
	DaysSinceSale  int    `json:"days_since_sale"`
	Status         string `json:"status"` // vigente | vencida
}

// ReturnableItemDTO línea de venta anotada con su garantía.
type ReturnableItemDTO struct {
	SaleLineItemID string          `json:"sale_line_item_id"`
	SaleID         string          `json:"sale_id"`
	NumeroVenta    string          `json:"numero_venta"`
	Branch         string          `json:"branch"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	SoldAt         time.Time       `json:"sold_at"`
	CustomerID     string          `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	DaysSinceSale  int             `json:"days_since_sale"`
	WarrantyStatus string          `json:"warranty_status"`
}
