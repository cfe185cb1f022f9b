package dto

import (
	"time"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// manual_adjustment usa good_delta/failed_delta con signo; sale y transfer usan quantity.
type RegisterMovementRequest struct {
	Type        string `json:"type" validate:"required,oneof=manual_adjustment sale transfer"`
	Branch      string `json:"branch" validate:"required"`
	ToBranch    string `json:"to_branch,omitempty" validate:"required_if=Type transfer"`
	ProductID   string `json:"product_id" validate:"required"`
	ProductName string `json:"product_name,omitempty"`
	GoodDelta   int    `json:"good_delta,omitempty"`
	FailedDelta int    `json:"failed_delta,omitempty"`
	Quantity    int    `json:"quantity,omitempty" validate:"min=0"`
	Reference   string `json:"reference,omitempty"`
	Notes       string `json:"notes,omitempty" validate:"max=500"`
}

// StockMovementDTO movimiento del historial de stock.
type StockMovementDTO struct {
	ID                int64     `json:"id"`
	Branch            string    `json:"branch"`
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name,omitempty"`
	CustomerID        string    `json:"customer_id,omitempty"`
	CustomerName      string    `json:"customer_name,omitempty"`
	StockGoodBefore   int       `json:"stock_good_before"`
	StockGoodAfter    int       `json:"stock_good_after"`
	StockFailedBefore int       `json:"stock_failed_before"`
	StockFailedAfter  int       `json:"stock_failed_after"`
	MovementType      string    `json:"movement_type"`
	Reference         string    `json:"reference,omitempty"`
	ActorEmail        string    `json:"actor_email,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// NewStockMovementDTO convierte la entidad al DTO de respuesta.
func NewStockMovementDTO(m *entity.StockMovement) StockMovementDTO {
	return StockMovementDTO{
		ID:                m.ID,
		Branch:            m.Branch,
		ProductID:         m.ProductID,
		ProductName:       m.ProductName,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		StockGoodBefore:   m.StockGoodBefore,
		StockGoodAfter:    m.StockGoodAfter,
		StockFailedBefore: m.StockFailedBefore,
		StockFailedAfter:  m.StockFailedAfter,
		MovementType:      string(m.Type),
		Reference:         m.Reference,
		ActorEmail:        m.ActorEmail,
		Notes:             m.Notes,
		Timestamp:         m.CreatedAt,
	}
}

// StockMovementsDTO lista de movimientos.
func StockMovementsDTO(movs []*entity.StockMovement) []StockMovementDTO {
	out := make([]StockMovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, NewStockMovementDTO(m))
	}
	return out
}

// StockAsOfRequest parámetros para GET /api/stock/as-of.
type StockAsOfRequest struct {
	ProductID string `query:"product_id" validate:"required"`
	Branch    string `query:"branch" validate:"required"`
	Date      string `query:"date" validate:"required"` // RFC3339 o YYYY-MM-DD (fin del día)
}

// StockAsOfDTO stock reconstruido de un producto a una fecha.
type StockAsOfDTO struct {
	ProductID   string    `json:"product_id"`
	Branch      string    `json:"branch"`
	Date        time.Time `json:"date"`
	StockGood   int       `json:"stock_good"`
	StockFailed int       `json:"stock_failed"`
}

// SnapshotRequest parámetros para GET /api/stock/snapshot.
type SnapshotRequest struct {
	Branch string `query:"branch" validate:"required"`
	Date   string `query:"date" validate:"required"`
}

// SnapshotItemDTO stock de un producto dentro de la foto de sucursal.
type SnapshotItemDTO struct {
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name,omitempty"`
	StockGood      int       `json:"stock_good"`
	StockFailed    int       `json:"stock_failed"`
	LastMovementAt time.Time `json:"last_movement_at"`
}

// StockSnapshotDTO catálogo de una sucursal a una fecha.
type StockSnapshotDTO struct {
	Branch string            `json:"branch"`
	Date   time.Time         `json:"date"`
	Items  []SnapshotItemDTO `json:"items"`
}

// MovementListRequest parámetros para GET /api/stock/movements.
type MovementListRequest struct {
	Branch    string `query:"branch"`
	ProductID string `query:"product_id"`
	From      string `query:"from"`
	To        string `query:"to"`
	PageRequest
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Items []StockMovementDTO `json:"items"`
	Page  PageResponse       `json:"page"`
}
