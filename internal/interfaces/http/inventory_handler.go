package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/garantias-api/internal/application/dto"
	"github.com/jhoicas/garantias-api/internal/application/inventory"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

// InventoryHandler maneja los movimientos de stock y la reconstrucción histórica (protegido).
type InventoryHandler struct {
	uc      *inventory.RegisterMovementUseCase
	history *inventory.StockHistoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, history *inventory.StockHistoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, history: history}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterMovementRequest  true  "manual_adjustment (good_delta/failed_delta), sale o transfer (quantity, to_branch)"
// @Success      201   {array}   dto.StockMovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	movs, err := h.uc.RegisterMovement(c.Context(), inventory.MovementInput{
		Type:        in.Type,
		Branch:      in.Branch,
		ToBranch:    in.ToBranch,
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		GoodDelta:   in.GoodDelta,
		FailedDelta: in.FailedDelta,
		Quantity:    in.Quantity,
		Reference:   in.Reference,
		Notes:       in.Notes,
		ActorEmail:  GetActorEmail(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockMovementsDTO(movs))
}

// StockAsOf godoc
// @Summary      Stock de un producto a una fecha
// @Description  Reconstruye stock bueno y de fallas desde el historial. Sin movimientos previos devuelve 0/0.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query     string  true  "producto"
// @Param        branch      query     string  true  "sucursal"
// @Param        date        query     string  true  "RFC3339 o YYYY-MM-DD (fin del día)"
// @Success      200         {object}  dto.StockAsOfDTO
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/stock/as-of [get]
func (h *InventoryHandler) StockAsOf(c *fiber.Ctx) error {
	var req dto.StockAsOfRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c)
	}
	if err := validateStruct(req); err != nil {
		return writeError(c, err)
	}
	at, err := parseDate("date", req.Date, true)
	if err != nil {
		return writeError(c, err)
	}
	q, err := h.history.StockAsOf(c.Context(), req.ProductID, req.Branch, *at)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockAsOfDTO{
		ProductID: req.ProductID, Branch: req.Branch, Date: *at, StockGood: q.StockGood, StockFailed: q.StockFailed,
	})
}

// Snapshot godoc
// @Summary      Catálogo de una sucursal a una fecha
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch  query     string  true  "sucursal"
// @Param        date    query     string  true  "RFC3339 o YYYY-MM-DD (fin del día)"
// @Success      200     {object}  dto.StockSnapshotDTO
// @Router       /api/stock/snapshot [get]
func (h *InventoryHandler) Snapshot(c *fiber.Ctx) error {
	var req dto.SnapshotRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c)
	}
	if err := validateStruct(req); err != nil {
		return writeError(c, err)
	}
	at, err := parseDate("date", req.Date, true)
	if err != nil {
		return writeError(c, err)
	}
	stock, err := h.history.SnapshotAsOf(c.Context(), req.Branch, *at)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.StockSnapshotDTO{Branch: req.Branch, Date: *at, Items: make([]dto.SnapshotItemDTO, 0, len(stock))}
	for _, p := range stock {
		out.Items = append(out.Items, dto.SnapshotItemDTO{
			ProductID: p.ProductID, ProductName: p.ProductName,
			StockGood: p.StockGood, StockFailed: p.StockFailed, LastMovementAt: p.LastMovementAt,
		})
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch      query     string  false  "sucursal"
// @Param        product_id  query     string  false  "producto"
// @Param        from        query     string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to          query     string  false  "RFC3339 o YYYY-MM-DD (fin del día)"
// @Param        limit       query     int     false  "default 50, max 500"
// @Param        offset      query     int     false  "desplazamiento"
// @Success      200         {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var req dto.MovementListRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c)
	}
	if err := validateStruct(req); err != nil {
		return writeError(c, err)
	}
	req.DefaultPage()
	from, err := parseDate("from", req.From, false)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDate("to", req.To, true)
	if err != nil {
		return writeError(c, err)
	}
	movs, err := h.history.ListMovements(c.Context(), repository.MovementFilter{
		Branch: req.Branch, ProductID: req.ProductID, From: from, To: to, Limit: req.Limit, Offset: req.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: dto.StockMovementsDTO(movs),
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	})
}

