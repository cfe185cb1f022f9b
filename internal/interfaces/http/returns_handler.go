package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/garantias-api/internal/application/dto"
	"github.com/jhoicas/garantias-api/internal/application/returns"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

// ReturnsHandler devoluciones, reemplazos y consultas de garantía y libros (protegido).
type ReturnsHandler struct {
	svc *returns.Service
}

// NewReturnsHandler construye el handler.
func NewReturnsHandler(svc *returns.Service) *ReturnsHandler {
	return &ReturnsHandler{svc: svc}
}

// ProcessReturn godoc
// @Summary      Registrar devolución
// @Description  Mueve la unidad a stock bueno o de fallas y reintegra en cuenta corriente o en efectivo, en una sola transacción.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ProcessReturnRequest  true  "línea de venta, destino del stock, forma y monto del reintegro"
// @Success      201   {object}  dto.ReturnRecordDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnsHandler) ProcessReturn(c *fiber.Ctx) error {
	var in dto.ProcessReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	rec, err := h.svc.ProcessReturn(c.Context(), returns.ReturnInput{
		SaleLineItemID: in.SaleLineItemID,
		Branch:         in.Branch,
		Disposition:    entity.StockDisposition(in.StockDisposition),
		RefundMethod:   entity.RefundMethod(in.RefundMethod),
		RefundAmount:   in.RefundAmount,
		ActorEmail:     GetActorEmail(c),
		Notes:          in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReturnRecordDTO(rec))
}

// ProcessReplacement godoc
// @Summary      Registrar reemplazo
// @Description  Entrega unidades nuevas a cambio de las fallidas: stock bueno −cantidad, stock de fallas +cantidad. Sin movimiento de dinero.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ProcessReplacementRequest  true  "línea de venta y cantidad"
// @Success      201   {object}  dto.ReturnRecordDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/replacements [post]
func (h *ReturnsHandler) ProcessReplacement(c *fiber.Ctx) error {
	var in dto.ProcessReplacementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	rec, err := h.svc.ProcessReplacement(c.Context(), returns.ReplacementInput{
		SaleLineItemID: in.SaleLineItemID,
		Branch:         in.Branch,
		Quantity:       in.Quantity,
		ActorEmail:     GetActorEmail(c),
		Notes:          in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReturnRecordDTO(rec))
}

// ListRecords godoc
// @Summary      Listar devoluciones y reemplazos
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        branch  query     string  false  "sucursal (vacío = todas)"
// @Param        from    query     string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to      query     string  false  "RFC3339 o YYYY-MM-DD (fin del día)"
// @Param        limit   query     int     false  "default 50, max 500"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.RecordListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/returns [get]
func (h *ReturnsHandler) ListRecords(c *fiber.Ctx) error {
	var req dto.RecordListRequest
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
	recs, err := h.svc.ListRecords(c.Context(), repository.RecordFilter{
		Branch: req.Branch, From: from, To: to, Limit: req.Limit, Offset: req.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.ReturnRecordDTO, 0, len(recs))
	for _, r := range recs {
		items = append(items, dto.NewReturnRecordDTO(r))
	}
	return c.JSON(dto.RecordListResponse{Items: items, Page: dto.PageResponse{Limit: req.Limit, Offset: req.Offset}})
}

// ReturnableItems godoc
// @Summary      Líneas de una venta con estado de garantía
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        saleId  path      string  true  "ID de la venta"
// @Success      200     {array}   dto.ReturnableItemDTO
// @Router       /api/sales/{saleId}/returnable-items [get]
func (h *ReturnsHandler) ReturnableItems(c *fiber.Ctx) error {
	items, err := h.svc.ReturnableItems(c.Context(), c.Params("saleId"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ReturnableItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ReturnableItemDTO{
			SaleLineItemID: it.Item.ID,
			SaleID:         it.Item.SaleID,
			NumeroVenta:    it.Item.NumeroVenta,
			Branch:         it.Item.Branch,
			ProductID:      it.Item.ProductID,
			ProductName:    it.Item.ProductName,
			UnitPrice:      it.Item.UnitPrice,
			Quantity:       it.Item.Quantity,
			SoldAt:         it.Item.SoldAt,
			CustomerID:     it.Item.CustomerID,
			CustomerName:   it.Item.CustomerName,
			PaymentMethod:  it.Item.PaymentMethod,
			DaysSinceSale:  it.Warranty.DaysSinceSale,
			WarrantyStatus: string(it.Warranty.Status),
		})
	}
	return c.JSON(out)
}

// WarrantyStatus godoc
// @Summary      Estado de garantía de una línea de venta
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path      string  true  "ID de la línea de venta"
// @Success      200  {object}  dto.WarrantyStatusDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sale-items/{id}/warranty [get]
func (h *ReturnsHandler) WarrantyStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	res, err := h.svc.GetWarrantyStatus(c.Context(), id, time.Time{})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.WarrantyStatusDTO{SaleLineItemID: id, DaysSinceSale: res.DaysSinceSale, Status: string(res.Status)})
}

// CreditAccount godoc
// @Summary      Cuenta corriente de un cliente en una sucursal
// @Tags         ledgers
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID del cliente"
// @Param        branch  query     string  true   "sucursal"
// @Param        limit   query     int     false  "default 50, max 500"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.CreditAccountDTO
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/credit [get]
func (h *ReturnsHandler) CreditAccount(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badParams(c)
	}
	if err := validateStruct(page); err != nil {
		return writeError(c, err)
	}
	view, err := h.svc.CreditAccount(c.Context(), c.Query("branch"), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CreditAccountDTO{
		Branch:       view.Account.Branch,
		CustomerID:   view.Account.CustomerID,
		CustomerName: view.Account.CustomerName,
		TotalDebit:   view.Account.TotalDebit,
		TotalHaber:   view.Account.TotalHaber,
		Balance:      view.Account.Balance,
		Movements:    make([]dto.CreditMovementDTO, 0, len(view.Movements)),
	}
	for _, m := range view.Movements {
		out.Movements = append(out.Movements, dto.CreditMovementDTO{
			ID: m.ID, Type: m.Type, Debit: m.Debit, Haber: m.Haber, Description: m.Description, Timestamp: m.CreatedAt,
		})
	}
	return c.JSON(out)
}

// Cash godoc
// @Summary      Caja de una sucursal
// @Tags         ledgers
// @Security     Bearer
// @Produce      json
// @Param        branch  path      string  true   "sucursal"
// @Param        limit   query     int     false  "default 50, max 500"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.CashRegisterDTO
// @Router       /api/branches/{branch}/cash [get]
func (h *ReturnsHandler) Cash(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badParams(c)
	}
	if err := validateStruct(page); err != nil {
		return writeError(c, err)
	}
	view, err := h.svc.Cash(c.Context(), c.Params("branch"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CashRegisterDTO{
		Branch:    view.Register.Branch,
		Balance:   view.Register.Balance,
		UpdatedAt: view.Register.UpdatedAt,
		Movements: make([]dto.CashMovementDTO, 0, len(view.Movements)),
	}
	for _, m := range view.Movements {
		out.Movements = append(out.Movements, dto.CashMovementDTO{
			ID: m.ID, Type: m.Type, Amount: m.Amount, BalanceBefore: m.BalanceBefore, BalanceAfter: m.BalanceAfter,
			Concept: m.Concept, ActorEmail: m.ActorEmail, Timestamp: m.CreatedAt,
		})
	}
	return c.JSON(out)
}
