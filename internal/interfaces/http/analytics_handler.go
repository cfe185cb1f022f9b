package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/garantias-api/internal/application/analytics"
	"github.com/jhoicas/garantias-api/internal/application/dto"
)

// AnalyticsHandler analítica de fallas sobre devoluciones y reemplazos.
type AnalyticsHandler struct {
	uc *analytics.FailureUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.FailureUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetFailures godoc
// @Summary      Analítica de fallas
// @Description  Resumen, top 10 productos, sucursales, top 20 clientes y cruce cliente × producto
//               sobre devoluciones y reemplazos procesados en el rango.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        branch  query     string  false  "sucursal (vacío = todas)"
// @Param        from    query     string  false  "RFC3339 o YYYY-MM-DD. Default: sin límite."
// @Param        to      query     string  false  "RFC3339 o YYYY-MM-DD (fin del día). Default: ahora."
// @Success      200     {object}  dto.FailureAnalyticsDTO
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      503     {object}  dto.ErrorResponse
// @Router       /api/analytics/failures [get]
func (h *AnalyticsHandler) GetFailures(c *fiber.Ctx) error {
	var req dto.FailureAnalyticsRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c)
	}
	from, err := parseDate("from", req.From, false)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDate("to", req.To, true)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.uc.GetFailureAnalytics(c.Context(), analytics.FailureQuery{Branch: req.Branch, From: from, To: to})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
