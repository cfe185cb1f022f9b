package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/garantias-api/internal/application/analytics"
	"github.com/jhoicas/garantias-api/internal/application/inventory"
	"github.com/jhoicas/garantias-api/internal/application/returns"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Returns          *returns.Service
	RegisterMovement *inventory.RegisterMovementUseCase
	StockHistory     *inventory.StockHistoryUseCase
	FailureAnalytics *analytics.FailureUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token con email del operador.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	returnsHandler := NewReturnsHandler(deps.Returns)
	api.Post("/returns", returnsHandler.ProcessReturn)
	api.Get("/returns", returnsHandler.ListRecords)
	api.Post("/replacements", returnsHandler.ProcessReplacement)
	api.Get("/sales/:saleId/returnable-items", returnsHandler.ReturnableItems)
	api.Get("/sale-items/:id/warranty", returnsHandler.WarrantyStatus)
	api.Get("/customers/:id/credit", returnsHandler.CreditAccount)
	api.Get("/branches/:branch/cash", returnsHandler.Cash)

	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockHistory)
	api.Post("/inventory/movements", inventoryHandler.RegisterMovement)
	api.Get("/stock/as-of", inventoryHandler.StockAsOf)
	api.Get("/stock/snapshot", inventoryHandler.Snapshot)
	api.Get("/stock/movements", inventoryHandler.ListMovements)

	analyticsHandler := NewAnalyticsHandler(deps.FailureAnalytics)
	api.Get("/analytics/failures", analyticsHandler.GetFailures)
}
