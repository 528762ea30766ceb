package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Stock     *StockHandler
	JWTSecret string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token: el
// actor del token firma las entradas del ledger.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Products: alta del registro y desactivación (soft delete)
	products := protected.Group("/products")
	products.Post("/", deps.Stock.CreateProduct)
	products.Delete("/:productID", deps.Stock.DeactivateProduct)

	// Stock: mutaciones y consultas
	stockGroup := protected.Group("/stock")
	stockGroup.Get("/movements", deps.Stock.GetHistory)
	stockGroup.Get("/low", deps.Stock.GetLowStock)
	stockGroup.Post("/:productID/add", deps.Stock.AddStock)
	stockGroup.Post("/:productID/remove", deps.Stock.RemoveStock)
	stockGroup.Get("/:productID/status", deps.Stock.GetStatus)
}
