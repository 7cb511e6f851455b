// Package http es la interfaz HTTP del núcleo: expone las operaciones del
// agregado a los colaboradores de UI/CLI. La presentación en sí queda
// fuera; aquí solo viven handlers delgados sobre los casos de uso.
package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias del router.
type RouterDeps struct {
	Products  *ProductHandler
	Sales     *SaleHandler
	Orders    *OrderHandler
	Analytics *AnalyticsHandler
	Sync      *SyncHandler
}

// Router registra todas las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/products", deps.Products.List)
	api.Post("/products", deps.Products.Create)
	api.Get("/products/:sku", deps.Products.Get)
	api.Put("/products/:sku", deps.Products.Update)
	api.Delete("/products/:sku", deps.Products.Delete)

	api.Get("/sales", deps.Sales.List)
	api.Post("/sales", deps.Sales.Create)

	api.Get("/orders", deps.Orders.List)
	api.Post("/orders", deps.Orders.Create)
	api.Get("/orders/:id", deps.Orders.Get)
	api.Post("/orders/:id/status", deps.Orders.Transition)
	api.Delete("/orders/:id", deps.Orders.Delete)

	api.Get("/kardex", deps.Analytics.KardexAll)
	api.Get("/kardex/:sku", deps.Analytics.Kardex)
	api.Get("/reorder-suggestions", deps.Analytics.ReorderSuggestions)
	api.Get("/reports/full", deps.Analytics.FullReport)
	api.Get("/reports/alerts", deps.Analytics.Alerts)
	api.Get("/reports/low-stock", deps.Analytics.LowStock)
	api.Post("/assistant", deps.Analytics.Assistant)

	api.Get("/sync/status", deps.Sync.Status)
	api.Post("/sync/flush", deps.Sync.Flush)
}
