package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aleburgosdev/mi-inventario/internal/application/costing"
	"github.com/aleburgosdev/mi-inventario/internal/application/dto"
	"github.com/aleburgosdev/mi-inventario/internal/application/forecast"
	"github.com/aleburgosdev/mi-inventario/internal/application/reports"
)

// AnalyticsHandler expone el Kardex, el predictor de reposición y los
// reportes derivados.
type AnalyticsHandler struct {
	costing   *costing.UseCase
	forecast  *forecast.UseCase
	reports   *reports.UseCase
	assistant *reports.Assistant
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(co *costing.UseCase, fc *forecast.UseCase, rp *reports.UseCase, as *reports.Assistant) *AnalyticsHandler {
	return &AnalyticsHandler{costing: co, forecast: fc, reports: rp, assistant: as}
}

// Kardex devuelve el registro de costeo de un SKU.
func (h *AnalyticsHandler) Kardex(c *fiber.Ctx) error {
	r, err := h.costing.Compute(c.Params("sku"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(r)
}

// KardexAll devuelve el costeo de todo el inventario.
func (h *AnalyticsHandler) KardexAll(c *fiber.Ctx) error {
	return c.JSON(h.costing.ComputeAll())
}

// ReorderSuggestions recalcula y devuelve las sugerencias de reposición.
func (h *AnalyticsHandler) ReorderSuggestions(c *fiber.Ctx) error {
	return c.JSON(h.forecast.Suggestions())
}

// FullReport devuelve el reporte ejecutivo completo.
func (h *AnalyticsHandler) FullReport(c *fiber.Ctx) error {
	return c.JSON(h.reports.Full())
}

// Alerts devuelve el recuento de alertas críticas.
func (h *AnalyticsHandler) Alerts(c *fiber.Ctx) error {
	return c.JSON(h.reports.CriticalAlerts())
}

// LowStock devuelve los productos en stock crítico.
func (h *AnalyticsHandler) LowStock(c *fiber.Ctx) error {
	return c.JSON(h.reports.LowStock())
}

// Assistant responde una consulta en lenguaje libre.
func (h *AnalyticsHandler) Assistant(c *fiber.Ctx) error {
	var in dto.AssistantRequest
	if !parseBody(c, &in) {
		return nil
	}
	return c.JSON(dto.AssistantResponse{Reply: h.assistant.Answer(in.Message)})
}
