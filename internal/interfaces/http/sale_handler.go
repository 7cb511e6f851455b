package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/aleburgosdev/mi-inventario/internal/application/dto"
	"github.com/aleburgosdev/mi-inventario/internal/application/sales"
)

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create registra una venta.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if !parseBody(c, &in) {
		return nil
	}
	s, err := h.uc.Register(c.Context(), sales.Input{
		SKU:          in.SKU,
		Qty:          in.Qty,
		UnitPrice:    decimal.NewFromFloat(in.UnitPrice),
		Customer:     in.Customer,
		WithShipment: in.WithShipment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// List devuelve la secuencia de ventas.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List())
}
