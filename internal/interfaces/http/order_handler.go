package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/aleburgosdev/mi-inventario/internal/application/dto"
	"github.com/aleburgosdev/mi-inventario/internal/application/orders"
)

// OrderHandler maneja las peticiones HTTP de pedidos de compra.
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create registra un pedido de compra en estado Pendiente.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.OrderRequest
	if !parseBody(c, &in) {
		return nil
	}
	input := orders.CreateInput{Supplier: in.Supplier}
	if in.ETA != "" {
		eta, err := time.Parse(time.RFC3339, in.ETA)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "eta debe ser RFC3339"})
		}
		input.ETA = eta
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, orders.LineInput{
			SKU:       l.SKU,
			Qty:       l.Qty,
			UnitPrice: decimal.NewFromFloat(l.UnitPrice),
		})
	}
	o, err := h.uc.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

// Transition aplica un cambio de estado al pedido.
func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if !parseBody(c, &in) {
		return nil
	}
	o, err := h.uc.Transition(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(o)
}

// Get devuelve un pedido por id.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(o)
}

// List devuelve todos los pedidos.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List())
}

// Delete es el borrado administrativo del pedido.
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
