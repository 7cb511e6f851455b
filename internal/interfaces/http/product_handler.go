package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/aleburgosdev/mi-inventario/internal/application/dto"
	"github.com/aleburgosdev/mi-inventario/internal/application/products"
)

// ProductHandler maneja las peticiones HTTP de productos.
type ProductHandler struct {
	uc *products.UseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *products.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func productInput(in dto.ProductRequest) products.Input {
	return products.Input{
		SKU:        in.SKU,
		Name:       in.Name,
		Stock:      in.Stock,
		Cost:       decimal.NewFromFloat(in.Cost),
		Price:      decimal.NewFromFloat(in.Price),
		Shipping:   decimal.NewFromFloat(in.Shipping),
		Commission: decimal.NewFromFloat(in.Commission),
		Supplier:   in.Supplier,
		Category:   in.Category,
	}
}

// Create da de alta un producto.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if !parseBody(c, &in) {
		return nil
	}
	p, err := h.uc.Create(c.Context(), productInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Get devuelve un producto por SKU.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.uc.Get(c.Params("sku"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// List devuelve todos los productos.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List())
}

// Update edita un producto existente. El SKU viene de la ruta; el cuerpo
// puede omitirlo.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductRequest
	in.SKU = c.Params("sku")
	if !parseBody(c, &in) {
		return nil
	}
	p, err := h.uc.Update(c.Context(), c.Params("sku"), productInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// Delete elimina un producto.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("sku")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
