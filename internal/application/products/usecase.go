// Package products implementa el mantenimiento de productos del
// inventario (alta, edición, baja).
package products

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/aleburgosdev/mi-inventario/internal/application/ports"
	"github.com/aleburgosdev/mi-inventario/internal/domain"
	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/internal/state"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

// UseCase gestiona el ciclo de vida de los productos.
type UseCase struct {
	store    *state.Store
	persist  ports.Persister
	notifier ports.StockNotifier
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(store *state.Store, persist ports.Persister, notifier ports.StockNotifier, log *logger.Logger) *UseCase {
	return &UseCase{store: store, persist: persist, notifier: notifier, log: log}
}

// Input datos de un producto para alta o edición.
type Input struct {
	SKU        string
	Name       string
	Stock      int
	Cost       decimal.Decimal
	Price      decimal.Decimal
	Shipping   decimal.Decimal
	Commission decimal.Decimal
	Supplier   string
	Category   string
}

func (in Input) validate() error {
	if in.SKU == "" || in.Name == "" || in.Stock < 0 {
		return domain.ErrInvalidInput
	}
	if in.Cost.IsNegative() || in.Price.IsNegative() || in.Shipping.IsNegative() || in.Commission.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create da de alta un producto. El SKU debe ser único en el agregado.
func (uc *UseCase) Create(ctx context.Context, in Input) (entity.Product, error) {
	if err := in.validate(); err != nil {
		return entity.Product{}, err
	}
	if _, exists := uc.store.Product(in.SKU); exists {
		return entity.Product{}, domain.ErrDuplicate
	}
	p := entity.Product{
		SKU:        in.SKU,
		Name:       in.Name,
		Stock:      in.Stock,
		Cost:       in.Cost,
		Price:      in.Price,
		Shipping:   in.Shipping,
		Commission: in.Commission,
		Supplier:   in.Supplier,
		Category:   in.Category,
		Reorder:    entity.ReorderPendiente,
	}
	uc.store.SaveProduct(p)
	uc.persist.Persist(ctx)
	uc.notifier.StockChanged(p.SKU, p.Stock)
	uc.log.Info().Str("sku", p.SKU).Msg("producto creado")
	return p, nil
}

// Update edita un producto existente conservando sus referencias a pedidos
// y su marcador de reposición.
func (uc *UseCase) Update(ctx context.Context, sku string, in Input) (entity.Product, error) {
	in.SKU = sku
	if err := in.validate(); err != nil {
		return entity.Product{}, err
	}
	current, ok := uc.store.Product(sku)
	if !ok {
		return entity.Product{}, domain.ErrNotFound
	}
	stockChanged := current.Stock != in.Stock

	current.Name = in.Name
	current.Stock = in.Stock
	current.Cost = in.Cost
	current.Price = in.Price
	current.Shipping = in.Shipping
	current.Commission = in.Commission
	current.Supplier = in.Supplier
	current.Category = in.Category

	uc.store.SaveProduct(current)
	uc.persist.Persist(ctx)
	if stockChanged {
		uc.notifier.StockChanged(sku, in.Stock)
	}
	uc.log.Info().Str("sku", sku).Msg("producto actualizado")
	return current, nil
}

// Delete elimina un producto del inventario.
func (uc *UseCase) Delete(ctx context.Context, sku string) error {
	if err := uc.store.DeleteProduct(sku); err != nil {
		return err
	}
	uc.persist.Persist(ctx)
	uc.log.Info().Str("sku", sku).Msg("producto eliminado")
	return nil
}

// Get devuelve el producto con el SKU dado.
func (uc *UseCase) Get(sku string) (entity.Product, error) {
	p, ok := uc.store.Product(sku)
	if !ok {
		return entity.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// List devuelve todos los productos ordenados por SKU.
func (uc *UseCase) List() []entity.Product {
	return uc.store.Products()
}
