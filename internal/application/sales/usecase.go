// Package sales registra ventas: decrementa stock con validación previa y
// anexa el registro inmutable a la secuencia de ventas del agregado.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aleburgosdev/mi-inventario/internal/application/ports"
	"github.com/aleburgosdev/mi-inventario/internal/domain"
	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/internal/state"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

// forecastCache es lo que el caso de uso necesita del predictor: poder
// invalidar su caché cuando cambia el historial de ventas.
type forecastCache interface {
	Invalidate()
}

// UseCase registra ventas contra el State Store.
type UseCase struct {
	store    *state.Store
	persist  ports.Persister
	notifier ports.StockNotifier
	forecast forecastCache
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(store *state.Store, persist ports.Persister, notifier ports.StockNotifier, forecast forecastCache, log *logger.Logger) *UseCase {
	return &UseCase{
		store:    store,
		persist:  persist,
		notifier: notifier,
		forecast: forecast,
		log:      log,
		now:      time.Now,
	}
}

// WithClock fija el reloj del caso de uso (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Input entrada para registrar una venta. UnitPrice en cero usa el precio
// de lista del producto. WithShipment crea además un envío Pendiente
// asociado a la venta.
type Input struct {
	SKU          string
	Qty          int
	UnitPrice    decimal.Decimal
	Customer     string
	WithShipment bool
}

// Register valida y registra la venta. Una venta que dejaría el stock
// negativo se rechaza con ErrInsufficientStock antes de mutar nada.
func (uc *UseCase) Register(ctx context.Context, in Input) (entity.Sale, error) {
	if in.SKU == "" || in.Qty <= 0 || in.UnitPrice.IsNegative() {
		return entity.Sale{}, domain.ErrInvalidInput
	}
	item, ok := uc.store.Product(in.SKU)
	if !ok {
		return entity.Sale{}, domain.ErrNotFound
	}
	if in.Qty > item.Stock {
		return entity.Sale{}, domain.ErrInsufficientStock
	}

	price := in.UnitPrice
	if price.IsZero() {
		price = item.Price
	}
	// Ganancia unitaria: precio − costo de lista − envío − comisión sobre
	// el precio de venta.
	unitProfit := price.Sub(item.Cost).Sub(item.Shipping).Sub(price.Mul(item.Commission))
	now := uc.now()

	sale := entity.Sale{
		ID:        uuid.NewString(),
		Date:      now,
		SKU:       in.SKU,
		Qty:       in.Qty,
		UnitPrice: price,
		Profit:    unitProfit.Mul(decimal.NewFromInt(int64(in.Qty))),
		Customer:  in.Customer,
	}

	var newStock int
	var opErr error
	uc.store.Mutate(func(s *entity.Snapshot) {
		p, ok := s.Items[in.SKU]
		if !ok {
			opErr = domain.ErrNotFound
			return
		}
		if p.Stock < in.Qty {
			opErr = domain.ErrInsufficientStock
			return
		}
		p.Stock -= in.Qty
		s.Items[in.SKU] = p
		newStock = p.Stock

		if in.WithShipment {
			shipment := entity.Shipment{
				ID:       uuid.NewString(),
				Customer: in.Customer,
				SKU:      in.SKU,
				Status:   entity.ShipmentPendiente,
				Date:     now,
			}
			sale.ShipmentID = shipment.ID
			s.Shipments = append(s.Shipments, shipment)
		}
		s.Sales = append(s.Sales, sale)
	})
	if opErr != nil {
		return entity.Sale{}, opErr
	}

	uc.forecast.Invalidate()
	uc.persist.Persist(ctx)
	uc.notifier.StockChanged(in.SKU, newStock)
	uc.log.Info().Str("sku", in.SKU).Int("qty", in.Qty).
		Str("ganancia", sale.Profit.String()).Msg("venta registrada")
	return sale, nil
}

// List devuelve la secuencia de ventas.
func (uc *UseCase) List() []entity.Sale {
	return uc.store.Sales()
}
