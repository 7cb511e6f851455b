// Package orders implementa el ciclo de vida de los pedidos de compra y
// sus efectos sobre el stock. Es el único productor legítimo de entregas:
// el Kardex y el pronóstico solo leen lo que este componente escribe.
package orders

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aleburgosdev/mi-inventario/internal/application/ports"
	"github.com/aleburgosdev/mi-inventario/internal/domain"
	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/internal/state"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

// UseCase gestiona creación, transiciones y borrado administrativo de
// pedidos de compra. Toda mutación persiste el agregado completo por el
// canal de sincronización.
type UseCase struct {
	store    *state.Store
	persist  ports.Persister
	notifier ports.StockNotifier
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(store *state.Store, persist ports.Persister, notifier ports.StockNotifier, log *logger.Logger) *UseCase {
	return &UseCase{
		store:    store,
		persist:  persist,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// WithClock fija el reloj del caso de uso (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// LineInput renglón de entrada para crear un pedido.
type LineInput struct {
	SKU       string
	Qty       int
	UnitPrice decimal.Decimal
}

// CreateInput entrada para crear un pedido de compra.
type CreateInput struct {
	Supplier string
	ETA      time.Time
	Lines    []LineInput
}

// Create registra un pedido en estado Pendiente, anota la referencia
// inversa en cada producto afectado y eleva su marcador de reposición.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (entity.PurchaseOrder, error) {
	if in.Supplier == "" || len(in.Lines) == 0 {
		return entity.PurchaseOrder{}, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.SKU == "" || l.Qty <= 0 || l.UnitPrice.IsNegative() {
			return entity.PurchaseOrder{}, domain.ErrInvalidInput
		}
		if _, ok := uc.store.Product(l.SKU); !ok {
			return entity.PurchaseOrder{}, domain.ErrNotFound
		}
	}

	now := uc.now()
	order := entity.PurchaseOrder{
		ID:        entity.NewOrderID(now),
		Supplier:  in.Supplier,
		CreatedAt: now,
		ETA:       in.ETA,
		Status:    entity.OrderPendiente,
		Lines:     make([]entity.OrderLine, 0, len(in.Lines)),
		Total:     decimal.Zero,
	}
	for _, l := range in.Lines {
		subtotal := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
		order.Lines = append(order.Lines, entity.OrderLine{
			SKU:       l.SKU,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			Subtotal:  subtotal,
		})
		order.Total = order.Total.Add(subtotal)
	}

	uc.store.Mutate(func(s *entity.Snapshot) {
		s.PurchaseOrders = append(s.PurchaseOrders, order)
		for _, l := range order.Lines {
			item, ok := s.Items[l.SKU]
			if !ok {
				continue
			}
			item.OrderRefs = append(item.OrderRefs, entity.OrderRef{
				OrderID:   order.ID,
				Status:    order.Status,
				Qty:       l.Qty,
				UnitPrice: l.UnitPrice,
			})
			item.Reorder = entity.ReorderPedido
			s.Items[l.SKU] = item
		}
	})

	uc.persist.Persist(ctx)
	uc.log.Info().Str("pedido", order.ID).Str("proveedor", order.Supplier).
		Str("total", order.Total.String()).Msg("pedido de compra creado")
	return order, nil
}

// Transition aplica una transición de estado al pedido.
//
// Garantía de efecto único: repetir una transición al estado actual, o
// transicionar desde un estado terminal, se rechaza con
// ErrInvalidTransition, de modo que el incremento de stock de una entrega
// ocurre exactamente una vez por pedido.
func (uc *UseCase) Transition(ctx context.Context, orderID, newStatus string) (entity.PurchaseOrder, error) {
	if !entity.ValidOrderStatus(newStatus) {
		return entity.PurchaseOrder{}, domain.ErrInvalidInput
	}

	var (
		result   entity.PurchaseOrder
		affected []stockChange
		opErr    error
	)
	uc.store.Mutate(func(s *entity.Snapshot) {
		idx := orderIndex(s, orderID)
		if idx < 0 {
			opErr = domain.ErrNotFound
			return
		}
		o := &s.PurchaseOrders[idx]
		if !entity.CanTransition(o.Status, newStatus) {
			opErr = domain.ErrInvalidTransition
			return
		}

		switch newStatus {
		case entity.OrderEntregado:
			now := uc.now()
			o.DeliveredAt = &now
			o.LeadTimeDays = leadTimeDays(o.CreatedAt, now)
			for _, l := range o.Lines {
				item, ok := s.Items[l.SKU]
				if !ok {
					continue
				}
				item.Stock += l.Qty
				setRefStatus(&item, o.ID, newStatus)
				s.Items[l.SKU] = item
				affected = append(affected, stockChange{sku: l.SKU, stock: item.Stock})
			}
		case entity.OrderCancelado:
			// Sin efecto sobre el stock; se retiran las referencias inversas.
			for _, l := range o.Lines {
				item, ok := s.Items[l.SKU]
				if !ok {
					continue
				}
				item.RemoveRef(o.ID)
				s.Items[l.SKU] = item
			}
		default:
			for _, l := range o.Lines {
				item, ok := s.Items[l.SKU]
				if !ok {
					continue
				}
				setRefStatus(&item, o.ID, newStatus)
				s.Items[l.SKU] = item
			}
		}

		o.Status = newStatus
		if newStatus == entity.OrderEntregado {
			updateSupplierLeadTime(s, o.Supplier)
		}
		result = *o
		result.Lines = append([]entity.OrderLine(nil), o.Lines...)
		if o.DeliveredAt != nil {
			d := *o.DeliveredAt
			result.DeliveredAt = &d
		}
	})
	if opErr != nil {
		return entity.PurchaseOrder{}, opErr
	}

	uc.persist.Persist(ctx)
	for _, ch := range affected {
		uc.notifier.StockChanged(ch.sku, ch.stock)
	}
	uc.log.Info().Str("pedido", orderID).Str("estado", newStatus).Msg("transición de pedido aplicada")
	return result, nil
}

// Delete es la operación administrativa de borrado: elimina el pedido,
// retira sus referencias inversas y devuelve el marcador de reposición de
// los productos afectados a su estado por defecto.
func (uc *UseCase) Delete(ctx context.Context, orderID string) error {
	var opErr error
	uc.store.Mutate(func(s *entity.Snapshot) {
		idx := orderIndex(s, orderID)
		if idx < 0 {
			opErr = domain.ErrNotFound
			return
		}
		o := s.PurchaseOrders[idx]
		s.PurchaseOrders = append(s.PurchaseOrders[:idx], s.PurchaseOrders[idx+1:]...)
		for _, l := range o.Lines {
			item, ok := s.Items[l.SKU]
			if !ok {
				continue
			}
			item.RemoveRef(o.ID)
			item.Reorder = entity.ReorderPendiente
			s.Items[l.SKU] = item
		}
	})
	if opErr != nil {
		return opErr
	}
	uc.persist.Persist(ctx)
	uc.log.Info().Str("pedido", orderID).Msg("pedido eliminado")
	return nil
}

// Get devuelve el pedido con el id dado.
func (uc *UseCase) Get(orderID string) (entity.PurchaseOrder, error) {
	o, ok := uc.store.Order(orderID)
	if !ok {
		return entity.PurchaseOrder{}, domain.ErrNotFound
	}
	return o, nil
}

// List devuelve todos los pedidos.
func (uc *UseCase) List() []entity.PurchaseOrder {
	return uc.store.Orders()
}

type stockChange struct {
	sku   string
	stock int
}

func orderIndex(s *entity.Snapshot, orderID string) int {
	for i, o := range s.PurchaseOrders {
		if o.ID == orderID {
			return i
		}
	}
	return -1
}

func setRefStatus(p *entity.Product, orderID, status string) {
	if i := p.RefIndex(orderID); i >= 0 {
		p.OrderRefs[i].Status = status
	}
}

// leadTimeDays calcula ceil((entrega − creación) / un día), nunca negativo.
func leadTimeDays(created, delivered time.Time) int {
	d := delivered.Sub(created)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// updateSupplierLeadTime recalcula la media móvil de días de entrega del
// proveedor sobre todos sus pedidos entregados.
func updateSupplierLeadTime(s *entity.Snapshot, supplier string) {
	var sum, n int
	for _, o := range s.PurchaseOrders {
		if o.Supplier == supplier && o.Status == entity.OrderEntregado {
			sum += o.LeadTimeDays
			n++
		}
	}
	if n == 0 {
		return
	}
	avg := float64(sum) / float64(n)
	for i, sup := range s.Suppliers {
		if sup.Name == supplier {
			s.Suppliers[i].AvgLeadTimeDays = avg
			return
		}
	}
	s.Suppliers = append(s.Suppliers, entity.Supplier{Name: supplier, AvgLeadTimeDays: avg})
}
