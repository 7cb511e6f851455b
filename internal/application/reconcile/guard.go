// Package reconcile implementa la guardia de reconciliación: la frontera de
// decodificación y validación por la que pasa todo snapshot crudo antes de
// ser confiado. Nunca falla; repara. El almacén remoto no impone esquema,
// así que el sistema favorece autocuración sobre rechazo estricto.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
)

// Guard valida y repara snapshots crudos del agregado.
type Guard struct{}

// New construye la guardia.
func New() *Guard { return &Guard{} }

// Reconcile limpia un snapshot crudo. Para cada uno de los seis campos del
// agregado: si falta, es nulo o trae el contenedor equivocado, se reemplaza
// por el contenedor vacío correcto y se registra una advertencia.
//
// Regla especial — protección de pedidos: si el campo purchaseOrders del
// snapshot entrante no es una secuencia válida, se descarta el valor
// entrante y se restaura la secuencia de pedidos que prev ya tenía, en vez
// de dejarla vacía. Ese campo registra dinero adeudado a proveedores; una
// escritura parcial de otro proceso no puede borrarlo en silencio, aunque
// la misma carrera sí pueda pisar los campos restantes.
//
// Si hubo reparaciones (len(warnings) > 0) el llamador debe persistir el
// snapshot limpio de inmediato, no solo retenerlo en memoria.
func (g *Guard) Reconcile(raw any, prev *entity.Snapshot) (*entity.Snapshot, []string) {
	var warns []string
	warn := func(format string, args ...any) {
		warns = append(warns, fmt.Sprintf(format, args...))
	}

	root, ok := asMap(raw)
	if !ok {
		warn("snapshot: el valor crudo no es un objeto, se reconstruye desde vacío")
		root = map[string]any{}
	}

	clean := entity.NewSnapshot()
	clean.Items = g.reconcileItems(root["items"], warn)
	clean.Sales = g.reconcileSales(root["sales"], warn)
	clean.Suppliers = g.reconcileSuppliers(root["suppliers"], warn)
	clean.Shipments = g.reconcileShipments(root["shipments"], warn)
	clean.Tickets = g.reconcileTickets(root["tickets"], warn)

	var held []entity.PurchaseOrder
	if prev != nil {
		held = prev.Clone().PurchaseOrders
	}
	clean.PurchaseOrders = g.reconcileOrders(root["purchaseOrders"], held, warn)

	return clean, warns
}

func (g *Guard) reconcileItems(v any, warn func(string, ...any)) map[string]entity.Product {
	out := map[string]entity.Product{}
	m, ok := asMap(v)
	if !ok {
		if v != nil {
			warn("items: contenedor inválido, se reemplaza por mapa vacío")
		} else {
			warn("items: campo ausente, se crea mapa vacío")
		}
		return out
	}
	for sku, rv := range m {
		if sku == "" {
			warn("items: se descarta entrada con SKU vacío")
			continue
		}
		pm, ok := asMap(rv)
		if !ok {
			warn("items[%s]: valor inválido, se reconstruye con ceros", sku)
			pm = map[string]any{}
		}
		p := entity.Product{
			SKU:      sku,
			Name:     asString(pm["name"]),
			Supplier: asString(pm["supplier"]),
			Category: asString(pm["category"]),
			Reorder:  asString(pm["reorder"]),
		}
		if p.Reorder == "" {
			p.Reorder = entity.ReorderPendiente
		}
		// Barrido numérico: todo valor no numérico o ausente se coerciona
		// con parse best-effort y por defecto queda en cero.
		stock, clean := asInt(pm["stock"])
		if !clean {
			warn("items[%s].stock: valor no numérico, se coerciona", sku)
		}
		if stock < 0 {
			warn("items[%s].stock: negativo en el snapshot, se fija en 0", sku)
			stock = 0
		}
		p.Stock = stock
		for _, f := range []struct {
			name string
			dst  *decimal.Decimal
		}{
			{"cost", &p.Cost},
			{"price", &p.Price},
			{"shipping", &p.Shipping},
			{"commission", &p.Commission},
		} {
			d, clean := asDecimal(pm[f.name])
			if !clean {
				warn("items[%s].%s: valor no numérico, se coerciona a %s", sku, f.name, d)
			}
			*f.dst = d
		}
		p.OrderRefs = decodeOrderRefs(pm["orderRefs"])
		out[sku] = p
	}
	return out
}

func (g *Guard) reconcileSales(v any, warn func(string, ...any)) []entity.Sale {
	out := []entity.Sale{}
	seq, ok := asSlice(v)
	if !ok {
		warn("sales: contenedor inválido o ausente, se reemplaza por secuencia vacía")
		return out
	}
	for i, rv := range seq {
		sm, ok := asMap(rv)
		if !ok {
			warn("sales[%d]: elemento inválido, se descarta", i)
			continue
		}
		qty, _ := asInt(sm["qty"])
		price, _ := asDecimal(sm["price"])
		profit, _ := asDecimal(sm["profit"])
		out = append(out, entity.Sale{
			ID:         asString(sm["id"]),
			Date:       asTime(sm["date"]),
			SKU:        asString(sm["sku"]),
			Qty:        qty,
			UnitPrice:  price,
			Profit:     profit,
			Customer:   asString(sm["customer"]),
			ShipmentID: asString(sm["shipmentId"]),
		})
	}
	return out
}

func (g *Guard) reconcileSuppliers(v any, warn func(string, ...any)) []entity.Supplier {
	out := []entity.Supplier{}
	seq, ok := asSlice(v)
	if !ok {
		warn("suppliers: contenedor inválido o ausente, se reemplaza por secuencia vacía")
		return out
	}
	for i, rv := range seq {
		sm, ok := asMap(rv)
		if !ok {
			warn("suppliers[%d]: elemento inválido, se descarta", i)
			continue
		}
		avg, _ := asDecimal(sm["avgLeadTimeDays"])
		f, _ := avg.Float64()
		out = append(out, entity.Supplier{
			Name:            asString(sm["name"]),
			Contact:         asString(sm["contact"]),
			AvgLeadTimeDays: f,
		})
	}
	return out
}

func (g *Guard) reconcileShipments(v any, warn func(string, ...any)) []entity.Shipment {
	out := []entity.Shipment{}
	seq, ok := asSlice(v)
	if !ok {
		warn("shipments: contenedor inválido o ausente, se reemplaza por secuencia vacía")
		return out
	}
	for i, rv := range seq {
		sm, ok := asMap(rv)
		if !ok {
			warn("shipments[%d]: elemento inválido, se descarta", i)
			continue
		}
		out = append(out, entity.Shipment{
			ID:       asString(sm["id"]),
			Customer: asString(sm["customer"]),
			SKU:      asString(sm["sku"]),
			Status:   asString(sm["status"]),
			Date:     asTime(sm["date"]),
		})
	}
	return out
}

func (g *Guard) reconcileTickets(v any, warn func(string, ...any)) []entity.Ticket {
	out := []entity.Ticket{}
	seq, ok := asSlice(v)
	if !ok {
		warn("tickets: contenedor inválido o ausente, se reemplaza por secuencia vacía")
		return out
	}
	for i, rv := range seq {
		tm, ok := asMap(rv)
		if !ok {
			warn("tickets[%d]: elemento inválido, se descarta", i)
			continue
		}
		total, _ := asDecimal(tm["total"])
		out = append(out, entity.Ticket{
			ID:       asString(tm["id"]),
			Date:     asTime(tm["date"]),
			Customer: asString(tm["customer"]),
			Total:    total,
		})
	}
	return out
}

// reconcileOrders aplica la protección anticorrupción del campo de pedidos:
// un valor entrante que no sea secuencia restaura la secuencia retenida.
func (g *Guard) reconcileOrders(v any, held []entity.PurchaseOrder, warn func(string, ...any)) []entity.PurchaseOrder {
	seq, ok := asSlice(v)
	if !ok {
		if len(held) > 0 {
			warn("purchaseOrders: corrupción de campo protegido, se restaura la secuencia retenida (%d pedidos)", len(held))
			return held
		}
		warn("purchaseOrders: contenedor inválido o ausente, se reemplaza por secuencia vacía")
		return []entity.PurchaseOrder{}
	}
	out := []entity.PurchaseOrder{}
	for i, rv := range seq {
		om, ok := asMap(rv)
		if !ok {
			warn("purchaseOrders[%d]: elemento inválido, se descarta", i)
			continue
		}
		id := asString(om["id"])
		if id == "" {
			warn("purchaseOrders[%d]: pedido sin id, se descarta", i)
			continue
		}
		status := asString(om["status"])
		if !entity.ValidOrderStatus(status) {
			warn("purchaseOrders[%d]: estado %q desconocido, se fija en Pendiente", i, status)
			status = entity.OrderPendiente
		}
		total, _ := asDecimal(om["total"])
		lead, _ := asInt(om["leadTimeDays"])
		o := entity.PurchaseOrder{
			ID:           id,
			Supplier:     asString(om["supplier"]),
			CreatedAt:    asTime(om["createdAt"]),
			ETA:          asTime(om["eta"]),
			Status:       status,
			Lines:        decodeOrderLines(om["lines"]),
			Total:        total,
			LeadTimeDays: lead,
		}
		if t := asTime(om["deliveredAt"]); !t.IsZero() {
			o.DeliveredAt = &t
		}
		out = append(out, o)
	}
	return out
}

func decodeOrderLines(v any) []entity.OrderLine {
	seq, ok := asSlice(v)
	if !ok {
		return []entity.OrderLine{}
	}
	out := make([]entity.OrderLine, 0, len(seq))
	for _, rv := range seq {
		lm, ok := asMap(rv)
		if !ok {
			continue
		}
		qty, _ := asInt(lm["qty"])
		price, _ := asDecimal(lm["unitPrice"])
		subtotal, _ := asDecimal(lm["subtotal"])
		out = append(out, entity.OrderLine{
			SKU:       asString(lm["sku"]),
			Qty:       qty,
			UnitPrice: price,
			Subtotal:  subtotal,
		})
	}
	return out
}

func decodeOrderRefs(v any) []entity.OrderRef {
	seq, ok := asSlice(v)
	if !ok {
		return nil
	}
	out := make([]entity.OrderRef, 0, len(seq))
	for _, rv := range seq {
		rm, ok := asMap(rv)
		if !ok {
			continue
		}
		qty, _ := asInt(rm["qty"])
		price, _ := asDecimal(rm["unitPrice"])
		out = append(out, entity.OrderRef{
			OrderID:   asString(rm["orderId"]),
			Status:    asString(rm["status"]),
			Qty:       qty,
			UnitPrice: price,
		})
	}
	return out
}
