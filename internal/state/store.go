// Package state contiene el State Store: el agregado canónico en memoria.
//
// Todos los componentes reciben una referencia a este store en lugar de
// tocar estado global compartido. Las mutaciones pasan por sus métodos (o
// por Mutate para cambios multi-entidad) y las lecturas devuelven copias,
// de modo que el único escritor del agregado es quien posee el store.
package state

import (
	"sort"
	"sync"

	"github.com/aleburgosdev/mi-inventario/internal/domain"
	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
)

// Store guarda el agregado canónico del proceso.
//
// El original era monohilo cooperativo; aquí los handlers HTTP corren en
// goroutines, así que el acceso se serializa con un RWMutex. El modelo
// entre procesos (last-writer-wins sobre el agregado completo, sin merge)
// no cambia: ese es el canal de sincronización, no este store.
type Store struct {
	mu   sync.RWMutex
	snap *entity.Snapshot
}

// New crea un store con el agregado vacío.
func New() *Store {
	return &Store{snap: entity.NewSnapshot()}
}

// Replace sustituye el agregado completo. Lo invoca el canal de
// sincronización con snapshots ya reconciliados; nunca debe recibir un
// snapshot crudo.
func (s *Store) Replace(snap *entity.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == nil {
		snap = entity.NewSnapshot()
	}
	s.snap = snap
}

// Snapshot devuelve una copia profunda del agregado completo.
func (s *Store) Snapshot() *entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Mutate ejecuta fn con acceso exclusivo al agregado. Es la vía para
// mutaciones que tocan varias entidades a la vez (p. ej. entregar un
// pedido: pedido + productos + proveedor) y deben observarse como un
// único cambio.
func (s *Store) Mutate(fn func(*entity.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snap)
}

// ── Productos ────────────────────────────────────────────────────────────────

// Product devuelve el producto con el SKU dado.
func (s *Store) Product(sku string) (entity.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.snap.Items[sku]
	if ok {
		p.OrderRefs = append([]entity.OrderRef(nil), p.OrderRefs...)
	}
	return p, ok
}

// Products devuelve todos los productos ordenados por SKU.
func (s *Store) Products() []entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Product, 0, len(s.snap.Items))
	for _, p := range s.snap.Items {
		p.OrderRefs = append([]entity.OrderRef(nil), p.OrderRefs...)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// SaveProduct crea o reemplaza un producto (clave: SKU).
func (s *Store) SaveProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Reorder == "" {
		p.Reorder = entity.ReorderPendiente
	}
	s.snap.Items[p.SKU] = p
}

// DeleteProduct elimina el producto; devuelve ErrNotFound si no existe.
func (s *Store) DeleteProduct(sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snap.Items[sku]; !ok {
		return domain.ErrNotFound
	}
	delete(s.snap.Items, sku)
	return nil
}

// AdjustStock suma delta al stock del producto. Un ajuste que dejaría el
// stock negativo se rechaza sin mutar nada.
func (s *Store) AdjustStock(sku string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.snap.Items[sku]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	s.snap.Items[sku] = p
	return nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// AppendSale anexa una venta (la secuencia es solo de anexado).
func (s *Store) AppendSale(v entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Sales = append(s.snap.Sales, v)
}

// Sales devuelve una copia de la secuencia de ventas.
func (s *Store) Sales() []entity.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Sale(nil), s.snap.Sales...)
}

// SaleCount devuelve el número de ventas registradas. Es el contador
// monótono que compara el watchdog del canal de sincronización.
func (s *Store) SaleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snap.Sales)
}

// ── Pedidos de compra ────────────────────────────────────────────────────────

// Order devuelve el pedido con el id dado.
func (s *Store) Order(id string) (entity.PurchaseOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.snap.PurchaseOrders {
		if o.ID == id {
			o.Lines = append([]entity.OrderLine(nil), o.Lines...)
			return o, true
		}
	}
	return entity.PurchaseOrder{}, false
}

// Orders devuelve una copia de la secuencia de pedidos.
func (s *Store) Orders() []entity.PurchaseOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.PurchaseOrder, 0, len(s.snap.PurchaseOrders))
	for _, o := range s.snap.PurchaseOrders {
		o.Lines = append([]entity.OrderLine(nil), o.Lines...)
		out = append(out, o)
	}
	return out
}

// ── Proveedores, envíos y tickets ────────────────────────────────────────────

// Suppliers devuelve una copia de la secuencia de proveedores.
func (s *Store) Suppliers() []entity.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Supplier(nil), s.snap.Suppliers...)
}

// UpsertSupplier crea o actualiza un proveedor por nombre.
func (s *Store) UpsertSupplier(sup entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.snap.Suppliers {
		if cur.Name == sup.Name {
			s.snap.Suppliers[i] = sup
			return
		}
	}
	s.snap.Suppliers = append(s.snap.Suppliers, sup)
}

// Shipments devuelve una copia de la secuencia de envíos.
func (s *Store) Shipments() []entity.Shipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Shipment(nil), s.snap.Shipments...)
}

// AppendShipment anexa un envío.
func (s *Store) AppendShipment(e entity.Shipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Shipments = append(s.snap.Shipments, e)
}

// Tickets devuelve una copia de la secuencia de tickets.
func (s *Store) Tickets() []entity.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Ticket(nil), s.snap.Tickets...)
}

// AppendTicket anexa un ticket.
func (s *Store) AppendTicket(t entity.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Tickets = append(s.snap.Tickets, t)
}
