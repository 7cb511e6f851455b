package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor referenciado por nombre desde los
// productos y pedidos. AvgLeadTimeDays es la media móvil de días de entrega
// sobre todos sus pedidos entregados.
type Supplier struct {
	Name            string  `json:"name"`
	Contact         string  `json:"contact,omitempty"`
	AvgLeadTimeDays float64 `json:"avgLeadTimeDays"`
}

// Estados de un envío a cliente.
const (
	ShipmentPendiente = "Pendiente"
	ShipmentEntregado = "Entregado"
)

// Shipment representa un envío a cliente asociado (opcionalmente) a una venta.
type Shipment struct {
	ID       string    `json:"id"`
	Customer string    `json:"customer"`
	SKU      string    `json:"sku"`
	Status   string    `json:"status"`
	Date     time.Time `json:"date"`
}

// Ticket representa un comprobante de venta guardado para reimpresión.
// La generación del comprobante imprimible es un colaborador externo; aquí
// solo se conserva el registro.
type Ticket struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Customer string          `json:"customer"`
	Total    decimal.Decimal `json:"total"`
}

// Snapshot es el agregado completo replicado como un único valor.
// Invariante: los seis campos están siempre presentes con el contenedor
// correcto; un snapshot que no cumpla la forma se repara en la capa de
// reconciliación antes de ser confiado.
type Snapshot struct {
	Items          map[string]Product `json:"items"`
	Sales          []Sale             `json:"sales"`
	Suppliers      []Supplier         `json:"suppliers"`
	Shipments      []Shipment         `json:"shipments"`
	Tickets        []Ticket           `json:"tickets"`
	PurchaseOrders []PurchaseOrder    `json:"purchaseOrders"`
}

// NewSnapshot devuelve un agregado vacío con los seis contenedores creados.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Items:          map[string]Product{},
		Sales:          []Sale{},
		Suppliers:      []Supplier{},
		Shipments:      []Shipment{},
		Tickets:        []Ticket{},
		PurchaseOrders: []PurchaseOrder{},
	}
}

// Clone devuelve una copia profunda del agregado. Las vistas de solo lectura
// que salen del State Store se construyen con Clone para que ningún
// consumidor pueda mutar el estado canónico.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Items:          make(map[string]Product, len(s.Items)),
		Sales:          append([]Sale(nil), s.Sales...),
		Suppliers:      append([]Supplier(nil), s.Suppliers...),
		Shipments:      append([]Shipment(nil), s.Shipments...),
		Tickets:        append([]Ticket(nil), s.Tickets...),
		PurchaseOrders: make([]PurchaseOrder, 0, len(s.PurchaseOrders)),
	}
	for sku, p := range s.Items {
		p.OrderRefs = append([]OrderRef(nil), p.OrderRefs...)
		c.Items[sku] = p
	}
	for _, o := range s.PurchaseOrders {
		o.Lines = append([]OrderLine(nil), o.Lines...)
		if o.DeliveredAt != nil {
			d := *o.DeliveredAt
			o.DeliveredAt = &d
		}
		c.PurchaseOrders = append(c.PurchaseOrders, o)
	}
	if c.Sales == nil {
		c.Sales = []Sale{}
	}
	if c.Suppliers == nil {
		c.Suppliers = []Supplier{}
	}
	if c.Shipments == nil {
		c.Shipments = []Shipment{}
	}
	if c.Tickets == nil {
		c.Tickets = []Ticket{}
	}
	return c
}
