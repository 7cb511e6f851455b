package entity

import "github.com/shopspring/decimal"

// Estados del marcador de reposición de un producto.
// Al crear un pedido de compra que incluye el SKU, el marcador pasa a "pedido";
// al eliminar el pedido vuelve al estado por defecto "pendiente".
const (
	ReorderPendiente = "pendiente"
	ReorderPedido    = "pedido"
)

// OrderRef es la referencia inversa que un producto guarda hacia cada pedido
// de compra que lo afecta. Se actualiza en cada transición de estado del pedido
// y se elimina al cancelar o borrar el pedido.
type OrderRef struct {
	OrderID   string          `json:"orderId"`
	Status    string          `json:"status"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Product representa un producto del inventario, identificado por SKU único.
// Stock nunca es negativo una vez reconciliado; Cost es el costo de lista
// (el costo promedio ponderado se deriva en el Kardex, no se persiste).
type Product struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Stock      int             `json:"stock"`
	Cost       decimal.Decimal `json:"cost"`       // costo de lista por unidad
	Price      decimal.Decimal `json:"price"`      // precio de venta
	Shipping   decimal.Decimal `json:"shipping"`   // costo de envío por unidad
	Commission decimal.Decimal `json:"commission"` // fracción sobre el precio (0.05 = 5%)
	Supplier   string          `json:"supplier"`   // referencia por nombre
	Category   string          `json:"category"`
	Reorder    string          `json:"reorder"` // ver constantes Reorder*
	OrderRefs  []OrderRef      `json:"orderRefs"`
}

// RefIndex devuelve la posición de la referencia al pedido dado, o -1.
func (p *Product) RefIndex(orderID string) int {
	for i, r := range p.OrderRefs {
		if r.OrderID == orderID {
			return i
		}
	}
	return -1
}

// RemoveRef elimina la referencia al pedido dado si existe.
func (p *Product) RemoveRef(orderID string) {
	if i := p.RefIndex(orderID); i >= 0 {
		p.OrderRefs = append(p.OrderRefs[:i], p.OrderRefs[i+1:]...)
	}
}
