package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido de compra.
// Pendiente → EnTransito → Entregado; Pendiente/EnTransito → Cancelado.
// Entregado y Cancelado son terminales.
const (
	OrderPendiente  = "Pendiente"
	OrderEnTransito = "En tránsito"
	OrderEntregado  = "Entregado"
	OrderCancelado  = "Cancelado"
)

// OrderLine es un renglón de un pedido de compra.
type OrderLine struct {
	SKU       string          `json:"sku"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseOrder representa un pedido de compra a un proveedor.
// El identificador se genera en el cliente (sin autoridad central de
// secuencias): marca de tiempo más sufijo aleatorio.
type PurchaseOrder struct {
	ID           string          `json:"id"`
	Supplier     string          `json:"supplier"`
	CreatedAt    time.Time       `json:"createdAt"`
	ETA          time.Time       `json:"eta"`                   // fecha estimada de entrega
	DeliveredAt  *time.Time      `json:"deliveredAt,omitempty"` // nil hasta Entregado
	Status       string          `json:"status"`
	Lines        []OrderLine     `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	LeadTimeDays int             `json:"leadTimeDays"` // días entre creación y entrega
}

// NewOrderID genera un identificador de pedido en el cliente:
// marca de tiempo en milisegundos + sufijo aleatorio de 8 caracteres.
func NewOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("P%d-%s", now.UnixMilli(), suffix)
}

// IsTerminalStatus indica si el estado no admite más transiciones.
func IsTerminalStatus(s string) bool {
	return s == OrderEntregado || s == OrderCancelado
}

// ValidOrderStatus indica si s es uno de los cuatro estados conocidos.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPendiente, OrderEnTransito, OrderEntregado, OrderCancelado:
		return true
	}
	return false
}

// CanTransition indica si la transición from → to está permitida por el
// ciclo de vida. Repetir el estado actual o salir de un estado terminal
// nunca está permitido (garantía de efecto único sobre el stock).
func CanTransition(from, to string) bool {
	if from == to || IsTerminalStatus(from) {
		return false
	}
	switch from {
	case OrderPendiente:
		return to == OrderEnTransito || to == OrderEntregado || to == OrderCancelado
	case OrderEnTransito:
		return to == OrderEntregado || to == OrderCancelado
	}
	return false
}
