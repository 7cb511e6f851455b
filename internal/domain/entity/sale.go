package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta registrada. Es inmutable una vez creada:
// la secuencia de ventas del agregado es solo de anexado.
type Sale struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	SKU        string          `json:"sku"`
	Qty        int             `json:"qty"`
	UnitPrice  decimal.Decimal `json:"price"`
	Profit     decimal.Decimal `json:"profit"`
	Customer   string          `json:"customer"`
	ShipmentID string          `json:"shipmentId,omitempty"`
}

// Revenue devuelve el ingreso bruto de la venta (precio × cantidad).
func (s Sale) Revenue() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Qty)))
}
