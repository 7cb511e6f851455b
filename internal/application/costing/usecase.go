// Package costing implementa el motor de costeo Kardex: costo promedio
// ponderado, valorización y métricas de rotación por SKU. Es un consumidor
// de solo lectura del State Store; sus registros se recalculan bajo
// demanda y nunca se persisten.
package costing

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"

	"github.com/aleburgosdev/mi-inventario/internal/domain"
	"github.com/aleburgosdev/mi-inventario/internal/state"
)

// Days es días de stock proyectados. Sin rotación el valor es +Inf, que
// no existe en JSON: serializa como null.
type Days float64

// MarshalJSON implementa json.Marshaler.
func (d Days) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(d), 1) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(d))
}

// Record es el resultado derivado del costeo de un SKU.
type Record struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Stock            int             `json:"stock"`
	ListedCost       decimal.Decimal `json:"listedCost"`
	AvgCost          decimal.Decimal `json:"avgCost"`   // costo promedio ponderado
	Valuation        decimal.Decimal `json:"valuation"` // stock × costo promedio
	Variance         decimal.Decimal `json:"variance"`  // costo de lista − promedio
	VariancePct      decimal.Decimal `json:"variancePct"`
	TotalPurchased   int             `json:"totalPurchased"`
	EstimatedOutflow int             `json:"estimatedOutflow"`
	AvgInventory     int             `json:"avgInventory"`
	TurnoverRatio    float64         `json:"turnoverRatio"`
	DaysOfStock      Days            `json:"daysOfStock"` // +Inf sin rotación
}

// UseCase deriva registros de costeo desde el historial de compras.
type UseCase struct {
	store *state.Store
}

// NewUseCase construye el motor de costeo.
func NewUseCase(store *state.Store) *UseCase {
	return &UseCase{store: store}
}

// Compute calcula el registro Kardex de un SKU.
//
// El historial abarca los renglones de TODOS los pedidos, cualquiera sea
// su estado: el costeo sigue el costo negociado a lo largo del tiempo, no
// solo lo ya recibido. Sin historial, el costo promedio cae al costo de
// lista con variación cero.
func (uc *UseCase) Compute(sku string) (Record, error) {
	item, ok := uc.store.Product(sku)
	if !ok {
		return Record{}, domain.ErrNotFound
	}

	var (
		totalQty int
		totalAmt = decimal.Zero
	)
	for _, o := range uc.store.Orders() {
		for _, l := range o.Lines {
			if l.SKU != sku {
				continue
			}
			totalQty += l.Qty
			totalAmt = totalAmt.Add(l.Subtotal)
		}
	}

	r := Record{
		SKU:            item.SKU,
		Name:           item.Name,
		Stock:          item.Stock,
		ListedCost:     item.Cost,
		TotalPurchased: totalQty,
	}

	if totalQty > 0 {
		r.AvgCost = totalAmt.Div(decimal.NewFromInt(int64(totalQty)))
		r.Variance = item.Cost.Sub(r.AvgCost)
		if !r.AvgCost.IsZero() {
			r.VariancePct = r.Variance.Div(r.AvgCost).Mul(decimal.NewFromInt(100)).Round(2)
		}
	} else {
		r.AvgCost = item.Cost
	}
	r.Valuation = r.AvgCost.Mul(decimal.NewFromInt(int64(item.Stock)))

	if item.Stock < totalQty {
		r.EstimatedOutflow = totalQty - item.Stock
	}
	r.AvgInventory = int(math.Round(float64(item.Stock+totalQty) / 2))
	if r.AvgInventory > 0 {
		r.TurnoverRatio = float64(r.EstimatedOutflow) / float64(r.AvgInventory)
	}
	if r.TurnoverRatio > 0 {
		r.DaysOfStock = Days(30 / r.TurnoverRatio)
	} else {
		r.DaysOfStock = Days(math.Inf(1))
	}

	return r, nil
}

// ComputeAll calcula el Kardex de todo el inventario, ordenado por SKU.
func (uc *UseCase) ComputeAll() []Record {
	products := uc.store.Products()
	out := make([]Record, 0, len(products))
	for _, p := range products {
		r, err := uc.Compute(p.SKU)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// TotalValuation suma la valorización de todo el inventario.
func (uc *UseCase) TotalValuation() decimal.Decimal {
	total := decimal.Zero
	for _, r := range uc.ComputeAll() {
		total = total.Add(r.Valuation)
	}
	return total
}
