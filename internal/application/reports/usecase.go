// Package reports deriva los resúmenes operativos que consume el
// asistente y el panel: stock crítico, envíos pendientes, resumen de
// ventas y reporte ejecutivo completo. Todo es de solo lectura sobre el
// State Store.
package reports

import (
	"github.com/shopspring/decimal"

	"github.com/aleburgosdev/mi-inventario/internal/application/forecast"
	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/internal/state"
)

// StockCritico es el umbral de unidades por debajo del cual un producto
// cuenta como stock bajo.
const StockCritico = 3

// LowStockItem producto en o bajo el umbral crítico.
type LowStockItem struct {
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// SalesSummary resumen financiero de la secuencia de ventas.
type SalesSummary struct {
	Transactions int             `json:"transactions"`
	GrossRevenue decimal.Decimal `json:"grossRevenue"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

// Alerts recuento de situaciones que requieren atención.
type Alerts struct {
	LowStock         int `json:"lowStock"`
	PendingShipments int `json:"pendingShipments"`
	Total            int `json:"total"`
}

// FullReport reporte ejecutivo completo.
type FullReport struct {
	UniqueProducts   int          `json:"uniqueProducts"`
	TotalStockUnits  int          `json:"totalStockUnits"`
	LowStockCount    int          `json:"lowStockCount"`
	Sales            SalesSummary `json:"sales"`
	TotalShipments   int          `json:"totalShipments"`
	PendingShipments int          `json:"pendingShipments"`
	Tickets          int          `json:"tickets"`
}

// UseCase deriva los reportes.
type UseCase struct {
	store    *state.Store
	forecast *forecast.UseCase
}

// NewUseCase construye el caso de uso.
func NewUseCase(store *state.Store, fc *forecast.UseCase) *UseCase {
	return &UseCase{store: store, forecast: fc}
}

// LowStock lista los productos en o bajo el umbral crítico.
func (uc *UseCase) LowStock() []LowStockItem {
	var out []LowStockItem
	for _, p := range uc.store.Products() {
		if p.Stock <= StockCritico {
			out = append(out, LowStockItem{SKU: p.SKU, Name: p.Name, Stock: p.Stock})
		}
	}
	return out
}

// PendingShipments lista los envíos sin despachar.
func (uc *UseCase) PendingShipments() []entity.Shipment {
	var out []entity.Shipment
	for _, e := range uc.store.Shipments() {
		if e.Status == entity.ShipmentPendiente {
			out = append(out, e)
		}
	}
	return out
}

// Sales calcula el resumen de ventas: transacciones, ingreso bruto y
// ganancia neta estimada.
func (uc *UseCase) Sales() SalesSummary {
	sum := SalesSummary{GrossRevenue: decimal.Zero, NetProfit: decimal.Zero}
	for _, s := range uc.store.Sales() {
		sum.Transactions++
		sum.GrossRevenue = sum.GrossRevenue.Add(s.Revenue())
		sum.NetProfit = sum.NetProfit.Add(s.Profit)
	}
	return sum
}

// CriticalAlerts cuenta las situaciones críticas abiertas.
func (uc *UseCase) CriticalAlerts() Alerts {
	a := Alerts{
		LowStock:         len(uc.LowStock()),
		PendingShipments: len(uc.PendingShipments()),
	}
	a.Total = a.LowStock + a.PendingShipments
	return a
}

// Full arma el reporte ejecutivo completo.
func (uc *UseCase) Full() FullReport {
	r := FullReport{Sales: uc.Sales()}
	for _, p := range uc.store.Products() {
		r.UniqueProducts++
		r.TotalStockUnits += p.Stock
		if p.Stock <= StockCritico {
			r.LowStockCount++
		}
	}
	shipments := uc.store.Shipments()
	r.TotalShipments = len(shipments)
	for _, e := range shipments {
		if e.Status == entity.ShipmentPendiente {
			r.PendingShipments++
		}
	}
	r.Tickets = len(uc.store.Tickets())
	return r
}

// Reorder devuelve las sugerencias de reposición vigentes.
func (uc *UseCase) Reorder() map[string]forecast.Suggestion {
	return uc.forecast.Cached()
}
