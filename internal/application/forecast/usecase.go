// Package forecast implementa el predictor de reposición: a partir de la
// velocidad de venta de los últimos 90 días proyecta qué SKUs se agotan
// pronto y sugiere cuánto pedir. Función pura de (historial de ventas,
// inventario); el único efecto es cachear su resultado para consumidores
// derivados como el asistente.
package forecast

import (
	"math"
	"sync"
	"time"

	"github.com/aleburgosdev/mi-inventario/internal/state"
)

const (
	windowDays    = 90 // ventana de ventas considerada
	riskThreshold = 30 // días de stock restantes que disparan la alerta
	coverageDays  = 75 // 60 días de cobertura + 15 de stock de seguridad
)

// Suggestion es la sugerencia de reposición de un SKU en riesgo.
type Suggestion struct {
	SKU              string  `json:"sku"`
	Name             string  `json:"name"`
	Stock            int     `json:"stock"`
	DailyConsumption float64 `json:"dailyConsumption"`
	DaysRemaining    float64 `json:"daysRemaining"`
	SuggestedQty     int     `json:"reorderQty"`
}

// UseCase calcula y cachea las sugerencias de reposición.
type UseCase struct {
	store *state.Store
	now   func() time.Time

	mu     sync.Mutex
	cached map[string]Suggestion
}

// NewUseCase construye el predictor.
func NewUseCase(store *state.Store) *UseCase {
	return &UseCase{store: store, now: time.Now}
}

// WithClock fija el reloj del predictor (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Suggestions recalcula las sugerencias de reposición.
//
// Por SKU: consumo-diario = unidades vendidas en la ventana / máx(1,
// ceil(días desde la primera venta en ventana)); si los días de stock
// restantes (stock / consumo) no superan el umbral, se sugiere pedir
// ceil(consumo × 75). SKUs sin consumo o sin stock se omiten: la división
// no está definida para ellos.
func (uc *UseCase) Suggestions() map[string]Suggestion {
	now := uc.now()
	since := now.AddDate(0, 0, -windowDays)

	type velocity struct {
		qty      int
		earliest time.Time
	}
	perSKU := map[string]velocity{}
	for _, s := range uc.store.Sales() {
		if s.Date.Before(since) || s.Date.After(now) {
			continue
		}
		v := perSKU[s.SKU]
		v.qty += s.Qty
		if v.earliest.IsZero() || s.Date.Before(v.earliest) {
			v.earliest = s.Date
		}
		perSKU[s.SKU] = v
	}

	out := map[string]Suggestion{}
	for _, p := range uc.store.Products() {
		v, ok := perSKU[p.SKU]
		if !ok || v.qty == 0 || p.Stock == 0 {
			continue
		}
		days := int(math.Ceil(now.Sub(v.earliest).Hours() / 24))
		if days < 1 {
			days = 1
		}
		daily := float64(v.qty) / float64(days)
		remaining := float64(p.Stock) / daily
		if remaining > riskThreshold {
			continue
		}
		out[p.SKU] = Suggestion{
			SKU:              p.SKU,
			Name:             p.Name,
			Stock:            p.Stock,
			DailyConsumption: daily,
			DaysRemaining:    remaining,
			SuggestedQty:     int(math.Ceil(daily * coverageDays)),
		}
	}

	uc.mu.Lock()
	uc.cached = out
	uc.mu.Unlock()
	return out
}

// Cached devuelve el último resultado calculado, recalculando si todavía
// no existe uno.
func (uc *UseCase) Cached() map[string]Suggestion {
	uc.mu.Lock()
	c := uc.cached
	uc.mu.Unlock()
	if c == nil {
		return uc.Suggestions()
	}
	return c
}

// Invalidate descarta la caché; se invoca cuando el agregado se reemplaza
// o una venta/entrega cambia el stock.
func (uc *UseCase) Invalidate() {
	uc.mu.Lock()
	uc.cached = nil
	uc.mu.Unlock()
}
