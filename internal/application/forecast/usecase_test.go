package forecast_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleburgosdev/mi-inventario/internal/application/forecast"
	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/internal/state"
)

var ahora = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func venta(sku string, qty int, when time.Time) entity.Sale {
	return entity.Sale{
		ID:        "v-" + when.Format("20060102150405"),
		SKU:       sku,
		Qty:       qty,
		UnitPrice: decimal.NewFromInt(10),
		Date:      when,
	}
}

// 30 unidades vendidas en los últimos 10 días con stock 20: consumo diario
// 3.0, quedan ~6.7 días (en riesgo) y se sugiere pedir 3 × 75 = 225.
func TestSuggestions_SKUEnRiesgo(t *testing.T) {
	store := state.New()
	store.SaveProduct(entity.Product{SKU: "XYZ", Name: "Teclado", Stock: 20})
	store.AppendSale(venta("XYZ", 30, ahora.AddDate(0, 0, -10)))

	uc := forecast.NewUseCase(store).WithClock(func() time.Time { return ahora })
	sugs := uc.Suggestions()

	s, ok := sugs["XYZ"]
	require.True(t, ok, "el SKU en riesgo aparece en las sugerencias")
	assert.InDelta(t, 3.0, s.DailyConsumption, 1e-9)
	assert.InDelta(t, 6.67, s.DaysRemaining, 0.01)
	assert.Equal(t, 225, s.SuggestedQty, "cobertura de 60 días + 15 de seguridad")
	assert.Equal(t, 20, s.Stock)
}

// Un SKU con stock holgado para más de 30 días no genera sugerencia.
func TestSuggestions_StockHolgadoNoAlerta(t *testing.T) {
	store := state.New()
	store.SaveProduct(entity.Product{SKU: "XYZ", Stock: 500})
	store.AppendSale(venta("XYZ", 30, ahora.AddDate(0, 0, -10)))

	uc := forecast.NewUseCase(store).WithClock(func() time.Time { return ahora })
	assert.Empty(t, uc.Suggestions(), "500 / 3.0 por día supera el umbral de riesgo")
}

// Los SKUs sin consumo en la ventana o sin stock se omiten: la proyección
// no está definida para ellos.
func TestSuggestions_OmiteSinConsumoYSinStock(t *testing.T) {
	store := state.New()
	store.SaveProduct(entity.Product{SKU: "SIN-VENTAS", Stock: 10})
	store.SaveProduct(entity.Product{SKU: "SIN-STOCK", Stock: 0})
	store.SaveProduct(entity.Product{SKU: "VIEJO", Stock: 10})
	store.AppendSale(venta("SIN-STOCK", 5, ahora.AddDate(0, 0, -3)))
	// Venta fuera de la ventana de 90 días: no cuenta.
	store.AppendSale(venta("VIEJO", 50, ahora.AddDate(0, 0, -120)))

	uc := forecast.NewUseCase(store).WithClock(func() time.Time { return ahora })
	assert.Empty(t, uc.Suggestions())
}

// Una venta de hoy mismo usa 1 día como mínimo divisor.
func TestSuggestions_VentaDeHoyUsaUnDia(t *testing.T) {
	store := state.New()
	store.SaveProduct(entity.Product{SKU: "XYZ", Stock: 4})
	store.AppendSale(venta("XYZ", 6, ahora))

	uc := forecast.NewUseCase(store).WithClock(func() time.Time { return ahora })
	s, ok := uc.Suggestions()["XYZ"]
	require.True(t, ok)
	assert.InDelta(t, 6.0, s.DailyConsumption, 1e-9)
}

func TestCached_RecalculaSoloTrasInvalidate(t *testing.T) {
	store := state.New()
	store.SaveProduct(entity.Product{SKU: "XYZ", Stock: 20})
	store.AppendSale(venta("XYZ", 30, ahora.AddDate(0, 0, -10)))

	uc := forecast.NewUseCase(store).WithClock(func() time.Time { return ahora })

	primera := uc.Cached()
	require.Contains(t, primera, "XYZ")

	// El stock sube por una entrega; la caché sigue sirviendo lo viejo
	// hasta que alguien la invalide.
	require.NoError(t, store.AdjustStock("XYZ", 480))
	assert.Contains(t, uc.Cached(), "XYZ", "caché vigente hasta invalidar")

	uc.Invalidate()
	assert.Empty(t, uc.Cached(), "tras invalidar se recalcula con el stock nuevo")
}
