package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleburgosdev/mi-inventario/internal/application/forecast"
	"github.com/aleburgosdev/mi-inventario/internal/application/reports"
	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/internal/state"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedStore arma un agregado con: dos productos (uno en stock crítico),
// dos ventas, dos envíos (uno pendiente) y un ticket.
func seedStore() *state.Store {
	store := state.New()
	store.SaveProduct(entity.Product{SKU: "ABC", Name: "Auriculares", Stock: 2})
	store.SaveProduct(entity.Product{SKU: "XYZ", Name: "Teclado", Stock: 50})
	store.AppendSale(entity.Sale{ID: "v1", SKU: "ABC", Qty: 2, UnitPrice: dec("10"), Profit: dec("8")})
	store.AppendSale(entity.Sale{ID: "v2", SKU: "XYZ", Qty: 1, UnitPrice: dec("25"), Profit: dec("5")})
	store.AppendShipment(entity.Shipment{ID: "e1", Customer: "Marta", SKU: "ABC", Status: entity.ShipmentPendiente})
	store.AppendShipment(entity.Shipment{ID: "e2", Customer: "Luis", SKU: "XYZ", Status: entity.ShipmentEntregado})
	store.AppendTicket(entity.Ticket{ID: "t1", Customer: "Marta", Total: dec("20")})
	return store
}

func newReports(store *state.Store) *reports.UseCase {
	return reports.NewUseCase(store, forecast.NewUseCase(store))
}

func TestLowStock_UmbralCritico(t *testing.T) {
	uc := newReports(seedStore())

	items := uc.LowStock()
	require.Len(t, items, 1)
	assert.Equal(t, "ABC", items[0].SKU)
	assert.Equal(t, 2, items[0].Stock)
}

func TestPendingShipments_SoloPendientes(t *testing.T) {
	uc := newReports(seedStore())

	pending := uc.PendingShipments()
	require.Len(t, pending, 1)
	assert.Equal(t, "e1", pending[0].ID)
}

func TestSales_ResumenFinanciero(t *testing.T) {
	uc := newReports(seedStore())

	s := uc.Sales()
	assert.Equal(t, 2, s.Transactions)
	assert.True(t, s.GrossRevenue.Equal(dec("45")), "10×2 + 25×1, got %s", s.GrossRevenue)
	assert.True(t, s.NetProfit.Equal(dec("13")))
}

func TestCriticalAlerts_Recuento(t *testing.T) {
	uc := newReports(seedStore())

	a := uc.CriticalAlerts()
	assert.Equal(t, 1, a.LowStock)
	assert.Equal(t, 1, a.PendingShipments)
	assert.Equal(t, 2, a.Total)
}

func TestFull_ReporteEjecutivo(t *testing.T) {
	uc := newReports(seedStore())

	r := uc.Full()
	assert.Equal(t, 2, r.UniqueProducts)
	assert.Equal(t, 52, r.TotalStockUnits)
	assert.Equal(t, 1, r.LowStockCount)
	assert.Equal(t, 2, r.Sales.Transactions)
	assert.Equal(t, 2, r.TotalShipments)
	assert.Equal(t, 1, r.PendingShipments)
	assert.Equal(t, 1, r.Tickets)
}

// ──────────────────────────────────────────────────────────────────────────────
// Asistente
// ──────────────────────────────────────────────────────────────────────────────

func newAssistant(store *state.Store, now time.Time) *reports.Assistant {
	fc := forecast.NewUseCase(store).WithClock(func() time.Time { return now })
	return reports.NewAssistant(reports.NewUseCase(store, fc))
}

func TestAssistant_EnrutadoPorPalabraClave(t *testing.T) {
	store := seedStore()
	asistente := newAssistant(store, time.Now())

	casos := []struct {
		consulta string
		contiene string
	}{
		{"stock bajo", "stock crítico"},
		{"¿cuántas alertas hay?", "tareas críticas"},
		{"envíos pendientes", "envíos pendientes"},
		{"resumen de ventas", "Resumen de ventas: 2 transacciones"},
		{"cuánta ganancia llevamos", "ganancia neta"},
		{"tickets guardados", "1 tickets"},
		{"dame el reporte", "Reporte ejecutivo"},
		{"inventario", "Reporte ejecutivo"},
		{"hola", "Puedes preguntar"},
		{"qwerty", "No entendí"},
	}
	for _, c := range casos {
		assert.Contains(t, asistente.Answer(c.consulta), c.contiene, "consulta %q", c.consulta)
	}
}

// "stock" a secas cae en stock bajo; la coincidencia exacta de "stock
// bajo" tiene prioridad sobre el sufijo "stock".
func TestAssistant_PalabraMasEspecificaPrimero(t *testing.T) {
	asistente := newAssistant(seedStore(), time.Now())

	assert.Contains(t, asistente.Answer("stock"), "stock crítico")
	assert.Contains(t, asistente.Answer("necesito revisar el stock bajo urgente"), "stock crítico")
}

func TestAssistant_SugerenciasDeReposicion(t *testing.T) {
	ahora := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	store := state.New()
	store.SaveProduct(entity.Product{SKU: "XYZ", Name: "Teclado", Stock: 20})
	store.AppendSale(entity.Sale{
		ID: "v1", SKU: "XYZ", Qty: 30, UnitPrice: dec("10"),
		Date: ahora.AddDate(0, 0, -10),
	})

	asistente := newAssistant(store, ahora)
	respuesta := asistente.Answer("reordenar")
	assert.Contains(t, respuesta, "1 productos necesitan reordenarse")
	assert.Contains(t, respuesta, "Teclado")
	assert.Contains(t, respuesta, "pedido sugerido 225 unidades")

	sinRiesgo := newAssistant(state.New(), ahora)
	assert.Contains(t, sinRiesgo.Answer("predecir"), "No hay productos con riesgo")
}
