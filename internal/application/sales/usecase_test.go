package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleburgosdev/mi-inventario/internal/application/sales"
	"github.com/aleburgosdev/mi-inventario/internal/domain"
	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/internal/state"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

type fakePersister struct{ calls int }

func (f *fakePersister) Persist(_ context.Context) { f.calls++ }

type fakeNotifier struct {
	sku   string
	stock int
	calls int
}

func (f *fakeNotifier) StockChanged(sku string, stock int) {
	f.sku, f.stock = sku, stock
	f.calls++
}

type fakeForecast struct{ invalidations int }

func (f *fakeForecast) Invalidate() { f.invalidations++ }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*state.Store, *sales.UseCase, *fakePersister, *fakeNotifier, *fakeForecast) {
	t.Helper()
	store := state.New()
	store.SaveProduct(entity.Product{
		SKU:        "ABC",
		Name:       "Auriculares",
		Stock:      10,
		Cost:       dec("4"),
		Price:      dec("10"),
		Shipping:   dec("1"),
		Commission: dec("0.1"),
	})
	persist := &fakePersister{}
	notifier := &fakeNotifier{}
	fc := &fakeForecast{}
	uc := sales.NewUseCase(store, persist, notifier, fc, logger.Nop())
	return store, uc, persist, notifier, fc
}

// Venta de 2 unidades a precio de lista: ganancia unitaria
// 10 − 4 − 1 − 10×0.1 = 4, total 8. El stock baja y se notifica.
func TestRegister_VentaExitosa(t *testing.T) {
	store, uc, persist, notifier, fc := setup(t)
	when := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	uc.WithClock(func() time.Time { return when })

	sale, err := uc.Register(context.Background(), sales.Input{
		SKU: "ABC", Qty: 2, Customer: "Marta",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, sale.ID)
	assert.True(t, when.Equal(sale.Date))
	assert.True(t, sale.UnitPrice.Equal(dec("10")), "precio en cero usa el de lista")
	assert.True(t, sale.Profit.Equal(dec("8")), "got %s", sale.Profit)
	assert.Empty(t, sale.ShipmentID)

	p, _ := store.Product("ABC")
	assert.Equal(t, 8, p.Stock)
	assert.Equal(t, 1, store.SaleCount())

	assert.Equal(t, 1, persist.calls)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, 8, notifier.stock)
	assert.Equal(t, 1, fc.invalidations, "una venta invalida la caché del predictor")
}

// Una venta que excede el stock se rechaza antes de mutar nada.
func TestRegister_StockInsuficienteNoMuta(t *testing.T) {
	store, uc, persist, notifier, fc := setup(t)

	_, err := uc.Register(context.Background(), sales.Input{SKU: "ABC", Qty: 11})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := store.Product("ABC")
	assert.Equal(t, 10, p.Stock, "el stock no cambió")
	assert.Equal(t, 0, store.SaleCount(), "no se anexó la venta")
	assert.Equal(t, 0, persist.calls)
	assert.Equal(t, 0, notifier.calls)
	assert.Equal(t, 0, fc.invalidations)
}

// Vender exactamente el stock disponible deja el stock en cero.
func TestRegister_VentaDejaStockEnCero(t *testing.T) {
	store, uc, _, _, _ := setup(t)

	_, err := uc.Register(context.Background(), sales.Input{SKU: "ABC", Qty: 10})
	require.NoError(t, err)

	p, _ := store.Product("ABC")
	assert.Equal(t, 0, p.Stock)
}

// Un precio explícito anula el de lista y cambia la ganancia.
func TestRegister_PrecioExplicito(t *testing.T) {
	_, uc, _, _, _ := setup(t)

	// 12 − 4 − 1 − 12×0.1 = 5.8 por unidad.
	sale, err := uc.Register(context.Background(), sales.Input{
		SKU: "ABC", Qty: 1, UnitPrice: dec("12"),
	})
	require.NoError(t, err)
	assert.True(t, sale.UnitPrice.Equal(dec("12")))
	assert.True(t, sale.Profit.Equal(dec("5.8")), "got %s", sale.Profit)
}

// WithShipment crea además un envío Pendiente enlazado a la venta.
func TestRegister_ConEnvio(t *testing.T) {
	store, uc, _, _, _ := setup(t)

	sale, err := uc.Register(context.Background(), sales.Input{
		SKU: "ABC", Qty: 1, Customer: "Marta", WithShipment: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, sale.ShipmentID)

	envios := store.Shipments()
	require.Len(t, envios, 1)
	assert.Equal(t, sale.ShipmentID, envios[0].ID)
	assert.Equal(t, entity.ShipmentPendiente, envios[0].Status)
	assert.Equal(t, "Marta", envios[0].Customer)
	assert.Equal(t, "ABC", envios[0].SKU)
}

func TestRegister_EntradasInvalidas(t *testing.T) {
	_, uc, _, _, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, sales.Input{SKU: "", Qty: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(ctx, sales.Input{SKU: "ABC", Qty: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(ctx, sales.Input{SKU: "ABC", Qty: 1, UnitPrice: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(ctx, sales.Input{SKU: "NOPE", Qty: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
