package sync_test

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleburgosdev/mi-inventario/internal/application/reconcile"
	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/internal/state"
	syncchan "github.com/aleburgosdev/mi-inventario/internal/sync"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fakeRemote struct {
	mu     stdsync.Mutex
	raw    any
	fail   bool
	writes []*entity.Snapshot
}

func (f *fakeRemote) ReadOnce(_ context.Context) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("remoto caído")
	}
	return f.raw, nil
}

func (f *fakeRemote) Subscribe(ctx context.Context, _ func(any), _ func(error)) error {
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeRemote) WriteFull(_ context.Context, snap *entity.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("remoto caído")
	}
	f.writes = append(f.writes, snap)
	return nil
}

func (f *fakeRemote) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

type fakeBackup struct {
	mu        stdsync.Mutex
	saved     *entity.Snapshot
	saleCount int
	saves     int
}

func (f *fakeBackup) Save(snap *entity.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = snap.Clone()
	f.saleCount = len(snap.Sales)
	f.saves++
	return nil
}

func (f *fakeBackup) Load() (*entity.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		return nil, nil
	}
	return f.saved.Clone(), nil
}

func (f *fakeBackup) LastSaleCount() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saleCount, nil
}

func (f *fakeBackup) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func newChannel(remote *fakeRemote, backup *fakeBackup) (*syncchan.Channel, *state.Store) {
	store := state.New()
	ch := syncchan.New(store, reconcile.New(), remote, backup, logger.Nop(), 0)
	return ch, store
}

// ──────────────────────────────────────────────────────────────────────────────
// Ruta de escritura
// ──────────────────────────────────────────────────────────────────────────────

// Persist guarda el respaldo local de forma síncrona y el remoto de forma
// asíncrona; tras Drain la escritura remota está completa.
func TestPersist_RespaldoSincronoRemotoAsincrono(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackup{}
	ch, store := newChannel(remote, backup)

	store.SaveProduct(entity.Product{SKU: "ABC", Stock: 5})
	store.AppendSale(entity.Sale{ID: "v1", SKU: "ABC", Qty: 1})

	ch.Persist(context.Background())

	// El respaldo ya está escrito cuando Persist retorna.
	n, err := backup.LastSaleCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ch.Drain()
	require.Equal(t, 1, remote.writeCount())
	assert.Contains(t, remote.writes[0].Items, "ABC")
	assert.False(t, ch.Degraded())
}

// Un fallo remoto no revierte nada: el respaldo local queda como verdad
// interina y el canal pasa a modo degradado.
func TestPersist_FalloRemotoDejaModoDegradado(t *testing.T) {
	remote := &fakeRemote{fail: true}
	backup := &fakeBackup{}
	ch, store := newChannel(remote, backup)

	store.AppendSale(entity.Sale{ID: "v1"})
	ch.Persist(context.Background())
	ch.Drain()

	assert.True(t, ch.Degraded())
	n, _ := backup.LastSaleCount()
	assert.Equal(t, 1, n, "el respaldo local se escribió de todos modos")

	// Cuando el remoto vuelve, la siguiente escritura limpia el modo degradado.
	remote.mu.Lock()
	remote.fail = false
	remote.mu.Unlock()
	ch.Persist(context.Background())
	ch.Drain()
	assert.False(t, ch.Degraded())
}

// ──────────────────────────────────────────────────────────────────────────────
// Ruta de lectura
// ──────────────────────────────────────────────────────────────────────────────

// Apply reconcilia el snapshot crudo, reemplaza el agregado y notifica a
// los consumidores registrados con OnReplace.
func TestApply_ReemplazaYNotifica(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackup{}
	ch, store := newChannel(remote, backup)

	notificado := 0
	ch.OnReplace(func() { notificado++ })

	// Snapshot genuinamente limpio: todos los campos numéricos presentes,
	// para que la guardia no tenga nada que reparar.
	ch.Apply(context.Background(), map[string]any{
		"items": map[string]any{
			"XYZ": map[string]any{
				"name":       "Teclado",
				"stock":      3.0,
				"cost":       2.0,
				"price":      5.0,
				"shipping":   0.5,
				"commission": 0.1,
			},
		},
		"sales":          []any{},
		"suppliers":      []any{},
		"shipments":      []any{},
		"tickets":        []any{},
		"purchaseOrders": []any{},
	})

	p, ok := store.Product("XYZ")
	require.True(t, ok)
	assert.Equal(t, 3, p.Stock)
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 1, notificado)
	ch.Drain()
	assert.Equal(t, 0, backup.saveCount(), "un snapshot limpio no dispara persistencia")
}

// Un snapshot que la guardia tuvo que reparar se persiste de inmediato.
func TestApply_SnapshotReparadoSePersiste(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackup{}
	ch, _ := newChannel(remote, backup)

	ch.Apply(context.Background(), "basura total")

	ch.Drain()
	assert.Equal(t, 1, backup.saveCount(), "la reparación se vuelca al respaldo")
	assert.Equal(t, 1, remote.writeCount(), "y al remoto")
}

// La protección de pedidos sobrevive el ciclo Apply: un snapshot remoto
// con el campo de pedidos corrupto no borra los pedidos retenidos.
func TestApply_ProtegePedidosRetenidos(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackup{}
	ch, store := newChannel(remote, backup)

	store.Mutate(func(s *entity.Snapshot) {
		s.PurchaseOrders = append(s.PurchaseOrders, entity.PurchaseOrder{
			ID: "P1-x", Supplier: "Proveedor Sur", Status: entity.OrderPendiente,
		})
	})

	ch.Apply(context.Background(), map[string]any{
		"items":          map[string]any{},
		"sales":          []any{},
		"suppliers":      []any{},
		"shipments":      []any{},
		"tickets":        []any{},
		"purchaseOrders": nil,
	})

	ordenes := store.Orders()
	require.Len(t, ordenes, 1)
	assert.Equal(t, "P1-x", ordenes[0].ID)
	ch.Drain()
}

// ──────────────────────────────────────────────────────────────────────────────
// Arranque y watchdog
// ──────────────────────────────────────────────────────────────────────────────

// Start carga el respaldo local como verdad interina y luego aplica la
// lectura remota inicial.
func TestStart_CargaRespaldoYLuegoRemoto(t *testing.T) {
	seed := entity.NewSnapshot()
	seed.Items["LOCAL"] = entity.Product{SKU: "LOCAL", Stock: 1}
	backup := &fakeBackup{}
	require.NoError(t, backup.Save(seed))

	remote := &fakeRemote{raw: map[string]any{
		"items": map[string]any{
			"REMOTO": map[string]any{"name": "r", "stock": 2.0},
		},
		"sales":          []any{},
		"suppliers":      []any{},
		"shipments":      []any{},
		"tickets":        []any{},
		"purchaseOrders": []any{},
	}}

	ch, store := newChannel(remote, backup)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch.Start(ctx)

	// La lectura remota reemplaza el agregado completo (last-writer-wins).
	_, ok := store.Product("REMOTO")
	assert.True(t, ok)
	_, ok = store.Product("LOCAL")
	assert.False(t, ok)
	assert.False(t, ch.Degraded())
	ch.Drain()
}

// Si la lectura remota inicial falla, el proceso sigue con el respaldo
// local en modo degradado.
func TestStart_RemotoCaidoArrancaDegradado(t *testing.T) {
	seed := entity.NewSnapshot()
	seed.Items["LOCAL"] = entity.Product{SKU: "LOCAL", Stock: 1}
	backup := &fakeBackup{}
	require.NoError(t, backup.Save(seed))

	remote := &fakeRemote{fail: true}
	ch, store := newChannel(remote, backup)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch.Start(ctx)

	assert.True(t, ch.Degraded())
	_, ok := store.Product("LOCAL")
	assert.True(t, ok, "el respaldo local es la verdad interina")
}

// El watchdog detecta memoria adelante del respaldo y fuerza un re-volcado.
func TestCheckBackupLag_FuerzaRevolcado(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackup{}
	ch, store := newChannel(remote, backup)

	store.AppendSale(entity.Sale{ID: "v1"})

	ch.CheckBackupLag(context.Background())
	ch.Drain()

	n, _ := backup.LastSaleCount()
	assert.Equal(t, 1, n, "el watchdog volcó el agregado rezagado")

	// Con memoria y respaldo parejos no vuelve a volcar.
	saves := backup.saveCount()
	ch.CheckBackupLag(context.Background())
	ch.Drain()
	assert.Equal(t, saves, backup.saveCount())
}

// Drain espera las escrituras remotas en vuelo.
func TestDrain_EsperaEscriturasEnVuelo(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackup{}
	ch, store := newChannel(remote, backup)

	for i := 0; i < 5; i++ {
		store.AppendSale(entity.Sale{ID: time.Now().String()})
		ch.Persist(context.Background())
	}
	ch.Drain()
	assert.Equal(t, 5, remote.writeCount())
}
