// Package sync implementa el canal de sincronización: mantiene el State
// Store local eventualmente consistente con un agregado remoto compartido
// entre escritores independientes.
//
// Limitación conocida (preservada a propósito): la consistencia es
// last-writer-wins a granularidad del agregado COMPLETO. Dos procesos que
// mutan campos distintos pueden pisarse entre sí porque cada escritura
// reemplaza todo el agregado. No hay merge por campo ni tokens de
// concurrencia optimista; la única mitigación es la protección del campo
// de pedidos en la guardia de reconciliación.
package sync

import (
	"context"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/aleburgosdev/mi-inventario/internal/application/reconcile"
	"github.com/aleburgosdev/mi-inventario/internal/state"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

const remoteWriteTimeout = 10 * time.Second

// Channel replica el State Store hacia/desde el agregado remoto y el
// respaldo local durable. Es el dueño de la ruta de escritura y del modo
// degradado.
type Channel struct {
	store  *state.Store
	guard  *reconcile.Guard
	remote RemoteStore
	backup BackupStore
	log    *logger.Logger

	watchdogEvery time.Duration
	degraded      atomic.Bool

	mu        stdsync.Mutex
	listeners []func()
	inflight  stdsync.WaitGroup
}

// New construye el canal. watchdogEvery define el período del chequeo de
// rezago del respaldo; cero lo desactiva.
func New(store *state.Store, guard *reconcile.Guard, remote RemoteStore, backup BackupStore, log *logger.Logger, watchdogEvery time.Duration) *Channel {
	return &Channel{
		store:         store,
		guard:         guard,
		remote:        remote,
		backup:        backup,
		log:           log,
		watchdogEvery: watchdogEvery,
	}
}

// OnReplace registra un callback que se invoca cada vez que el agregado se
// reemplaza por un snapshot remoto (consumidores derivados invalidan cachés).
func (c *Channel) OnReplace(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Start carga el respaldo local como verdad interina, lee el agregado
// remoto una vez y deja corriendo la suscripción y el watchdog hasta que
// ctx se cancele.
func (c *Channel) Start(ctx context.Context) {
	if snap, err := c.backup.Load(); err != nil {
		c.log.Warn().Err(err).Msg("respaldo local ilegible, se arranca desde vacío")
	} else if snap != nil {
		c.store.Replace(snap)
		c.log.Info().Int("ventas", c.store.SaleCount()).Msg("estado interino cargado desde respaldo local")
	}

	if raw, err := c.remote.ReadOnce(ctx); err != nil {
		c.degraded.Store(true)
		c.log.Warn().Err(err).Msg("lectura remota inicial falló, modo degradado con respaldo local")
	} else {
		c.Apply(ctx, raw)
		c.degraded.Store(false)
	}

	go func() {
		err := c.remote.Subscribe(ctx,
			func(raw any) { c.Apply(ctx, raw) },
			func(err error) {
				c.degraded.Store(true)
				c.log.Warn().Err(err).Msg("error en la suscripción remota")
			})
		if err != nil && ctx.Err() == nil {
			c.degraded.Store(true)
			c.log.Error().Err(err).Msg("suscripción remota terminó")
		}
	}()

	if c.watchdogEvery > 0 {
		go c.watchdog(ctx)
	}
}

// Apply pasa un snapshot crudo por la guardia de reconciliación, reemplaza
// el State Store y notifica a los dependientes. Si la guardia reparó algo,
// el snapshot limpio se persiste de inmediato.
func (c *Channel) Apply(ctx context.Context, raw any) {
	prev := c.store.Snapshot()
	clean, warns := c.guard.Reconcile(raw, prev)
	c.store.Replace(clean)

	for _, w := range warns {
		c.log.Warn().Str("defecto", w).Msg("reconciliación reparó el snapshot")
	}

	c.mu.Lock()
	listeners := append([]func(){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}

	if len(warns) > 0 {
		c.Persist(ctx)
	}
}

// Persist es la ruta de escritura: (1) persiste el agregado completo en el
// respaldo local de forma síncrona, (2) lo escribe al remoto de forma
// asíncrona. Un fallo remoto no revierte el estado local: el respaldo pasa
// a ser la verdad interina y el canal queda en modo degradado.
func (c *Channel) Persist(ctx context.Context) {
	snap := c.store.Snapshot()

	if err := c.backup.Save(snap); err != nil {
		c.log.Error().Err(err).Msg("fallo al guardar el respaldo local")
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		// La escritura remota sobrevive a la petición que la disparó:
		// solo se desacopla la cancelación, no los valores.
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), remoteWriteTimeout)
		defer cancel()
		if err := c.remote.WriteFull(wctx, snap); err != nil {
			c.degraded.Store(true)
			c.log.Warn().Err(err).Msg("escritura remota falló, respaldo local como verdad interina")
			return
		}
		c.degraded.Store(false)
	}()
}

// Degraded indica si la última operación remota falló y el proceso está
// operando contra el respaldo local.
func (c *Channel) Degraded() bool { return c.degraded.Load() }

// Drain espera las escrituras remotas en vuelo (apagado ordenado y tests).
func (c *Channel) Drain() { c.inflight.Wait() }

// watchdog compara periódicamente el contador de ventas en memoria contra
// el del último respaldo; si la memoria va adelante, fuerza un re-volcado.
// Es una red de seguridad heurística, no una garantía de correctitud.
func (c *Channel) watchdog(ctx context.Context) {
	t := time.NewTicker(c.watchdogEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.CheckBackupLag(ctx)
		}
	}
}

// CheckBackupLag ejecuta un ciclo del watchdog.
func (c *Channel) CheckBackupLag(ctx context.Context) {
	mem := c.store.SaleCount()
	saved, err := c.backup.LastSaleCount()
	if err != nil {
		c.log.Warn().Err(err).Msg("watchdog: no se pudo leer el contador del respaldo")
		return
	}
	if mem > saved {
		c.log.Warn().Int("memoria", mem).Int("respaldo", saved).
			Msg("watchdog: la memoria va adelante del respaldo, se fuerza re-volcado")
		c.Persist(ctx)
	}
}
