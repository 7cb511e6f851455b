package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aleburgosdev/mi-inventario/internal/application/dto"
	"github.com/aleburgosdev/mi-inventario/internal/state"
)

type syncChannel interface {
	Degraded() bool
	Persist(ctx context.Context)
}

type backupInfo interface {
	LastSaleCount() (int, error)
	LastWrittenAt() (time.Time, error)
}

// SyncHandler expone el estado del canal de sincronización y permite
// forzar un volcado del agregado.
type SyncHandler struct {
	channel syncChannel
	backup  backupInfo
	store   *state.Store
}

// NewSyncHandler construye el handler.
func NewSyncHandler(channel syncChannel, backup backupInfo, store *state.Store) *SyncHandler {
	return &SyncHandler{channel: channel, backup: backup, store: store}
}

// Status devuelve el estado de sincronización: modo degradado, marca del
// último respaldo y contadores de ventas en memoria y respaldo.
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	resp := dto.SyncStatusResponse{
		Degraded:  h.channel.Degraded(),
		SaleCount: h.store.SaleCount(),
	}
	if n, err := h.backup.LastSaleCount(); err == nil {
		resp.BackupCount = n
	}
	if t, err := h.backup.LastWrittenAt(); err == nil && !t.IsZero() {
		resp.LastBackup = t.Format(time.RFC3339)
	}
	return c.JSON(resp)
}

// Flush fuerza la persistencia inmediata del agregado completo.
func (h *SyncHandler) Flush(c *fiber.Ctx) error {
	h.channel.Persist(c.Context())
	return c.SendStatus(fiber.StatusAccepted)
}
