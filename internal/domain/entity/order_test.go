package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
)

func TestCanTransition(t *testing.T) {
	casos := []struct {
		from, to string
		ok       bool
	}{
		{entity.OrderPendiente, entity.OrderEnTransito, true},
		{entity.OrderPendiente, entity.OrderEntregado, true},
		{entity.OrderPendiente, entity.OrderCancelado, true},
		{entity.OrderEnTransito, entity.OrderEntregado, true},
		{entity.OrderEnTransito, entity.OrderCancelado, true},

		// Repetir el estado actual nunca está permitido.
		{entity.OrderPendiente, entity.OrderPendiente, false},
		{entity.OrderEntregado, entity.OrderEntregado, false},

		// Los estados terminales no admiten salida.
		{entity.OrderEntregado, entity.OrderCancelado, false},
		{entity.OrderCancelado, entity.OrderPendiente, false},

		// No hay vuelta atrás.
		{entity.OrderEnTransito, entity.OrderPendiente, false},
	}
	for _, c := range casos {
		assert.Equal(t, c.ok, entity.CanTransition(c.from, c.to), "%s → %s", c.from, c.to)
	}
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, entity.IsTerminalStatus(entity.OrderEntregado))
	assert.True(t, entity.IsTerminalStatus(entity.OrderCancelado))
	assert.False(t, entity.IsTerminalStatus(entity.OrderPendiente))
	assert.False(t, entity.IsTerminalStatus(entity.OrderEnTransito))
}

func TestNewOrderID_FormatoYUnicidad(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := entity.NewOrderID(now)
	b := entity.NewOrderID(now)

	assert.Regexp(t, `^P\d{13}-[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b, "el sufijo aleatorio distingue ids con la misma marca de tiempo")
}
