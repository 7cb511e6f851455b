// Package catalog notifica cambios de stock al sincronizador de catálogo
// externo (en el sistema original, la tienda WooCommerce). La entrega es
// fire-and-forget: el colaborador consume la notificación con su propia
// política de reintentos.
package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

// Webhook envía un POST JSON por cada cambio de stock. Una URL vacía
// desactiva el envío (útil también en tests).
type Webhook struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewWebhook construye el notificador.
func NewWebhook(url string, log *logger.Logger) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
	}
}

// StockChanged publica la notificación en segundo plano. Nunca bloquea al
// llamador; un fallo se registra y se descarta.
func (w *Webhook) StockChanged(sku string, stock int) {
	if w.url == "" {
		return
	}
	go w.post(sku, stock)
}

func (w *Webhook) post(sku string, stock int) {
	payload, _ := json.Marshal(map[string]any{
		"sku":   sku,
		"stock": stock,
		"at":    time.Now().UTC().Format(time.RFC3339),
	})
	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		w.log.Debug().Err(err).Str("sku", sku).Msg("notificación de catálogo falló, se descarta")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		w.log.Debug().Int("status", resp.StatusCode).Str("sku", sku).
			Msg("el catálogo externo rechazó la notificación, se descarta")
	}
}
