package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleburgosdev/mi-inventario/internal/infrastructure/catalog"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

func TestStockChanged_PublicaNotificacion(t *testing.T) {
	recibido := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		recibido <- body
	}))
	defer srv.Close()

	wh := catalog.NewWebhook(srv.URL, logger.Nop())
	wh.StockChanged("ABC", 25)

	select {
	case body := <-recibido:
		assert.Equal(t, "ABC", body["sku"])
		assert.Equal(t, 25.0, body["stock"])
		assert.NotEmpty(t, body["at"])
	case <-time.After(2 * time.Second):
		t.Fatal("la notificación nunca llegó al catálogo externo")
	}
}

func TestStockChanged_URLVaciaDesactivaElEnvio(t *testing.T) {
	wh := catalog.NewWebhook("", logger.Nop())
	// No debe intentar red alguna; basta con que no entre en pánico.
	wh.StockChanged("ABC", 25)
}

// Un catálogo caído no afecta al llamador: la notificación se descarta.
func TestStockChanged_FalloSeDescarta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close() // servidor ya cerrado: la conexión falla

	wh := catalog.NewWebhook(srv.URL, logger.Nop())
	wh.StockChanged("ABC", 25)
	time.Sleep(50 * time.Millisecond)
}
