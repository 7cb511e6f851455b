package reconcile

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Helpers de coerción best-effort. El almacén remoto no impone esquema:
// los valores pueden llegar como número, cadena, nulo o basura según qué
// proceso los escribió. Cada helper devuelve el valor coercionado y si la
// lectura fue limpia (sin reparación).

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt acepta números JSON (float64), enteros y cadenas numéricas.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		if n = strings.TrimSpace(n); n != "" {
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return int(f), false
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// asDecimal acepta números JSON y cadenas numéricas (los procesos que
// serializan con decimal escriben cadenas; el original escribía números).
func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(n)); err == nil {
			return d, true
		}
		return decimal.Zero, false
	default:
		return decimal.Zero, false
	}
}

// asTime acepta RFC3339 y marcas de tiempo Unix en milisegundos o segundos.
func asTime(v any) time.Time {
	switch n := v.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, n); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, n); err == nil {
			return t
		}
	case float64:
		// Heurística: Date.now() produce milisegundos (>1e12 desde 2001).
		if n > 1e12 {
			return time.UnixMilli(int64(n))
		}
		if n > 0 {
			return time.Unix(int64(n), 0)
		}
	}
	return time.Time{}
}
