// Package ports define los contratos que los casos de uso esperan de la
// infraestructura.
package ports

import "context"

// Persister empuja el agregado completo por el canal de sincronización
// (respaldo local síncrono + escritura remota asíncrona). Toda mutación
// local termina en una llamada a Persist.
type Persister interface {
	Persist(ctx context.Context)
}

// StockNotifier avisa al sincronizador de catálogo externo que el stock de
// un SKU cambió. Es fire-and-forget: nunca bloquea ni revierte la
// transición que lo disparó; sus fallos se tragan en la frontera.
type StockNotifier interface {
	StockChanged(sku string, stock int)
}
