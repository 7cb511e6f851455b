package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Solo las operaciones genuinamente irresolubles llegan al llamador como
// error; los defectos de forma del agregado se reparan en silencio en la
// capa de reconciliación.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
