package sync

import (
	"context"

	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
)

// RemoteStore es el almacén remoto compartido del agregado. Cada cambio
// remoto entrega el snapshot completo; cada escritura lo reemplaza completo
// (last-writer-wins, sin merge por campo).
type RemoteStore interface {
	// ReadOnce lee el agregado crudo una sola vez. Un agregado inexistente
	// devuelve (nil, nil): la guardia lo reconstruye desde vacío.
	ReadOnce(ctx context.Context) (any, error)
	// Subscribe entrega cada snapshot crudo publicado por cualquier
	// escritor (incluido este proceso) hasta que ctx se cancela.
	Subscribe(ctx context.Context, onChange func(raw any), onError func(error)) error
	// WriteFull reemplaza el agregado remoto completo.
	WriteFull(ctx context.Context, snap *entity.Snapshot) error
}

// BackupStore es el respaldo local durable, privado del proceso. Guarda el
// último agregado serializado, la marca de la última escritura y el
// contador de ventas que usa el watchdog.
type BackupStore interface {
	Save(snap *entity.Snapshot) error
	// Load devuelve (nil, nil) si aún no hay respaldo.
	Load() (*entity.Snapshot, error)
	LastSaleCount() (int, error)
}
