package remote

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

// FirebaseStore replica el agregado contra una Realtime Database, el mismo
// modelo del sistema original: un nodo único leído y escrito completo.
//
// El Admin SDK de Go no expone listeners de streaming, así que la
// suscripción se implementa por sondeo: se relee el nodo cada intervalo y
// solo se notifica cuando el contenido cambió.
type FirebaseStore struct {
	ref  *db.Ref
	poll time.Duration
	log  *logger.Logger
}

// FirebaseOptions parámetros de conexión y direccionamiento.
type FirebaseOptions struct {
	DatabaseURL     string
	CredentialsFile string // vacío = credenciales por defecto del entorno
	Path            string
	PollEvery       time.Duration
}

// NewFirebaseStore construye el almacén sobre Realtime Database.
func NewFirebaseStore(ctx context.Context, opts FirebaseOptions, log *logger.Logger) (*FirebaseStore, error) {
	conf := &firebase.Config{DatabaseURL: opts.DatabaseURL}
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, conf, clientOpts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, err
	}
	poll := opts.PollEvery
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &FirebaseStore{ref: client.NewRef(opts.Path), poll: poll, log: log}, nil
}

// ReadOnce lee el agregado crudo. Un nodo inexistente devuelve (nil, nil).
func (s *FirebaseStore) ReadOnce(ctx context.Context) (any, error) {
	var v any
	if err := s.ref.Get(ctx, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// WriteFull reemplaza el nodo completo.
func (s *FirebaseStore) WriteFull(ctx context.Context, snap *entity.Snapshot) error {
	return s.ref.Set(ctx, snap)
}

// Subscribe sondea el nodo y notifica cada cambio de contenido hasta que
// ctx se cancela. Los errores de lectura se reportan por onError y el
// sondeo continúa.
func (s *FirebaseStore) Subscribe(ctx context.Context, onChange func(raw any), onError func(error)) error {
	t := time.NewTicker(s.poll)
	defer t.Stop()

	var last [32]byte
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			var v any
			if err := s.ref.Get(ctx, &v); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				onError(err)
				continue
			}
			h := fingerprint(v)
			if h == last {
				continue
			}
			last = h
			onChange(v)
		}
	}
}

func fingerprint(v any) [32]byte {
	payload, err := json.Marshal(v)
	if err != nil {
		return [32]byte{}
	}
	return sha256.Sum256(payload)
}
