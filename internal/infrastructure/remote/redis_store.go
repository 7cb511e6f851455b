// Package remote contiene las implementaciones del almacén remoto
// compartido del agregado. Todas replican el mismo modelo: un único valor
// direccionable que se lee, se escribe completo y al que se puede
// suscribir; sin merge por campo.
package remote

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
)

// RedisStore guarda el agregado serializado bajo una clave y publica cada
// escritura en un canal pub/sub. Todo suscriptor (incluido el propio
// escritor) recibe el snapshot completo por mensaje.
type RedisStore struct {
	rdb     *redis.Client
	key     string
	channel string
	log     *logger.Logger
}

// RedisOptions parámetros de conexión y direccionamiento.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
	Channel  string
}

// NewRedisStore construye el almacén sobre Redis.
func NewRedisStore(opts RedisOptions, log *logger.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisStore{rdb: rdb, key: opts.Key, channel: opts.Channel, log: log}
}

// ReadOnce lee el agregado crudo. Una clave inexistente devuelve (nil, nil).
func (s *RedisStore) ReadOnce(ctx context.Context) (any, error) {
	val, err := s.rdb.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.decode([]byte(val)), nil
}

// WriteFull reemplaza el agregado y notifica a los suscriptores. La
// escritura es del agregado completo: last-writer-wins.
func (s *RedisStore) WriteFull(ctx context.Context, snap *entity.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.key, payload, 0)
	pipe.Publish(ctx, s.channel, payload)
	_, err = pipe.Exec(ctx)
	return err
}

// Subscribe entrega cada snapshot publicado hasta que ctx se cancela.
func (s *RedisStore) Subscribe(ctx context.Context, onChange func(raw any), onError func(error)) error {
	sub := s.rdb.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			onChange(s.decode([]byte(msg.Payload)))
		}
	}
}

// Close cierra la conexión.
func (s *RedisStore) Close() error { return s.rdb.Close() }

// decode deserializa best-effort: un payload ilegible se entrega como nil
// para que la guardia de reconciliación lo repare, no es un error fatal.
func (s *RedisStore) decode(payload []byte) any {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		s.log.Warn().Err(err).Msg("agregado remoto ilegible, se entrega vacío a la reconciliación")
		return nil
	}
	return v
}
