package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Remote   RemoteConfig
	Backup   BackupConfig
	Catalog  CatalogConfig
	Watchdog WatchdogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RemoteConfig configuración del almacén remoto del agregado.
// Driver "redis" usa GET/SET más pub/sub; "firebase" usa Realtime Database
// con suscripción por sondeo (el Admin SDK de Go no ofrece listeners).
type RemoteConfig struct {
	Driver string // redis | firebase

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string // clave bajo la que vive el agregado serializado
	RedisChannel  string // canal pub/sub de notificación de cambios

	FirebaseDatabaseURL     string
	FirebaseCredentialsFile string
	FirebasePath            string // ruta del agregado dentro de la base
	FirebasePollSeconds     int
}

// BackupConfig configuración del respaldo local durable.
type BackupConfig struct {
	Path string // archivo sqlite privado del proceso
}

// CatalogConfig webhook del sincronizador de catálogo externo.
// URL vacía desactiva las notificaciones.
type CatalogConfig struct {
	WebhookURL string
}

// WatchdogConfig período del chequeo de rezago del respaldo.
type WatchdogConfig struct {
	Seconds int // 0 desactiva el watchdog
}

// Load lee la configuración desde variables de entorno (y opcionalmente
// desde archivo). Las env vars tienen prioridad. Nombres esperados:
// APP_ENV, HTTP_PORT, REMOTE_DRIVER, REDIS_ADDR, BACKUP_PATH, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "mi-inventario"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Remote: RemoteConfig{
			Driver:                  getString(v, "REMOTE_DRIVER", "redis"),
			RedisAddr:               getString(v, "REDIS_ADDR", "localhost:6379"),
			RedisPassword:           getString(v, "REDIS_PASSWORD", ""),
			RedisDB:                 getInt(v, "REDIS_DB", 0),
			RedisKey:                getString(v, "REDIS_KEY", "inventario:aggregate"),
			RedisChannel:            getString(v, "REDIS_CHANNEL", "inventario:changes"),
			FirebaseDatabaseURL:     getString(v, "FIREBASE_DATABASE_URL", ""),
			FirebaseCredentialsFile: getString(v, "FIREBASE_CREDENTIALS_FILE", ""),
			FirebasePath:            getString(v, "FIREBASE_PATH", "inventario"),
			FirebasePollSeconds:     getInt(v, "FIREBASE_POLL_SECONDS", 5),
		},
		Backup: BackupConfig{
			Path: getString(v, "BACKUP_PATH", "./inventario-backup.db"),
		},
		Catalog: CatalogConfig{
			WebhookURL: getString(v, "CATALOG_WEBHOOK_URL", ""),
		},
		Watchdog: WatchdogConfig{
			Seconds: getInt(v, "WATCHDOG_SECONDS", 30),
		},
	}

	if cfg.Remote.Driver != "redis" && cfg.Remote.Driver != "firebase" {
		return nil, fmt.Errorf("REMOTE_DRIVER desconocido: %q", cfg.Remote.Driver)
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
