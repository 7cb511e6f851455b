// Package backup implementa el respaldo local durable: un almacén
// clave-valor sqlite privado del proceso con el último agregado
// serializado, la marca de la última escritura y el contador de ventas
// que consulta el watchdog.
package backup

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aleburgosdev/mi-inventario/internal/domain/entity"
)

const (
	keyAggregate = "aggregate"
	keyWrittenAt = "written_at"
	keySaleCount = "sale_count"
)

// SQLite es el respaldo local sobre un archivo sqlite.
type SQLite struct {
	db *sql.DB
}

// NewSQLite abre (o crea) el archivo de respaldo.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Un solo escritor por proceso; sin pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS respaldo (
		clave TEXT PRIMARY KEY,
		valor TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Save persiste el agregado completo con marca de tiempo y contador de
// ventas, de forma atómica.
func (s *SQLite) Save(snap *entity.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, kv := range [][2]string{
		{keyAggregate, string(payload)},
		{keyWrittenAt, time.Now().UTC().Format(time.RFC3339Nano)},
		{keySaleCount, strconv.Itoa(len(snap.Sales))},
	} {
		if _, err := tx.Exec(
			`INSERT INTO respaldo (clave, valor) VALUES (?, ?)
			 ON CONFLICT(clave) DO UPDATE SET valor = excluded.valor`,
			kv[0], kv[1],
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load devuelve el último agregado respaldado, o (nil, nil) si todavía no
// existe respaldo.
func (s *SQLite) Load() (*entity.Snapshot, error) {
	val, err := s.get(keyAggregate)
	if err != nil {
		return nil, err
	}
	if val == "" {
		return nil, nil
	}
	snap := entity.NewSnapshot()
	if err := json.Unmarshal([]byte(val), snap); err != nil {
		return nil, err
	}
	// El respaldo lo escribe este mismo proceso, pero un agregado vacío
	// deserializa contenedores nulos; se normalizan.
	return snap.Clone(), nil
}

// LastSaleCount devuelve el contador de ventas del último respaldo (0 si
// no hay respaldo).
func (s *SQLite) LastSaleCount() (int, error) {
	val, err := s.get(keySaleCount)
	if err != nil || val == "" {
		return 0, err
	}
	return strconv.Atoi(val)
}

// LastWrittenAt devuelve la marca de tiempo del último respaldo (cero si
// no hay respaldo).
func (s *SQLite) LastWrittenAt() (time.Time, error) {
	val, err := s.get(keyWrittenAt)
	if err != nil || val == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, val)
}

// Close cierra el archivo.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) get(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT valor FROM respaldo WHERE clave = ?`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}
