package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/repository"
)

var _ repository.KVStore = (*KVStore)(nil)

// DBTX subconjunto de *pgxpool.Pool (y pgx.Tx) que usa el almacenamiento.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schemaKV = `
CREATE TABLE IF NOT EXISTS kiosk_kv (
	device_id  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      BYTEA       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (device_id, key)
)`

// KVStore almacenamiento clave-valor en PostgreSQL, particionado por dispositivo.
type KVStore struct {
	db       DBTX
	deviceID string
}

// NewKVStore construye el almacenamiento para deviceID.
func NewKVStore(db DBTX, deviceID string) *KVStore {
	return &KVStore{db: db, deviceID: deviceID}
}

// Migrate crea la tabla si no existe.
func (s *KVStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaKV); err != nil {
		return fmt.Errorf("crear kiosk_kv: %w", err)
	}
	return nil
}

// Get devuelve el valor o domain.ErrNotFound.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kiosk_kv WHERE device_id = $1 AND key = $2`
	var value []byte
	err := s.db.QueryRow(ctx, query, s.deviceID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select kiosk_kv: %w", err)
	}
	return value, nil
}

// Set inserta o reemplaza el valor en una sola sentencia.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kiosk_kv (device_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (device_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := s.db.Exec(ctx, query, s.deviceID, key, value); err != nil {
		return fmt.Errorf("upsert kiosk_kv: %w", err)
	}
	return nil
}

// Delete elimina la clave.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kiosk_kv WHERE device_id = $1 AND key = $2`
	if _, err := s.db.Exec(ctx, query, s.deviceID, key); err != nil {
		return fmt.Errorf("delete kiosk_kv: %w", err)
	}
	return nil
}
