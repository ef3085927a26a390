package repository

import "context"

// Claves del almacenamiento local.
const (
	KeyReferenceSnapshot = "reference_snapshot"
	KeyPendingCheckouts  = "pending_checkouts"
)

// KVStore define el puerto de persistencia local clave-valor (DIP).
// Get devuelve domain.ErrNotFound si la clave no existe. Set reemplaza el valor completo
// en una sola operación: ningún lector ve una escritura parcial.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
