// Package memory implementa el almacenamiento clave-valor en memoria del proceso.
// No sobrevive reinicios: sirve para tests y para STORE_DRIVER=memory en demos.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/repository"
)

var _ repository.KVStore = (*KVStore)(nil)

// KVStore mapa protegido por mutex; los valores se copian al entrar y al salir.
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKVStore construye un almacenamiento vacío.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

// Get devuelve una copia del valor o domain.ErrNotFound.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set reemplaza el valor completo.
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

// Delete elimina la clave; no falla si no existe.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
