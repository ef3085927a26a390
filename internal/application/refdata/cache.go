// Package refdata implementa la caché local de datos de referencia (empleados e ítems)
// con TTL fijo y la política de arranque "servir caché, luego refrescar".
package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/internal/domain/repository"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

// TTL vigencia de la instantánea en caché.
const TTL = 24 * time.Hour

// Cache guarda la instantánea completa bajo una sola clave, así Save nunca deja
// visible una escritura parcial (empleados nuevos con ítems viejos).
type Cache struct {
	store repository.KVStore
	log   *logger.Logger
	now   func() time.Time
}

// NewCache construye la caché sobre el almacenamiento local.
func NewCache(store repository.KVStore, log *logger.Logger) *Cache {
	return &Cache{store: store, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Load devuelve la instantánea si existe, se puede leer y no expiró. Nunca falla.
func (c *Cache) Load(ctx context.Context) (entity.ReferenceSnapshot, bool) {
	raw, err := c.store.Get(ctx, repository.KeyReferenceSnapshot)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.Warn().Err(err).Msg("no se pudo leer la caché de referencia")
		}
		return entity.ReferenceSnapshot{}, false
	}
	var snap entity.ReferenceSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.log.Warn().Err(err).Msg("caché de referencia corrupta, se ignora")
		return entity.ReferenceSnapshot{}, false
	}
	if snap.FetchedAt.IsZero() || snap.Expired(c.now(), TTL) {
		return entity.ReferenceSnapshot{}, false
	}
	return snap, true
}

// Save sobrescribe la instantánea con la hora actual como fetched_at.
func (c *Cache) Save(ctx context.Context, employees []entity.Employee, items []entity.Item) (entity.ReferenceSnapshot, error) {
	snap := entity.ReferenceSnapshot{
		Employees: employees,
		Items:     items,
		FetchedAt: c.now().UTC(),
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return snap, &domain.PersistenceError{Op: "marshal", Key: repository.KeyReferenceSnapshot, Err: err}
	}
	if err := c.store.Set(ctx, repository.KeyReferenceSnapshot, raw); err != nil {
		return snap, &domain.PersistenceError{Op: "set", Key: repository.KeyReferenceSnapshot, Err: err}
	}
	return snap, nil
}
