// Package checkout contiene el pipeline de envío de retiros y la cola de pendientes
// con su sincronizador. Un retiro nunca se pierde en silencio: o se confirma su
// entrega o queda en la cola persistida hasta que otra sincronización lo confirme.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/internal/domain/repository"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

// KeyQuarantine acumula el contenido de cada cola ilegible, en orden de detección.
const KeyQuarantine = repository.KeyPendingCheckouts + ".corrupt"

// QuarantinedQueue cola ilegible tal como estaba guardada.
type QuarantinedQueue struct {
	At   time.Time `json:"at"`
	Data []byte    `json:"data"`
}

// PendingQueue cola FIFO de retiros no confirmados, guardada completa bajo una sola clave.
// Toda mutación es leer-modificar-escribir bajo mu; las entregas ocurren fuera del lock.
type PendingQueue struct {
	mu    sync.Mutex
	store repository.KVStore
	log   *logger.Logger

	// overflow retiene registros que no se pudieron persistir; se vuelcan en la próxima escritura exitosa.
	overflow []entity.CheckoutRecord
}

// NewPendingQueue construye la cola sobre el almacenamiento local.
func NewPendingQueue(store repository.KVStore, log *logger.Logger) *PendingQueue {
	return &PendingQueue{store: store, log: log}
}

// Enqueue agrega el registro al final de la cola.
// Si la escritura falla devuelve *domain.PersistenceError y el registro queda en memoria.
func (q *PendingQueue) Enqueue(ctx context.Context, record entity.CheckoutRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	records, err := q.load(ctx)
	if err != nil {
		q.overflow = append(q.overflow, record)
		return err
	}
	records = append(records, record)
	if err := q.save(ctx, records); err != nil {
		q.overflow = append(q.overflow, record)
		return err
	}
	q.overflow = nil
	return nil
}

// Snapshot copia de la cola en orden FIFO (persistidos y luego retenidos en memoria).
func (q *PendingQueue) Snapshot(ctx context.Context) ([]entity.CheckoutRecord, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	records, err := q.load(ctx)
	if err != nil {
		return append([]entity.CheckoutRecord(nil), q.overflow...), err
	}
	return records, nil
}

// Len número de retiros pendientes.
func (q *PendingQueue) Len(ctx context.Context) int {
	records, _ := q.Snapshot(ctx)
	return len(records)
}

// Get busca un pendiente por id.
func (q *PendingQueue) Get(ctx context.Context, id string) (entity.CheckoutRecord, error) {
	records, err := q.Snapshot(ctx)
	if err != nil && len(records) == 0 {
		return entity.CheckoutRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return entity.CheckoutRecord{}, domain.ErrNotFound
}

// Remove quita los registros entregados por id; el resto conserva su orden.
// Los registros agregados mientras se entregaba no se tocan.
func (q *PendingQueue) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	// Lo entregado sale primero de memoria: aunque falle la lectura no se vuelve a reenviar.
	q.overflow = withoutIDs(q.overflow, drop)
	records, err := q.load(ctx)
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if _, ok := drop[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	if err := q.save(ctx, kept); err != nil {
		return err
	}
	q.overflow = nil
	return nil
}

// load lee la cola persistida y le suma el overflow en memoria (sin duplicar ids).
// Una cola ilegible se mueve a KeyQuarantine y se continúa con una cola vacía.
func (q *PendingQueue) load(ctx context.Context) ([]entity.CheckoutRecord, error) {
	var records []entity.CheckoutRecord
	raw, err := q.store.Get(ctx, repository.KeyPendingCheckouts)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, &domain.PersistenceError{Op: "leer", Key: repository.KeyPendingCheckouts, Err: err}
	default:
		if err := json.Unmarshal(raw, &records); err != nil {
			q.log.Error().Err(err).Int("bytes", len(raw)).Msg("cola de pendientes ilegible; se pone en cuarentena")
			if qerr := q.quarantine(ctx, raw); qerr != nil {
				return nil, qerr
			}
			if derr := q.store.Delete(ctx, repository.KeyPendingCheckouts); derr != nil {
				return nil, &domain.PersistenceError{Op: "borrar", Key: repository.KeyPendingCheckouts, Err: derr}
			}
			records = nil
		}
	}
	return mergeOverflow(records, q.overflow), nil
}

// quarantine agrega raw a KeyQuarantine sin pisar lo aislado antes.
func (q *PendingQueue) quarantine(ctx context.Context, raw []byte) error {
	var entries []QuarantinedQueue
	prev, err := q.store.Get(ctx, KeyQuarantine)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return &domain.PersistenceError{Op: "leer", Key: KeyQuarantine, Err: err}
	default:
		if json.Unmarshal(prev, &entries) != nil {
			entries = []QuarantinedQueue{{Data: prev}}
		}
	}
	entries = append(entries, QuarantinedQueue{At: time.Now().UTC(), Data: raw})
	out, err := json.Marshal(entries)
	if err != nil {
		return &domain.PersistenceError{Op: "serializar", Key: KeyQuarantine, Err: err}
	}
	if err := q.store.Set(ctx, KeyQuarantine, out); err != nil {
		return &domain.PersistenceError{Op: "cuarentena", Key: KeyQuarantine, Err: err}
	}
	return nil
}

func (q *PendingQueue) save(ctx context.Context, records []entity.CheckoutRecord) error {
	if records == nil {
		records = []entity.CheckoutRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return &domain.PersistenceError{Op: "serializar", Key: repository.KeyPendingCheckouts, Err: err}
	}
	if err := q.store.Set(ctx, repository.KeyPendingCheckouts, raw); err != nil {
		return &domain.PersistenceError{Op: "escribir", Key: repository.KeyPendingCheckouts, Err: err}
	}
	return nil
}

func mergeOverflow(records, overflow []entity.CheckoutRecord) []entity.CheckoutRecord {
	if len(overflow) == 0 {
		return records
	}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.ID] = struct{}{}
	}
	for _, r := range overflow {
		if _, ok := seen[r.ID]; !ok {
			records = append(records, r)
			seen[r.ID] = struct{}{}
		}
	}
	return records
}

func withoutIDs(records []entity.CheckoutRecord, drop map[string]struct{}) []entity.CheckoutRecord {
	if len(records) == 0 {
		return records
	}
	kept := make([]entity.CheckoutRecord, 0, len(records))
	for _, r := range records {
		if _, ok := drop[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	return kept
}
