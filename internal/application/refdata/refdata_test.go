package refdata_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/luxy-checkout/internal/application/refdata"
	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/internal/domain/repository"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/memory"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeSource struct {
	employees []entity.Employee
	items     []entity.Item
	err       error
	calls     int
}

func (f *fakeSource) FetchEmployees(context.Context) ([]entity.Employee, error) {
	f.calls++
	return f.employees, f.err
}

func (f *fakeSource) FetchItems(context.Context) ([]entity.Item, error) {
	f.calls++
	return f.items, f.err
}

type fixedConn bool

func (c fixedConn) Online() bool { return bool(c) }

type recordingSink struct {
	mu    sync.Mutex
	snaps []entity.ReferenceSnapshot
}

func (s *recordingSink) SetReference(snap entity.ReferenceSnapshot) {
	s.mu.Lock()
	s.snaps = append(s.snaps, snap)
	s.mu.Unlock()
}

type recordingNotifier struct{ messages []string }

func (n *recordingNotifier) Notify(_, msg string) { n.messages = append(n.messages, msg) }

type brokenStore struct{ repository.KVStore }

func (brokenStore) Set(context.Context, string, []byte) error { return errors.New("disco lleno") }

var (
	alice  = entity.Employee{ID: "e1", Name: "Alice"}
	gloves = entity.Item{ID: "i1", Name: "Gloves", Unit: "pair"}
)

// ──────────────────────────────────────────────────────────────────────────────
// Cache
// ──────────────────────────────────────────────────────────────────────────────

func TestCache_SaveLoadDentroDelTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	cache := refdata.NewCache(memory.NewKVStore(), logger.Nop()).WithClock(func() time.Time { return now })

	_, err := cache.Save(ctx, []entity.Employee{alice}, []entity.Item{gloves})
	require.NoError(t, err)

	now = now.Add(23 * time.Hour)
	snap, ok := cache.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, []entity.Employee{alice}, snap.Employees)
	assert.Equal(t, []entity.Item{gloves}, snap.Items)
}

func TestCache_ExpiradaNoSeSirvePeroSigueGuardada(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	cache := refdata.NewCache(store, logger.Nop()).WithClock(func() time.Time { return now })

	_, err := cache.Save(ctx, []entity.Employee{alice}, []entity.Item{gloves})
	require.NoError(t, err)

	now = now.Add(24*time.Hour + time.Second)
	_, ok := cache.Load(ctx)
	assert.False(t, ok, "pasado el TTL la caché no se sirve")

	raw, err := store.Get(ctx, repository.KeyReferenceSnapshot)
	require.NoError(t, err)
	assert.NotEmpty(t, raw, "el dato expirado sigue en el almacenamiento")
}

func TestCache_CorruptaOAusente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	cache := refdata.NewCache(store, logger.Nop())

	_, ok := cache.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, repository.KeyReferenceSnapshot, []byte("{no-json")))
	_, ok = cache.Load(ctx)
	assert.False(t, ok)
}

func TestCache_SaveFallidoEsPersistenceError(t *testing.T) {
	cache := refdata.NewCache(brokenStore{memory.NewKVStore()}, logger.Nop())
	_, err := cache.Save(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

// ──────────────────────────────────────────────────────────────────────────────
// Loader
// ──────────────────────────────────────────────────────────────────────────────

func TestLoader_SirveCacheYLuegoRefresca(t *testing.T) {
	ctx := context.Background()
	cache := refdata.NewCache(memory.NewKVStore(), logger.Nop())
	_, err := cache.Save(ctx, []entity.Employee{{ID: "old", Name: "Old"}}, nil)
	require.NoError(t, err)

	src := &fakeSource{employees: []entity.Employee{alice}, items: []entity.Item{gloves}}
	sink := &recordingSink{}
	n := &recordingNotifier{}
	l := refdata.NewLoader(cache, src, fixedConn(true), sink, n, logger.Nop(), time.Second)

	res := l.Start(ctx)
	assert.True(t, res.FromCache)
	assert.True(t, res.Refreshed)
	require.Len(t, sink.snaps, 2)
	assert.Equal(t, "old", sink.snaps[0].Employees[0].ID)
	assert.Equal(t, "e1", sink.snaps[1].Employees[0].ID)
	assert.Empty(t, n.messages)

	snap, ok := cache.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, []entity.Item{gloves}, snap.Items)
}

func TestLoader_RefrescoFallidoConservaCache(t *testing.T) {
	ctx := context.Background()
	cache := refdata.NewCache(memory.NewKVStore(), logger.Nop())
	_, err := cache.Save(ctx, []entity.Employee{alice}, []entity.Item{gloves})
	require.NoError(t, err)

	src := &fakeSource{err: &domain.TransportError{Op: "getEmployees", StatusCode: 500}}
	sink := &recordingSink{}
	n := &recordingNotifier{}
	l := refdata.NewLoader(cache, src, fixedConn(true), sink, n, logger.Nop(), time.Second)

	res := l.Start(ctx)
	assert.True(t, res.FromCache)
	assert.False(t, res.Refreshed)
	assert.ErrorIs(t, res.Err, domain.ErrTransport)
	require.Len(t, sink.snaps, 1, "solo se mostró la caché")
	require.Len(t, n.messages, 1)

	snap, ok := cache.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, []entity.Employee{alice}, snap.Employees)
}

func TestLoader_OfflineNoVaALaRed(t *testing.T) {
	src := &fakeSource{employees: []entity.Employee{alice}}
	n := &recordingNotifier{}
	l := refdata.NewLoader(refdata.NewCache(memory.NewKVStore(), logger.Nop()), src, fixedConn(false), &recordingSink{}, n, logger.Nop(), 0)

	res := l.Start(context.Background())
	assert.False(t, res.FromCache)
	assert.False(t, res.Refreshed)
	assert.Zero(t, src.calls)
	assert.Len(t, n.messages, 1)
}

func TestLoader_SchemaErrorNoSobrescribeCache(t *testing.T) {
	ctx := context.Background()
	cache := refdata.NewCache(memory.NewKVStore(), logger.Nop())
	_, err := cache.Save(ctx, []entity.Employee{alice}, []entity.Item{gloves})
	require.NoError(t, err)

	src := &fakeSource{err: &domain.SchemaError{Kind: "employees", Index: 3, Reason: "id vacío"}}
	l := refdata.NewLoader(cache, src, fixedConn(true), &recordingSink{}, &recordingNotifier{}, logger.Nop(), 0)

	err = l.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrSchema)
	snap, ok := cache.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, []entity.Employee{alice}, snap.Employees)
}
