package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/sqlite"
)

func TestKVStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "pending_checkouts")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Set(ctx, "pending_checkouts", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "pending_checkouts", []byte(`[{"id":"a"}]`)))
	got, err := s.Get(ctx, "pending_checkouts")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))

	require.NoError(t, s.Delete(ctx, "pending_checkouts"))
	require.NoError(t, s.Delete(ctx, "pending_checkouts"))
	_, err = s.Get(ctx, "pending_checkouts")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKVStore_SobreviveReapertura(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kiosk.db")

	s, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "reference_snapshot", []byte(`{"employees":[]}`)))
	require.NoError(t, s.Close())

	s2, err := sqlite.Open(path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Get(ctx, "reference_snapshot")
	require.NoError(t, err)
	assert.Equal(t, `{"employees":[]}`, string(got))
}
