package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/murodbro/turfa-bazar-client/internal/storefront/store"
	"github.com/murodbro/turfa-bazar-client/internal/storefront/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, store.KeyOrderID, "order-1"))

	got, err := s.Get(ctx, store.KeyOrderID)
	require.NoError(t, err)
	require.Equal(t, "order-1", got)
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, store.KeyProgress, "120"))
	require.NoError(t, s.Set(ctx, store.KeyProgress, "119"))

	got, err := s.Get(ctx, store.KeyProgress)
	require.NoError(t, err)
	require.Equal(t, "119", got)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, store.KeyOrderID, "order-1"))
	require.NoError(t, s.Delete(ctx, store.KeyOrderID))
	require.NoError(t, s.Delete(ctx, store.KeyOrderID))

	_, err := s.Get(ctx, store.KeyOrderID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteAllIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	keys := []string{store.KeyOrderID, store.KeyOrderInProgress, store.KeyStartTime, store.KeyProgress}
	for _, key := range keys {
		require.NoError(t, s.Set(ctx, key, "x"))
	}

	// Terminal cleanup may run more than once and in any order.
	require.NoError(t, s.DeleteAll(ctx, keys...))
	require.NoError(t, s.DeleteAll(ctx, keys[3], keys[1], keys[0], keys[2]))
	require.NoError(t, s.DeleteAll(ctx))

	for _, key := range keys {
		_, err := s.Get(ctx, key)
		require.ErrorIs(t, err, store.ErrNotFound, "key %s", key)
	}
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.db")
	ctx := context.Background()

	s, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Set(ctx, store.KeyAuthTokens, "token-abc"))
	require.NoError(t, s.Close())

	reopened, err := sqlite.NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.ApplyMigrations())

	got, err := reopened.Get(ctx, store.KeyAuthTokens)
	require.NoError(t, err)
	require.Equal(t, "token-abc", got)
}
