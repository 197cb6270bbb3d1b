// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_MissOnEmpty(t *testing.T) {
	store := openTestStore(t, time.Minute)

	_, err := store.Get(context.Background(), 1, "policies")
	require.ErrorIs(t, err, ErrMiss)
}

func TestStore_PutThenGet(t *testing.T) {
	store := openTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 1, "policies", []byte(`[{"id":7}]`)))

	entry, err := store.Get(ctx, 1, "policies")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":7}]`, string(entry.Payload))
	require.WithinDuration(t, time.Now(), entry.FetchedAt, 5*time.Second)
}

func TestStore_PutReplaces(t *testing.T) {
	store := openTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 1, "claims", []byte(`[]`)))
	require.NoError(t, store.Put(ctx, 1, "claims", []byte(`[{"id":2}]`)))

	entry, err := store.Get(ctx, 1, "claims")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":2}]`, string(entry.Payload))
}

func TestStore_EntriesAreScopedPerUser(t *testing.T) {
	store := openTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 1, "policies", []byte(`["mine"]`)))

	_, err := store.Get(ctx, 2, "policies")
	require.ErrorIs(t, err, ErrMiss)
}

func TestStore_ExpiredEntryIsMissButStaleReadable(t *testing.T) {
	store := openTestStore(t, 1*time.Nanosecond)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 1, "agenda", []byte(`[]`)))
	time.Sleep(10 * time.Millisecond)

	_, err := store.Get(ctx, 1, "agenda")
	require.ErrorIs(t, err, ErrMiss)

	entry, err := store.GetStale(ctx, 1, "agenda")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(entry.Payload))
}

func TestStore_PurgeUser(t *testing.T) {
	store := openTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 1, "policies", []byte(`[]`)))
	require.NoError(t, store.Put(ctx, 2, "policies", []byte(`[]`)))

	require.NoError(t, store.PurgeUser(ctx, 1))

	_, err := store.Get(ctx, 1, "policies")
	require.ErrorIs(t, err, ErrMiss)
	_, err = store.Get(ctx, 2, "policies")
	require.NoError(t, err)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := Open(path, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, 1, "policies", []byte(`["kept"]`)))
	require.NoError(t, store.Close())

	reopened, err := Open(path, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	entry, err := reopened.Get(ctx, 1, "policies")
	require.NoError(t, err)
	require.JSONEq(t, `["kept"]`, string(entry.Payload))
}
