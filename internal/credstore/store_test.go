// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileTokenStore_EmptyByDefault(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))

	token, ok := store.Get()
	require.False(t, ok)
	require.Empty(t, token)
}

func TestFileTokenStore_SetThenGet(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))

	require.NoError(t, store.Set("t1"))

	token, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "t1", token)
}

// TestFileTokenStore_SurvivesRestart verifies the token persists across store
// instances, which is the whole point of the file backing.
func TestFileTokenStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	require.NoError(t, NewFileTokenStore(path).Set("persistent"))

	reopened := NewFileTokenStore(path)
	token, ok := reopened.Get()
	require.True(t, ok)
	require.Equal(t, "persistent", token)
}

func TestFileTokenStore_ClearIsIdempotent(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))

	require.NoError(t, store.Set("t1"))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok := store.Get()
	require.False(t, ok)
}

func TestFileTokenStore_RejectsEmptyToken(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))

	require.Error(t, store.Set(""))
	require.Error(t, store.Set("   "))
}

func TestFileTokenStore_RestrictedPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file mode bits are not meaningful on Windows")
	}

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, NewFileTokenStore(path).Set("secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestMemoryTokenStore_Lifecycle(t *testing.T) {
	store := NewMemoryTokenStore()

	_, ok := store.Get()
	require.False(t, ok)

	require.NoError(t, store.Set("t1"))
	token, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "t1", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, ok = store.Get()
	require.False(t, ok)
}

// TestMemoryTokenStore_ConcurrentAccess exercises the store from many
// goroutines. Run with: go test -race ./internal/credstore/
func TestMemoryTokenStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryTokenStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("t1")
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get()
		}()
	}
	wg.Wait()
}
