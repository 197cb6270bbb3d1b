// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credstore persists the portal bearer token across process restarts.
//
// The store holds at most one token at a time. It performs no network calls
// and no validation: whether the token is still accepted by the portal is the
// session manager's business. Set and Clear are synchronous - a Get issued
// immediately afterwards observes the new state.
package credstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/riskportal-tui/internal/util"
)

// =============================================================================
// TOKEN STORE INTERFACE
// =============================================================================

// TokenStore is the storage contract for the single portal bearer token.
type TokenStore interface {
	// Get returns the stored token, or ok=false when none is stored.
	Get() (token string, ok bool)
	// Set replaces the stored token.
	Set(token string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// =============================================================================
// FILE-BACKED STORE
// =============================================================================

// FileTokenStore stores the token in a single file with restricted
// permissions (0600, directory 0700). This is the durable store used by the
// running client: it survives restarts but is scoped to the local user
// profile, like browser origin storage.
type FileTokenStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileTokenStore creates a store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath returns the default token location, ~/.riskportal/token.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".riskportal", "token")
	}
	return filepath.Join(home, ".riskportal", "token")
}

// Get reads the token from disk at call time. A missing file means no token.
func (s *FileTokenStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Set writes the token with restricted permissions.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (s *FileTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("refusing to store empty token")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	if err := util.AtomicWriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear removes the token file. Idempotent.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// =============================================================================
// IN-MEMORY STORE
// =============================================================================

// MemoryTokenStore is a volatile store for tests and ephemeral sessions.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Get returns the stored token, if any.
func (s *MemoryTokenStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set replaces the stored token.
func (s *MemoryTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("refusing to store empty token")
	}
	s.token = token
	return nil
}

// Clear removes the stored token. Idempotent.
func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
