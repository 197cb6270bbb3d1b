// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides an offline read cache for fetched portal resources.
//
// The last successful GET per (user, resource) is kept in a local SQLite
// database. When a refresh fails with a transport error, views can fall back
// to the cached copy with a "cached" marker instead of an empty screen.
//
// The cache never masks authorization: only transport failures fall back,
// and entries are wiped on logout.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Errors returned by the cache.
var (
	// ErrMiss indicates no usable cached entry exists.
	ErrMiss = errors.New("cache miss")
)

// schema is applied on open. fetched_at is stored as Unix seconds.
const schema = `
CREATE TABLE IF NOT EXISTS resources (
	user_id    INTEGER NOT NULL,
	resource   TEXT    NOT NULL,
	payload    BLOB    NOT NULL,
	fetched_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, resource)
);
`

// Entry is a cached resource payload with its fetch time.
type Entry struct {
	Payload   []byte
	FetchedAt time.Time
}

// Store is a SQLite-backed resource cache.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens (creating if needed) the cache database at path.
func Open(path string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// A single connection avoids SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply cache schema: %w", err)
	}

	return &Store{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores the payload for (userID, resource), replacing any previous
// entry.
func (s *Store) Put(ctx context.Context, userID int, resource string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resources (user_id, resource, payload, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, resource) DO UPDATE SET
		   payload = excluded.payload,
		   fetched_at = excluded.fetched_at`,
		userID, resource, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Get returns the cached entry for (userID, resource). Entries older than
// the TTL are treated as misses (and left in place: a stale entry is still
// better than nothing for GetStale).
func (s *Store) Get(ctx context.Context, userID int, resource string) (*Entry, error) {
	entry, err := s.GetStale(ctx, userID, resource)
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 && time.Since(entry.FetchedAt) > s.ttl {
		return nil, ErrMiss
	}
	return entry, nil
}

// GetStale returns the cached entry regardless of age. Used by the offline
// fallback path, where age is displayed rather than enforced.
func (s *Store) GetStale(ctx context.Context, userID int, resource string) (*Entry, error) {
	var payload []byte
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM resources WHERE user_id = ? AND resource = ?`,
		userID, resource).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return &Entry{Payload: payload, FetchedAt: time.Unix(fetchedAt, 0)}, nil
}

// PurgeUser removes all entries for the given user. Called on logout so a
// following login by a different account cannot see the previous user's
// data.
func (s *Store) PurgeUser(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM resources WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to purge cache entries: %w", err)
	}
	return nil
}

// Purge removes all entries.
func (s *Store) Purge(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM resources`)
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}
