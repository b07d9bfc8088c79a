// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/facilityadmin/internal/platform/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session_kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER
)`

// SQLiteStore implements [KV] on an embedded SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates the session table if needed and returns the store.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("sqlite_session_schema_failed: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

/*
Get retrieves the value stored under key.

Description: Expired rows are deleted lazily on read.

Returns:
  - string: The stored value
  - error: [ErrNotFound] if absent or expired, driver errors otherwise
*/
func (store *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var (
		value     string
		expiresAt sql.NullInt64
	)

	row := store.db.QueryRowContext(ctx, `SELECT value, expires_at FROM session_kv WHERE key = ?`, key)
	if err := row.Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("sqlite_session_get_failed: %w", err)
	}

	if expiresAt.Valid && store.now().UnixMilli() >= expiresAt.Int64 {
		if _, err := store.db.ExecContext(ctx, `DELETE FROM session_kv WHERE key = ?`, key); err != nil {
			return "", fmt.Errorf("sqlite_session_expire_failed: %w", err)
		}
		return "", ErrNotFound
	}

	return value, nil
}

// Set upserts value under key with the given TTL.
func (store *SQLiteStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: store.now().Add(ttl).UnixMilli(), Valid: true}
	}

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO session_kv (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite_session_set_failed: %w", err)
	}
	return nil
}

// Delete removes keys.
func (store *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}

	if _, err := store.db.ExecContext(ctx, `DELETE FROM session_kv WHERE key IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("sqlite_session_delete_failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (store *SQLiteStore) Ping(ctx context.Context) error {
	return sqlite.Ping(ctx, store.db)
}
