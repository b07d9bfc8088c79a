// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facilityadmin/internal/platform/sqlite"
)

// clockedStore is a KV whose notion of time the test can advance.
type clockedStore struct {
	KV
	advance func(time.Duration)
}

func newMemory(t *testing.T) clockedStore {
	t.Helper()

	now := time.Now()
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	return clockedStore{KV: store, advance: func(d time.Duration) { now = now.Add(d) }}
}

func newRedis(t *testing.T) clockedStore {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return clockedStore{KV: NewRedisStore(client), advance: server.FastForward}
}

func newSQLite(t *testing.T) clockedStore {
	t.Helper()

	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "nested", "session.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLiteStore(ctx, db)
	require.NoError(t, err)

	now := time.Now()
	store.now = func() time.Time { return now }
	return clockedStore{KV: store, advance: func(d time.Duration) { now = now.Add(d) }}
}

/*
TestStores_Contract runs the same persistence contract against every backend.
*/
func TestStores_Contract(t *testing.T) {
	backends := map[string]func(*testing.T) clockedStore{
		"memory": newMemory,
		"redis":  newRedis,
		"sqlite": newSQLite,
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			require.NoError(t, store.Ping(ctx))

			_, err := store.Get(ctx, "p:authToken")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, "p:authToken", "tok-1", 0))
			require.NoError(t, store.Set(ctx, "p:authToken", "tok-2", 0))
			value, err := store.Get(ctx, "p:authToken")
			require.NoError(t, err)
			assert.Equal(t, "tok-2", value)

			require.NoError(t, store.Set(ctx, "p:authUser", `{"id":"u1"}`, time.Minute))
			store.advance(30 * time.Second)
			_, err = store.Get(ctx, "p:authUser")
			assert.NoError(t, err)

			store.advance(31 * time.Second)
			_, err = store.Get(ctx, "p:authUser")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Delete(ctx, "p:authToken", "p:authUser", "p:missing"))
			_, err = store.Get(ctx, "p:authToken")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Delete(ctx))
		})
	}
}

/*
TestTokenTTL verifies the expiry sources in order of precedence.
*/
func TestTokenTTL(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("remote-secret"))
	require.NoError(t, err)

	ttl := tokenTTL(signed, json.Number("60"))
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("remote-secret"))
	require.NoError(t, err)
	assert.Equal(t, minTTL, tokenTTL(expired, nil))

	assert.Equal(t, time.Minute, tokenTTL("opaque", json.Number("60")))
	assert.Equal(t, 2*time.Minute, tokenTTL("opaque", "120"))
	assert.Equal(t, time.Duration(0), tokenTTL("opaque", "7d"))
	assert.Equal(t, time.Duration(0), tokenTTL("opaque", nil))
}

/*
TestAdminStatus_Text verifies the wire names of the enums.
*/
func TestAdminStatus_Text(t *testing.T) {
	encoded, err := json.Marshal(struct {
		Status AdminStatus `json:"status"`
		Phase  Phase       `json:"phase"`
	}{AdminGranted, PhaseRestoring})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"granted","phase":"restoring"}`, string(encoded))
	assert.Equal(t, "AdminStatus(9)", AdminStatus(9).String())
}
