// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facilityadmin/internal/account"
	"github.com/taibuivan/facilityadmin/internal/users"
)

// stubRemote answers every remote call from fixed values.
type stubRemote struct {
	grant   account.Grant
	profile users.User
	admin   bool
}

func (remote *stubRemote) Login(context.Context, account.Credentials) (*account.Grant, error) {
	grant := remote.grant
	return &grant, nil
}

func (remote *stubRemote) Profile(context.Context, string) (*users.User, error) {
	profile := remote.profile
	return &profile, nil
}

func (remote *stubRemote) Probe(context.Context, string) (bool, error) {
	return remote.admin, nil
}

// interceptedStore runs onFirstSet once, before the first write reaches KV.
type interceptedStore struct {
	KV
	once       sync.Once
	onFirstSet func()
}

func (store *interceptedStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	store.once.Do(store.onFirstSet)
	return store.KV.Set(ctx, key, value, ttl)
}

func newStubManager(remote *stubRemote, store KV) *Manager {
	return NewManager(Options{
		Authenticator: remote,
		Prober:        remote,
		Store:         store,
		KeyPrefix:     "p:",
	})
}

/*
TestLogin_LogoutDuringPersist verifies a Logout issued while Login is still
writing the store leaves nothing behind for the next restore.
*/
func TestLogin_LogoutDuringPersist(t *testing.T) {
	ctx := context.Background()
	remote := &stubRemote{
		grant:   account.Grant{Token: "tok-A", User: users.User{ID: "u1", FullName: "Admin"}},
		profile: users.User{ID: "u1", FullName: "Admin"},
		admin:   true,
	}

	store := &interceptedStore{KV: NewMemoryStore()}
	manager := newStubManager(remote, store)
	require.NoError(t, manager.Restore(ctx))

	loggedOut := make(chan struct{})
	store.onFirstSet = func() {
		go func() {
			defer close(loggedOut)
			manager.Logout(ctx)
		}()
		require.Eventually(t, func() bool { return !manager.IsAuthenticated() }, time.Second, time.Millisecond)
	}

	_, err := manager.Login(ctx, account.Credentials{PhoneNumber: "628123456789", Password: "secret"})
	assert.ErrorIs(t, err, ErrSuperseded)
	<-loggedOut

	assert.False(t, manager.IsAuthenticated())
	for _, key := range []string{"p:authToken", "p:authUser", "p:authExpiresAt"} {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, ErrNotFound, key)
	}

	restarted := newStubManager(remote, store)
	require.NoError(t, restarted.Restore(ctx))
	assert.Equal(t, PhaseUnauthenticated, restarted.Snapshot().Phase)
}

/*
TestLogin_StaleWriteSkipped verifies a write for a superseded generation
never reaches the store.
*/
func TestLogin_StaleWriteSkipped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	manager := newStubManager(&stubRemote{}, store)

	manager.mu.Lock()
	manager.generation++
	stale := manager.generation
	manager.token = "tok-A"
	manager.mu.Unlock()

	manager.Logout(ctx)

	written := false
	err := manager.writeIfCurrent(stale, func() error {
		written = true
		return nil
	})
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.False(t, written)
}

/*
TestRefreshProfile_KeepsExpiry verifies a profile rewrite keeps the TTL
reported at login, so both keys expire together.
*/
func TestRefreshProfile_KeepsExpiry(t *testing.T) {
	for name, open := range map[string]func(*testing.T) clockedStore{
		"memory": newMemory,
		"redis":  newRedis,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)
			remote := &stubRemote{
				grant:   account.Grant{Token: "opaque-token", User: users.User{ID: "u1", FullName: "Admin"}, ExpiresIn: float64(60)},
				profile: users.User{ID: "u1", FullName: "Admin Renamed"},
				admin:   true,
			}
			manager := newStubManager(remote, store)
			require.NoError(t, manager.Restore(ctx))

			_, err := manager.Login(ctx, account.Credentials{PhoneNumber: "628123456789", Password: "secret"})
			require.NoError(t, err)
			require.NoError(t, manager.RefreshProfile(ctx))

			profile, err := store.Get(ctx, "p:authUser")
			require.NoError(t, err)
			assert.Contains(t, profile, "Admin Renamed")

			store.advance(61 * time.Second)

			for _, key := range []string{"p:authToken", "p:authUser", "p:authExpiresAt"} {
				_, err := store.Get(ctx, key)
				assert.ErrorIs(t, err, ErrNotFound, key)
			}
		})
	}
}

/*
TestRestore_KeepsStoredExpiry verifies a restored opaque token carries the
expiry persisted at login into later profile rewrites.
*/
func TestRestore_KeepsStoredExpiry(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)
	remote := &stubRemote{
		grant:   account.Grant{Token: "opaque-token", User: users.User{ID: "u1"}, ExpiresIn: float64(120)},
		profile: users.User{ID: "u1"},
		admin:   true,
	}

	first := newStubManager(remote, store)
	require.NoError(t, first.Restore(ctx))
	_, err := first.Login(ctx, account.Credentials{PhoneNumber: "628123456789", Password: "secret"})
	require.NoError(t, err)

	restarted := newStubManager(remote, store)
	require.NoError(t, restarted.Restore(ctx))
	require.Equal(t, PhaseAuthenticatedAdmin, restarted.Snapshot().Phase)

	restarted.mu.RLock()
	expiresAt := restarted.expiresAt
	restarted.mu.RUnlock()
	assert.WithinDuration(t, time.Now().Add(120*time.Second), expiresAt, 5*time.Second)

	store.advance(121 * time.Second)
	_, err = store.Get(ctx, "p:authUser")
	assert.ErrorIs(t, err, ErrNotFound)
}
