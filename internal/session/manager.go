// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/facilityadmin/internal/account"
	"github.com/taibuivan/facilityadmin/internal/platform/constants"
	"github.com/taibuivan/facilityadmin/internal/platform/ctxutil"
	"github.com/taibuivan/facilityadmin/internal/users"
)

// # Dependencies

// Authenticator performs the remote authentication calls.
type Authenticator interface {
	Login(ctx context.Context, credentials account.Credentials) (*account.Grant, error)
	Profile(ctx context.Context, token string) (*users.User, error)
}

// Prober decides whether a token grants admin access.
type Prober interface {
	Probe(ctx context.Context, token string) (bool, error)
}

// Options configures a [Manager].
type Options struct {
	Authenticator Authenticator
	Prober        Prober
	Store         KV

	// KeyPrefix namespaces the persisted keys. Defaults to
	// [constants.DefaultSessionKeyPrefix].
	KeyPrefix string

	Logger *slog.Logger
}

type stage int

const (
	stageUninitialized stage = iota
	stageRestoring
	stageReady
)

// # Manager

// Manager is the single owner of the admin credential.
//
// # Concurrency
//
// State is guarded by a RWMutex that is never held across a network call.
// Every change of token bumps a generation counter; the result of a remote
// call is applied only if the generation it started under is still current,
// so a late answer can never resurrect a session that was logged out or
// replaced in the meantime.
//
// Store writes and purges are serialized by a second mutex, and a write is
// skipped once its generation is stale. A purge queued behind a write
// therefore always lands last.
type Manager struct {
	mu         sync.RWMutex
	stage      stage
	generation uint64
	token      string
	user       *users.User
	admin      AdminStatus
	expiresAt  time.Time

	storeMu sync.Mutex

	restoreOnce sync.Once

	authenticator Authenticator
	prober        Prober
	store         KV
	tokenKey      string
	profileKey    string
	expiryKey     string
	logger        *slog.Logger
}

// NewManager constructs an uninitialized [Manager]. Call [Manager.Restore]
// before serving requests.
func NewManager(opts Options) *Manager {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = constants.DefaultSessionKeyPrefix
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}

	return &Manager{
		authenticator: opts.Authenticator,
		prober:        opts.Prober,
		store:         store,
		tokenKey:      prefix + constants.SessionKeyToken,
		profileKey:    prefix + constants.SessionKeyProfile,
		expiryKey:     prefix + constants.SessionKeyExpiry,
		logger:        logger,
	}
}

// # Read Side

// Token returns the current bearer token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsAuthenticated reports whether a token is present.
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// AdminStatus returns the probe outcome for the current token.
func (m *Manager) AdminStatus() AdminStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.admin
}

// IsAdmin reports whether the probe granted admin access to the current token.
func (m *Manager) IsAdmin() bool {
	return m.AdminStatus() == AdminGranted
}

// AdminResolved reports whether the probe for the current token completed.
func (m *Manager) AdminResolved() bool {
	return m.AdminStatus() != AdminUnknown
}

// Restoring reports whether the persisted session is still being restored.
func (m *Manager) Restoring() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stage != stageReady
}

// Snapshot returns a consistent copy of the session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := Snapshot{
		Phase:           m.phaseLocked(),
		Token:           m.token,
		AdminStatus:     m.admin,
		IsAuthenticated: m.token != "",
		IsAdmin:         m.admin == AdminGranted,
	}
	if m.user != nil {
		user := *m.user
		snapshot.User = &user
	}
	return snapshot
}

// Principal returns the session as a request principal, or nil when signed out.
func (m *Manager) Principal() ctxutil.Principal {
	snapshot := m.Snapshot()
	if !snapshot.IsAuthenticated {
		return nil
	}
	return snapshot
}

func (m *Manager) phaseLocked() Phase {
	switch {
	case m.stage == stageUninitialized:
		return PhaseUninitialized
	case m.stage == stageRestoring:
		return PhaseRestoring
	case m.token == "":
		return PhaseUnauthenticated
	case m.admin == AdminGranted:
		return PhaseAuthenticatedAdmin
	case m.admin == AdminDenied:
		return PhaseAuthenticatedNonAdmin
	default:
		return PhaseAuthenticatedUnknownAdmin
	}
}

// # Lifecycle

/*
Restore resumes the persisted session. It runs at most once per [Manager].

# Flow
 1. Load the token and profile. Either missing, or an unparsable profile,
    purges the store and ends unauthenticated.
 2. Adopt the stored session with an unknown admin status.
 3. Probe admin access, then refresh the profile. Any failure clears the
    session and purges the store.

Restore only returns an error when ctx ends before restoration completes.
A failed restoration is not an error: the console simply starts signed out.
*/
func (m *Manager) Restore(ctx context.Context) error {
	ran := false
	m.restoreOnce.Do(func() {
		ran = true
		m.restore(ctx)
	})
	if !ran {
		return nil
	}
	return ctx.Err()
}

func (m *Manager) restore(ctx context.Context) {
	m.mu.Lock()
	m.stage = stageRestoring
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.stage = stageReady
		m.mu.Unlock()
	}()

	// ── 1. Load Persisted Values ──────────────────────────────────────────
	token, profile, ok := m.loadPersisted(ctx)
	if !ok {
		m.purge(ctx)
		return
	}
	expiresAt := m.loadExpiry(ctx, token)

	// ── 2. Adopt ──────────────────────────────────────────────────────────
	m.mu.Lock()
	m.generation++
	generation := m.generation
	m.token = token
	m.user = profile
	m.admin = AdminUnknown
	m.expiresAt = expiresAt
	m.mu.Unlock()

	// ── 3. Validate Remotely ──────────────────────────────────────────────
	isAdmin, err := m.prober.Probe(ctx, token)
	if err != nil {
		m.logger.WarnContext(ctx, "session_restore_probe_failed", slog.Any("error", err))
		m.clearIfCurrent(ctx, generation)
		return
	}

	fresh, err := m.authenticator.Profile(ctx, token)
	if err != nil {
		m.logger.WarnContext(ctx, "session_restore_profile_failed", slog.Any("error", err))
		m.clearIfCurrent(ctx, generation)
		return
	}

	if !m.applyIfCurrent(generation, fresh, adminStatusOf(isAdmin)) {
		return
	}
	m.persistProfile(ctx, generation, fresh)

	m.logger.InfoContext(ctx, "session_restored",
		slog.String("user_id", fresh.ID.String()),
		slog.Bool("is_admin", isAdmin),
	)
}

// loadPersisted reads both values. ok is false when the session cannot be
// resumed.
func (m *Manager) loadPersisted(ctx context.Context) (string, *users.User, bool) {
	token, err := m.store.Get(ctx, m.tokenKey)
	if err != nil {
		m.logLoadFailure(ctx, m.tokenKey, err)
		return "", nil, false
	}

	rawProfile, err := m.store.Get(ctx, m.profileKey)
	if err != nil {
		m.logLoadFailure(ctx, m.profileKey, err)
		return "", nil, false
	}

	var profile users.User
	if err := json.Unmarshal([]byte(rawProfile), &profile); err != nil {
		m.logger.WarnContext(ctx, "session_profile_corrupt", slog.Any("error", err))
		return "", nil, false
	}

	if token == "" {
		return "", nil, false
	}
	return token, &profile, true
}

// loadExpiry returns the stored expiry of token, falling back to its own
// "exp" claim. The zero time means no expiry.
func (m *Manager) loadExpiry(ctx context.Context, token string) time.Time {
	raw, err := m.store.Get(ctx, m.expiryKey)
	if err == nil {
		if expiresAt, perr := time.Parse(time.RFC3339Nano, raw); perr == nil {
			return expiresAt
		}
		m.logger.WarnContext(ctx, "session_expiry_corrupt", slog.String("value", raw))
	} else if !errors.Is(err, ErrNotFound) {
		m.logLoadFailure(ctx, m.expiryKey, err)
	}
	return expiryOf(tokenTTL(token, nil))
}

func (m *Manager) logLoadFailure(ctx context.Context, key string, err error) {
	if errors.Is(err, ErrNotFound) {
		m.logger.DebugContext(ctx, "session_not_persisted", slog.String("key", key))
		return
	}
	m.logger.WarnContext(ctx, "session_load_failed", slog.String("key", key), slog.Any("error", err))
}

/*
Login signs in with credentials and probes admin access.

Returns:
  - bool: Whether the new token grants admin access
  - error: Remote rejection, persistence failure, probe failure or
    [ErrSuperseded]. On any error the session ends signed out.

A Logout or another Login racing this call wins: the store never keeps
this login's values once a newer change has been made.

A non-admin login is not an error: the token and profile are kept and the
admin status becomes denied.
*/
func (m *Manager) Login(ctx context.Context, credentials account.Credentials) (bool, error) {
	// ── 1. Remote Login ───────────────────────────────────────────────────
	grant, err := m.authenticator.Login(ctx, credentials)
	if err != nil {
		m.logger.InfoContext(ctx, "session_login_failed", slog.Any("error", err))
		m.clear(ctx)
		return false, err
	}

	// ── 2. Adopt & Persist ────────────────────────────────────────────────
	user := grant.User
	expiresAt := expiryOf(tokenTTL(grant.Token, grant.ExpiresIn))

	m.mu.Lock()
	m.generation++
	generation := m.generation
	m.token = grant.Token
	m.user = &user
	m.admin = AdminUnknown
	m.expiresAt = expiresAt
	m.mu.Unlock()

	err = m.writeIfCurrent(generation, func() error {
		return m.persist(ctx, grant.Token, &user, expiresAt)
	})
	if errors.Is(err, ErrSuperseded) {
		return false, err
	}
	if err != nil {
		m.clearIfCurrent(ctx, generation)
		return false, err
	}

	// ── 3. Probe ──────────────────────────────────────────────────────────
	isAdmin, err := m.prober.Probe(ctx, grant.Token)
	if err != nil {
		m.clearIfCurrent(ctx, generation)
		return false, err
	}

	if !m.applyIfCurrent(generation, nil, adminStatusOf(isAdmin)) {
		return false, ErrSuperseded
	}

	m.logger.InfoContext(ctx, "session_login_succeeded",
		slog.String("user_id", user.ID.String()),
		slog.Bool("is_admin", isAdmin),
	)
	return isAdmin, nil
}

// Logout clears the session and its persisted values. It never fails and is
// idempotent; persistence errors are logged.
func (m *Manager) Logout(ctx context.Context) {
	m.clear(ctx)
	m.logger.InfoContext(ctx, "session_logged_out")
}

/*
RefreshProfile re-fetches the profile of the current token.

Without a token it does nothing. On failure the session is cleared exactly
as [Manager.Logout] does and the error is returned.
*/
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.RLock()
	token, generation := m.token, m.generation
	m.mu.RUnlock()

	if token == "" {
		return nil
	}

	profile, err := m.authenticator.Profile(ctx, token)
	if err != nil {
		m.logger.WarnContext(ctx, "session_refresh_failed", slog.Any("error", err))
		m.clearIfCurrent(ctx, generation)
		return err
	}

	if !m.applyIfCurrent(generation, profile, AdminUnknown) {
		return ErrSuperseded
	}
	m.persistProfile(ctx, generation, profile)
	return nil
}

// Invalidate drops the session after the remote API answered 401 for token.
//
// A 401 for a token that has already been replaced is ignored.
func (m *Manager) Invalidate(ctx context.Context, token string) {
	m.mu.RLock()
	current, generation := m.token, m.generation
	m.mu.RUnlock()

	if current == "" || token != current {
		return
	}

	m.logger.WarnContext(ctx, "session_invalidated_by_remote")
	m.clearIfCurrent(ctx, generation)
}

// # Internals

func adminStatusOf(isAdmin bool) AdminStatus {
	if isAdmin {
		return AdminGranted
	}
	return AdminDenied
}

// applyIfCurrent stores a remote result if generation is still current.
// A nil profile or an unknown status leaves that part untouched.
func (m *Manager) applyIfCurrent(generation uint64, profile *users.User, admin AdminStatus) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation || m.token == "" {
		return false
	}
	if profile != nil {
		m.user = profile
	}
	if admin != AdminUnknown {
		m.admin = admin
	}
	return true
}

// clear resets the in-memory state and purges the store.
func (m *Manager) clear(ctx context.Context) {
	m.mu.Lock()
	m.generation++
	m.token = ""
	m.user = nil
	m.admin = AdminUnknown
	m.expiresAt = time.Time{}
	m.mu.Unlock()

	m.purge(ctx)
}

// clearIfCurrent clears only if no other change happened since generation.
func (m *Manager) clearIfCurrent(ctx context.Context, generation uint64) {
	m.mu.Lock()
	if generation != m.generation {
		m.mu.Unlock()
		return
	}
	m.generation++
	m.token = ""
	m.user = nil
	m.admin = AdminUnknown
	m.expiresAt = time.Time{}
	m.mu.Unlock()

	m.purge(ctx)
}

// purge deletes every persisted key. It waits for an in-flight write.
func (m *Manager) purge(ctx context.Context) {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	if err := m.store.Delete(context.WithoutCancel(ctx), m.tokenKey, m.profileKey, m.expiryKey); err != nil {
		m.logger.ErrorContext(ctx, "session_purge_failed", slog.Any("error", err))
	}
}

// writeIfCurrent runs write under the store lock, or returns [ErrSuperseded]
// if the session changed since generation.
func (m *Manager) writeIfCurrent(generation uint64, write func() error) error {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	m.mu.RLock()
	current := generation == m.generation && m.token != ""
	m.mu.RUnlock()

	if !current {
		return ErrSuperseded
	}
	return write()
}

func (m *Manager) persist(ctx context.Context, token string, profile *users.User, expiresAt time.Time) error {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("session: encode profile: %w", err)
	}

	ttl := remainingTTL(expiresAt)
	if err := m.store.Set(ctx, m.tokenKey, token, ttl); err != nil {
		return fmt.Errorf("session: persist token: %w", err)
	}
	if err := m.store.Set(ctx, m.profileKey, string(encoded), ttl); err != nil {
		return fmt.Errorf("session: persist profile: %w", err)
	}

	if expiresAt.IsZero() {
		err = m.store.Delete(ctx, m.expiryKey)
	} else {
		err = m.store.Set(ctx, m.expiryKey, expiresAt.UTC().Format(time.RFC3339Nano), ttl)
	}
	if err != nil {
		return fmt.Errorf("session: persist expiry: %w", err)
	}
	return nil
}

// persistProfile rewrites the stored profile after a refresh, keeping the
// token's expiry. Failures are logged; the in-memory session stays valid.
func (m *Manager) persistProfile(ctx context.Context, generation uint64, profile *users.User) {
	m.mu.RLock()
	expiresAt := m.expiresAt
	m.mu.RUnlock()

	err := m.writeIfCurrent(generation, func() error {
		encoded, err := json.Marshal(profile)
		if err != nil {
			return err
		}
		return m.store.Set(ctx, m.profileKey, string(encoded), remainingTTL(expiresAt))
	})
	if err != nil && !errors.Is(err, ErrSuperseded) {
		m.logger.ErrorContext(ctx, "session_persist_failed", slog.Any("error", err))
	}
}
