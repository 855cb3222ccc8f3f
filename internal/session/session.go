// ABOUTME: Session lifecycle around the persisted token
// ABOUTME: Resolves token to profile and enforces clear-on-reject

package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/mlowther/postdeck/internal/api"
	"github.com/mlowther/postdeck/internal/cache"
)

// Manager owns the session: the persisted token, the API client holding
// it, and a short-lived cache of the resolved profile.
//
// Invariant: a token the backend has rejected is never kept. Any failed
// resolution clears both the in-memory and the persisted token.
type Manager struct {
	client   *api.Client
	store    *Store
	profiles *cache.Cache[*api.User]
}

// NewManager wires a manager and primes the client with any persisted
// token. profileTTL bounds how long a resolved profile is trusted without
// re-asking the backend.
func NewManager(client *api.Client, store *Store, profileTTL time.Duration) *Manager {
	m := &Manager{
		client:   client,
		store:    store,
		profiles: cache.New[*api.User](profileTTL),
	}
	client.SetToken(store.Load())
	return m
}

// Authenticated reports whether a token is currently held. It says nothing
// about whether the backend still honors it; Resolve decides that.
func (m *Manager) Authenticated() bool {
	return m.client.Token() != ""
}

// Token returns the current bearer token, empty when signed out
func (m *Manager) Token() string {
	return m.client.Token()
}

// Client exposes the API client carrying the session token
func (m *Manager) Client() *api.Client {
	return m.client
}

// SetToken installs and persists a freshly issued token. The previous
// profile, if any, is dropped so the next Resolve asks the backend.
func (m *Manager) SetToken(token string) error {
	m.profiles.Clear(profileKey(m.client.Token()))
	m.client.SetToken(token)
	if err := m.store.Save(token); err != nil {
		return err
	}
	slog.Debug("session token saved")
	return nil
}

// Resolve validates the held token against the me endpoint and returns the
// profile. Failure clears the session silently; the caller just sees the
// signed-out state.
func (m *Manager) Resolve(ctx context.Context) (*api.User, error) {
	token := m.client.Token()
	if token == "" {
		return nil, api.ErrNoToken
	}

	if user, ok := m.profiles.Get(profileKey(token)); ok {
		return user, nil
	}

	user, err := m.client.Me(ctx)
	if err != nil {
		slog.Debug("session resolution failed, clearing token", "error", err)
		m.Clear()
		return nil, err
	}

	m.profiles.Set(profileKey(token), user)
	return user, nil
}

// Logout notifies the backend best-effort and clears local state
// regardless of the outcome.
func (m *Manager) Logout(ctx context.Context) {
	m.client.Logout(ctx)
	m.Clear()
}

// Clear drops the token from memory, disk, and the profile cache
func (m *Manager) Clear() {
	m.profiles.Clear(profileKey(m.client.Token()))
	m.client.SetToken("")
	if err := m.store.Clear(); err != nil {
		slog.Warn("failed to clear persisted session", "error", err)
	}
}

// profileKey namespaces cache entries per token so a token change never
// serves a stale profile.
func profileKey(token string) string {
	return "profile:" + token
}
