package cmsdk

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// expiryBuffer is subtracted from token lifetimes so refresh happens before
// actual expiry.
const expiryBuffer = 30 * time.Second

// Session is an authenticated session with automatic token refresh. All
// Session methods handle token expiration transparently and write token
// changes through the client's TokenStorage.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// newSession creates an authenticated session from a token payload.
func newSession(client *Client, payload authPayload) *Session {
	return &Session{
		client:       client,
		accessToken:  payload.AccessToken,
		refreshToken: payload.RefreshToken,
		expiresAt:    time.Now().Add(time.Duration(payload.Expires)*time.Millisecond - expiryBuffer),
	}
}

// getValidToken returns a valid access token, refreshing it first if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	// Token expired, need to refresh
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have refreshed)
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	payload, err := s.client.refreshGrant(ctx, s.refreshToken)
	if err != nil {
		return "", err
	}

	s.accessToken = payload.AccessToken
	s.refreshToken = payload.RefreshToken
	s.expiresAt = time.Now().Add(time.Duration(payload.Expires)*time.Millisecond - expiryBuffer)
	s.persistLocked(ctx)

	return s.accessToken, nil
}

// Logout revokes the refresh token and clears persisted tokens. Local state
// is cleared even when the revoke call fails; the returned error reports the
// revoke outcome so callers can decide whether it matters.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	if s.client.Storage != nil {
		if err := s.client.Storage.Clear(ctx); err != nil {
			slog.Warn("failed to clear stored session", "error", err)
		}
	}

	if refreshToken == "" {
		return nil
	}
	return s.client.RevokeToken(ctx, refreshToken)
}

// AccessToken returns the current access token without checking expiration.
// Prefer the Session request methods, which handle refresh automatically.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// persist writes the current tokens through the client's storage.
// Persistence failures are logged, not fatal: the session still works for
// this process lifetime.
func (s *Session) persist(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.persistLocked(ctx)
}

func (s *Session) persistLocked(ctx context.Context) {
	if s.client.Storage == nil {
		return
	}

	err := s.client.Storage.Save(ctx, &AuthData{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		ExpiresAt:    s.expiresAt,
	})
	if err != nil {
		slog.Warn("failed to persist session tokens", "error", err)
	}
}
