package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/huddlehq/huddle/internal/huddle/domain"
	"github.com/huddlehq/huddle/pkg/cmsdk"
)

// SessionStore owns the authenticated session: the current user, the
// authenticated flag and the remote session handle. Other stores read the
// user's identity through it and publish presence commands to it; nothing
// else writes its state.
type SessionStore struct {
	watchable

	client *cmsdk.Client
	log    *slog.Logger

	mu            sync.Mutex
	remote        *cmsdk.Session
	user          *domain.User
	authenticated bool
	loading       bool
	initialized   bool
	err           string

	initOnce sync.Once
}

func NewSessionStore(client *cmsdk.Client, log *slog.Logger) *SessionStore {
	if log == nil {
		log = slog.Default()
	}
	return &SessionStore{
		client: client,
		log:    log.With("store", "session"),
	}
}

// Login exchanges credentials for a session and fetches the current user.
// Returns false on failure, leaving the store unauthenticated with the error
// recorded.
func (s *SessionStore) Login(ctx context.Context, email, password string) bool {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.notify()
	}()

	session, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.log.Error("login failed", "error", err)
		s.mu.Lock()
		s.err = err.Error()
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	s.remote = session
	s.authenticated = true
	s.mu.Unlock()

	s.FetchCurrentUser(ctx)
	return true
}

// FetchCurrentUser refreshes the current user record. A no-op when not
// authenticated. A fetch failure forces logout: the session is no longer
// trustworthy.
func (s *SessionStore) FetchCurrentUser(ctx context.Context) {
	s.mu.Lock()
	remote := s.remote
	authenticated := s.authenticated
	s.mu.Unlock()

	if !authenticated || remote == nil {
		return
	}

	var user domain.User
	q := cmsdk.Query{Fields: domain.UserFields}
	if err := remote.ReadMe(ctx, q, &user); err != nil {
		s.log.Error("failed to fetch current user", "error", err)
		s.Logout(ctx)
		return
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.notify()
}

// Logout revokes the session token and clears local state. Revoke failure is
// non-fatal: local state is cleared regardless.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	remote := s.remote
	s.remote = nil
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()

	if remote != nil {
		if err := remote.Logout(ctx); err != nil {
			s.log.Warn("token revoke failed during logout", "error", err)
		}
	}

	s.notify()
}

// SendResetRequest fires a password-reset email. Failure is recorded in the
// store error and reported to the caller; subscribers are notified so a view
// can surface it without blocking.
func (s *SessionStore) SendResetRequest(ctx context.Context, email string) bool {
	if err := s.client.PasswordRequest(ctx, email); err != nil {
		s.log.Error("password reset request failed", "error", err)
		s.mu.Lock()
		s.err = "failed to send reset request"
		s.mu.Unlock()
		s.notify()
		return false
	}
	return true
}

// Init restores a persisted session if one exists and fetches the current
// user. It runs at most once per store; concurrent calls wait for the first
// to finish. The initialized flag is set in a cleanup step regardless of
// outcome.
func (s *SessionStore) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		defer func() {
			s.mu.Lock()
			s.initialized = true
			s.mu.Unlock()
			s.notify()
		}()

		session, err := s.client.RestoreSession(ctx)
		if err != nil {
			if !errors.Is(err, cmsdk.ErrNoSession) {
				s.log.Warn("session restore failed", "error", err)
			}
			return
		}

		s.mu.Lock()
		s.remote = session
		s.authenticated = true
		s.mu.Unlock()

		s.FetchCurrentUser(ctx)
	})
}

// User returns a copy of the current user, or nil when logged out.
func (s *SessionStore) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

func (s *SessionStore) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *SessionStore) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Remote returns the authenticated remote session, or nil when logged out.
func (s *SessionStore) Remote() *cmsdk.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remote
}

// Presence returns the current user's presence. Offline when no user is
// loaded.
func (s *SessionStore) Presence() domain.Presence {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil || s.user.ActiveStatus == "" {
		return domain.PresenceOffline
	}
	return s.user.ActiveStatus
}

// ApplyPresence handles a presence command from the check-in flow. Presence
// set this way is optimistic; it is reconciled against server state by the
// next FetchCurrentUser.
func (s *SessionStore) ApplyPresence(p domain.Presence) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	s.user.ActiveStatus = p
	s.mu.Unlock()
	s.notify()
}
