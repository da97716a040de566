package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/huddlehq/huddle/internal/huddle/domain"
	"github.com/huddlehq/huddle/pkg/cmsdk"
)

// UserFilters narrows a directory listing. Zero values are ignored.
type UserFilters struct {
	Search string
	Status domain.Presence
	Limit  int
}

// defaultUserLimit caps directory pages when the caller asks for no limit.
const defaultUserLimit = 15

// UserStore is a read wrapper over the user directory and the per-user badge
// endpoint. Each fetch replaces the prior result.
type UserStore struct {
	watchable

	session *SessionStore
	log     *slog.Logger

	mu          sync.Mutex
	user        *domain.User
	users       []domain.User
	activeUsers []domain.User
	badges      []domain.Badge
	err         string
}

func NewUserStore(session *SessionStore, log *slog.Logger) *UserStore {
	if log == nil {
		log = slog.Default()
	}
	return &UserStore{
		session: session,
		log:     log.With("store", "user"),
	}
}

// FetchUsers lists directory users, optionally narrowed by free-text search
// and presence status.
func (s *UserStore) FetchUsers(ctx context.Context, filters UserFilters) {
	remote := s.session.Remote()
	if remote == nil {
		return
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultUserLimit
	}

	q := cmsdk.Query{
		Fields: domain.UserFields,
		Limit:  limit,
		Search: filters.Search,
	}
	if filters.Status != "" {
		q.Filter = cmsdk.Filter{"active_status": cmsdk.Eq(string(filters.Status))}
	}

	var users []domain.User
	if err := remote.ListUsers(ctx, q, &users); err != nil {
		s.fail("failed to fetch users", err)
		return
	}

	s.mu.Lock()
	s.users = users
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// FetchUserByID loads one user's profile.
func (s *UserStore) FetchUserByID(ctx context.Context, userID string) {
	remote := s.session.Remote()
	if remote == nil {
		return
	}

	var user domain.User
	q := cmsdk.Query{Fields: domain.UserFields}
	if err := remote.ReadUser(ctx, userID, q, &user); err != nil {
		s.fail("failed to fetch user", err)
		return
	}

	s.mu.Lock()
	s.user = &user
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// FetchActiveUsers loads up to five currently online users.
func (s *UserStore) FetchActiveUsers(ctx context.Context) {
	remote := s.session.Remote()
	if remote == nil {
		return
	}

	q := cmsdk.Query{
		Fields: domain.UserFields,
		Limit:  5,
		Filter: cmsdk.Filter{"active_status": cmsdk.Eq(string(domain.PresenceOnline))},
	}

	var users []domain.User
	if err := remote.ListUsers(ctx, q, &users); err != nil {
		s.fail("failed to fetch active users", err)
		return
	}

	s.mu.Lock()
	s.activeUsers = users
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// FetchUserBadges loads a user's badges through the bespoke endpoint.
// Failure is recorded in the store error but does not interrupt navigation.
func (s *UserStore) FetchUserBadges(ctx context.Context, userID string) {
	remote := s.session.Remote()
	if remote == nil {
		return
	}

	var badges []domain.Badge
	if err := remote.Get(ctx, domain.BadgeEndpoint(userID), &badges); err != nil {
		s.fail("failed to fetch badges", err)
		return
	}

	s.mu.Lock()
	s.badges = badges
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *UserStore) fail(msg string, err error) {
	s.log.Error(msg, "error", err)
	s.mu.Lock()
	s.err = err.Error()
	s.mu.Unlock()
	s.notify()
}

func (s *UserStore) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

func (s *UserStore) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users
}

func (s *UserStore) ActiveUsers() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeUsers
}

func (s *UserStore) Badges() []domain.Badge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badges
}

func (s *UserStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
