package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/huddlehq/huddle/internal/huddle/domain"
	"github.com/huddlehq/huddle/pkg/cmsdk"
)

// TeamStore is a read wrapper over the teams collections. Each fetch
// replaces the prior result; there is no caching or merging.
type TeamStore struct {
	watchable

	session *SessionStore
	log     *slog.Logger

	mu          sync.Mutex
	teams       []domain.Team
	activeTeams []domain.Team
	members     []domain.TeamMember
	err         string
}

func NewTeamStore(session *SessionStore, log *slog.Logger) *TeamStore {
	if log == nil {
		log = slog.Default()
	}
	return &TeamStore{
		session: session,
		log:     log.With("store", "team"),
	}
}

// FetchTeams loads the first page of teams.
func (s *TeamStore) FetchTeams(ctx context.Context) {
	var teams []domain.Team
	if !s.list(ctx, domain.CollectionTeams, cmsdk.Query{Limit: 10}, &teams) {
		return
	}

	s.mu.Lock()
	s.teams = teams
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// FetchTeamMembers loads the membership rows for one user, with the member
// record expanded one relation level (avatar, role).
func (s *TeamStore) FetchTeamMembers(ctx context.Context, userID string) {
	q := cmsdk.Query{
		Fields: domain.TeamMemberFields,
		Filter: cmsdk.Filter{"directus_users_id": cmsdk.Eq(userID)},
		Limit:  10,
	}

	var members []domain.TeamMember
	if !s.list(ctx, domain.CollectionTeamMembers, q, &members) {
		return
	}

	s.mu.Lock()
	s.members = members
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// FetchActiveTeams loads up to five teams with active status.
func (s *TeamStore) FetchActiveTeams(ctx context.Context) {
	q := cmsdk.Query{
		Limit:  5,
		Filter: cmsdk.Filter{"status": cmsdk.Eq("active")},
	}

	var teams []domain.Team
	if !s.list(ctx, domain.CollectionTeams, q, &teams) {
		return
	}

	s.mu.Lock()
	s.activeTeams = teams
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// list runs one collection read, recording failures in the store error.
func (s *TeamStore) list(ctx context.Context, collection string, q cmsdk.Query, out any) bool {
	remote := s.session.Remote()
	if remote == nil {
		return false
	}

	if err := remote.ListItems(ctx, collection, q, out); err != nil {
		s.log.Error("failed to fetch "+collection, "error", err)
		s.mu.Lock()
		s.err = err.Error()
		s.mu.Unlock()
		s.notify()
		return false
	}
	return true
}

func (s *TeamStore) Teams() []domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams
}

func (s *TeamStore) ActiveTeams() []domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTeams
}

func (s *TeamStore) Members() []domain.TeamMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members
}

func (s *TeamStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
