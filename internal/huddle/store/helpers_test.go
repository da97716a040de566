package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle/internal/huddle/domain"
	"github.com/huddlehq/huddle/pkg/cmsdk"
)

// fakeCMS is an in-process stand-in for the backend. It models just enough:
// login/logout, the current-user record whose presence follows the
// attendance log, collection reads and the bespoke badge endpoint.
type fakeCMS struct {
	t   *testing.T
	srv *httptest.Server

	mu          sync.Mutex
	me          domain.User
	users       []domain.User
	teams       []domain.Team
	activeTeams []domain.Team
	members     []domain.TeamMember
	badges      []domain.Badge
	attendance  []domain.Attendance

	loginFail  bool
	logoutFail bool
	meFail     bool
	createFail bool
	resetFail  bool
	badgeFail  bool

	calls map[string]int
}

func newFakeCMS(t *testing.T) *fakeCMS {
	t.Helper()

	f := &fakeCMS{t: t, calls: make(map[string]int)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCMS) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.Method+" "+r.URL.Path]++
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		f.mu.Lock()
		fail := f.loginFail
		f.mu.Unlock()
		if fail {
			f.writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid user credentials.")
			return
		}
		f.writeData(w, map[string]any{
			"access_token":  "access-1",
			"expires":       900000,
			"refresh_token": "refresh-1",
		})

	case r.Method == http.MethodPost && r.URL.Path == "/auth/logout":
		f.mu.Lock()
		fail := f.logoutFail
		f.mu.Unlock()
		if fail {
			f.writeError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "revoke failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodPost && r.URL.Path == "/auth/password/request":
		f.mu.Lock()
		fail := f.resetFail
		f.mu.Unlock()
		if fail {
			f.writeError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "mail backend down")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodGet && r.URL.Path == "/users/me":
		f.mu.Lock()
		fail, me := f.meFail, f.me
		f.mu.Unlock()
		if fail {
			f.writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "token rejected")
			return
		}
		f.writeData(w, me)

	case r.Method == http.MethodGet && r.URL.Path == "/users":
		f.mu.Lock()
		users := f.users
		f.mu.Unlock()
		f.writeData(w, users)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/users/"):
		f.mu.Lock()
		me := f.me
		f.mu.Unlock()
		f.writeData(w, me)

	case r.Method == http.MethodGet && r.URL.Path == "/items/attendances":
		f.mu.Lock()
		records := f.attendance
		f.mu.Unlock()
		f.writeData(w, records)

	case r.Method == http.MethodPost && r.URL.Path == "/items/attendances":
		f.handleCreateAttendance(w, r)

	case r.Method == http.MethodGet && r.URL.Path == "/items/teams":
		f.mu.Lock()
		teams := f.teams
		if strings.Contains(r.URL.Query().Get("filter"), "active") {
			teams = f.activeTeams
		}
		f.mu.Unlock()
		f.writeData(w, teams)

	case r.Method == http.MethodGet && r.URL.Path == "/items/teams_directus_users":
		f.mu.Lock()
		members := f.members
		f.mu.Unlock()
		f.writeData(w, members)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/badges-user/"):
		f.mu.Lock()
		fail, badges := f.badgeFail, f.badges
		f.mu.Unlock()
		if fail {
			f.writeError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "badge service down")
			return
		}
		f.writeData(w, badges)

	default:
		f.writeError(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "no such route")
	}
}

// handleCreateAttendance appends a record and recomputes the user's derived
// presence the way the real backend does.
func (f *fakeCMS) handleCreateAttendance(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.createFail
	f.mu.Unlock()
	if fail {
		f.writeError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "write failed")
		return
	}

	var body struct {
		UserID    string `json:"user_id"`
		EventType string `json:"event_type"`
	}
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))

	record := domain.Attendance{
		ID:          "att-1",
		UserID:      body.UserID,
		EventType:   body.EventType,
		DateCreated: time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC),
	}

	f.mu.Lock()
	f.attendance = append([]domain.Attendance{record}, f.attendance...)
	if body.EventType == domain.EventCheckIn {
		f.me.ActiveStatus = domain.PresenceOnline
	} else {
		f.me.ActiveStatus = domain.PresenceOffline
	}
	f.mu.Unlock()

	f.writeData(w, record)
}

func (f *fakeCMS) writeData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func (f *fakeCMS) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{
			{"message": message, "extensions": map[string]string{"code": code}},
		},
	})
}

func (f *fakeCMS) callCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

func (f *fakeCMS) setMe(u domain.User) {
	f.mu.Lock()
	f.me = u
	f.mu.Unlock()
}

// newClient returns a cmsdk client for the fake backed by in-memory token
// storage.
func (f *fakeCMS) newClient() *cmsdk.Client {
	client := cmsdk.New(f.srv.URL)
	client.Storage = cmsdk.NewMemoryStorage()
	return client
}

// loggedInSession returns a SessionStore already authenticated against the
// fake with the current user loaded.
func loggedInSession(t *testing.T, f *fakeCMS) *SessionStore {
	t.Helper()

	session := NewSessionStore(f.newClient(), nil)
	require.True(t, session.Login(context.Background(), "ada@example.com", "secret"))
	require.NotNil(t, session.User())
	return session
}
