package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/huddlehq/huddle/internal/huddle/domain"
	"github.com/huddlehq/huddle/pkg/cmsdk"
	"github.com/huddlehq/huddle/pkg/fence"
)

// ErrMissingUserID reports a check-in/out attempted without a user
// identifier. Raised before any network call.
var ErrMissingUserID = errors.New("store: user id is required")

// CheckInStore drives the attendance flow: create an append-only attendance
// record, optimistically move the session user's presence, then reconcile
// against server state. Each operation carries a monotonic request token;
// responses that are no longer the latest are discarded instead of applied.
//
// Rapid double-clicks can still create duplicate attendance records; the
// backend assigns no idempotency key and the product has not decided on a
// dedup policy.
type CheckInStore struct {
	watchable

	session *SessionStore
	log     *slog.Logger
	gate    *fence.Gate

	mu         sync.Mutex
	checkInAt  time.Time
	checkOutAt time.Time
	err        string
}

func NewCheckInStore(session *SessionStore, log *slog.Logger) *CheckInStore {
	if log == nil {
		log = slog.Default()
	}
	return &CheckInStore{
		session: session,
		log:     log.With("store", "checkin"),
		gate:    fence.NewGate(),
	}
}

// InitializeCheck restores the last check-in or check-out display timestamp
// after a reload by fetching the single most recent attendance record
// matching the user's cached presence. Fails silently into empty display
// state when no record exists or the fetch errors.
func (s *CheckInStore) InitializeCheck(ctx context.Context, userID string) {
	if userID == "" {
		return
	}

	remote := s.session.Remote()
	if remote == nil {
		return
	}

	kind := domain.EventCheckOut
	if s.session.Presence() == domain.PresenceOnline {
		kind = domain.EventCheckIn
	}

	token := s.gate.Next()

	var records []domain.Attendance
	q := cmsdk.Query{
		Fields: domain.AttendanceFields,
		Filter: cmsdk.Filter{
			"user_id":    cmsdk.Eq(userID),
			"event_type": cmsdk.Eq(kind),
		},
		Sort:  []string{"-date_created"},
		Limit: 1,
	}
	if err := remote.ListItems(ctx, domain.CollectionAttendance, q, &records); err != nil {
		s.log.Debug("could not restore attendance state", "error", err)
		return
	}
	if len(records) == 0 || !s.gate.Admit(token) {
		return
	}

	s.mu.Lock()
	if kind == domain.EventCheckIn {
		s.checkInAt = records[0].DateCreated
	} else {
		s.checkOutAt = records[0].DateCreated
	}
	s.mu.Unlock()
	s.notify()
}

// CheckIn records a check-in event. The session user's presence moves to the
// transitional "away" value before the call; on success the current user is
// re-fetched so presence reflects server state, on failure presence rolls
// back to its exact prior value and the error is recorded. Returns
// ErrMissingUserID without any network call or state change when userID is
// empty.
func (s *CheckInStore) CheckIn(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}

	remote := s.session.Remote()
	if remote == nil {
		return errors.New("store: not authenticated")
	}

	token := s.gate.Next()

	prior := s.session.Presence()
	s.session.ApplyPresence(domain.PresenceAway)

	var record domain.Attendance
	err := remote.CreateItem(ctx, domain.CollectionAttendance, map[string]string{
		"user_id":    userID,
		"event_type": domain.EventCheckIn,
	}, &record)
	if err != nil {
		s.log.Error("check-in failed", "error", err, "user_id", userID)
		if s.gate.Admit(token) {
			s.session.ApplyPresence(prior)
			s.setErr(err.Error())
		}
		return nil
	}

	if !s.gate.Admit(token) {
		// A newer check-in/out superseded this one; its reconciliation wins.
		return nil
	}

	s.mu.Lock()
	s.checkInAt = record.DateCreated
	s.err = ""
	s.mu.Unlock()

	s.session.FetchCurrentUser(ctx)
	s.notify()
	return nil
}

// CheckOut records a check-out event. Only proceeds when presence is
// currently online, guarding against duplicate check-outs. Failure is
// recorded in the store error and logged.
func (s *CheckInStore) CheckOut(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}

	if s.session.Presence() != domain.PresenceOnline {
		return nil
	}

	remote := s.session.Remote()
	if remote == nil {
		return errors.New("store: not authenticated")
	}

	token := s.gate.Next()

	var record domain.Attendance
	err := remote.CreateItem(ctx, domain.CollectionAttendance, map[string]string{
		"user_id":    userID,
		"event_type": domain.EventCheckOut,
	}, &record)
	if err != nil {
		s.log.Error("check-out failed", "error", err, "user_id", userID)
		if s.gate.Admit(token) {
			s.setErr(err.Error())
		}
		return nil
	}

	if !s.gate.Admit(token) {
		return nil
	}

	s.mu.Lock()
	s.checkOutAt = record.DateCreated
	s.err = ""
	s.mu.Unlock()

	s.session.FetchCurrentUser(ctx)
	s.notify()
	return nil
}

// CheckInAt returns the last check-in timestamp, zero when none.
func (s *CheckInStore) CheckInAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkInAt
}

// CheckOutAt returns the last check-out timestamp, zero when none.
func (s *CheckInStore) CheckOutAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkOutAt
}

func (s *CheckInStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *CheckInStore) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
	s.notify()
}
