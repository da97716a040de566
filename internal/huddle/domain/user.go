package domain

import "time"

// Presence is the user's presence state. It is a derived cache of the most
// recent attendance event, recomputed server-side and refreshed by
// re-fetching the user after each check-in/out.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceOffline Presence = "offline"
	PresenceAway    Presence = "away"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Position     string    `json:"position,omitempty"`
	ActiveStatus Presence  `json:"active_status,omitempty"`
	LastAccess   time.Time `json:"last_access,omitempty"`
}

// DisplayName returns the user's full name, falling back to the email
// address when no name is set.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// UserFields is the field selection used whenever a full user record is
// fetched.
var UserFields = []string{
	"id", "email", "first_name", "last_name",
	"avatar", "position", "active_status", "last_access",
}
