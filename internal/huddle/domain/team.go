package domain

import "time"

// Collection names in the CMS backend.
const (
	CollectionTeams       = "teams"
	CollectionTeamMembers = "teams_directus_users"
)

type Team struct {
	ID string `json:"id"`

	// Label is the team's display name; the collection stores it in a
	// field called "teams".
	Label string `json:"teams"`

	Description string    `json:"description,omitempty"`
	MemberCount int       `json:"team_length,omitempty"`
	Leader      string    `json:"leader,omitempty"`
	Status      string    `json:"status,omitempty"`
	DateCreated time.Time `json:"date_created,omitempty"`
}

// TeamMember is the join entity carrying per-member status between a team
// and a user, with one level of user relation expanded.
type TeamMember struct {
	ID     string     `json:"id"`
	TeamID string     `json:"teams_id"`
	Status string     `json:"status,omitempty"`
	User   MemberUser `json:"directus_users_id"`
}

// MemberUser is the expanded slice of the member's user record.
type MemberUser struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Avatar    *Avatar `json:"avatar,omitempty"`
	Role      *Role   `json:"role,omitempty"`
}

type Avatar struct {
	ID       string `json:"id"`
	Filename string `json:"filename_download,omitempty"`
}

type Role struct {
	Name string `json:"name"`
}

// TeamMemberFields selects the join fields plus the expanded member record.
var TeamMemberFields = []string{
	"id", "status", "teams_id",
	"directus_users_id.id",
	"directus_users_id.first_name",
	"directus_users_id.last_name",
	"directus_users_id.avatar.id",
	"directus_users_id.avatar.filename_download",
	"directus_users_id.role.name",
}
