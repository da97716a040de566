package domain

import "time"

// Badge is an award shown on a user's profile. Read-only from the client's
// perspective; fetched through a bespoke endpoint rather than the collection
// surface.
type Badge struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	AwardedAt   time.Time      `json:"awarded_at,omitempty"`
	Message     map[string]any `json:"message,omitempty"`
}

// BadgeEndpoint returns the bespoke per-user badges path.
func BadgeEndpoint(userID string) string {
	return "/badges-user/" + userID
}
