package domain

import "time"

const CollectionAttendance = "attendances"

// Attendance event kinds.
const (
	EventCheckIn  = "check_in"
	EventCheckOut = "check_out"
)

// Attendance is one entry in the append-only attendance log. Records are
// never updated or deleted by the client; date_created is assigned by the
// server.
type Attendance struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	EventType   string    `json:"event_type"`
	DateCreated time.Time `json:"date_created"`
}

var AttendanceFields = []string{"id", "user_id", "event_type", "date_created"}
