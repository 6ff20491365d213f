package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeTimerStarted    ActivityType = "timer_started"
	TypeTimerStopped    ActivityType = "timer_stopped"
	TypeTimerDiscarded  ActivityType = "timer_discarded"
	TypeTimerRecovered  ActivityType = "timer_recovered"
	TypeSessionRepaired ActivityType = "session_repaired"
	TypePointerRepaired ActivityType = "pointer_repaired"
	TypeProjectCreated  ActivityType = "project_created"
	TypeProjectUpdated  ActivityType = "project_updated"
	TypeProjectArchived ActivityType = "project_archived"
	TypeProjectRestored ActivityType = "project_restored"
	TypeProjectDeleted  ActivityType = "project_deleted"
)

// ActivityEntry represents an event in the activity log. Entries written by
// one service call share an OperationID.
type ActivityEntry struct {
	ID           int64        `json:"id"`
	OperationID  string       `json:"operation_id"`
	ProjectID    *int64       `json:"project_id,omitempty"`
	SessionID    *int64       `json:"session_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
