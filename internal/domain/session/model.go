package session

import (
	"fmt"
	"time"

	units "github.com/docker/go-units"
)

// App state keys holding the crash-recovery pointer.
const (
	KeyActiveSession = "active_session_id"
	KeyActiveProject = "active_project_id"
)

// Session is one contiguous start→stop interval tracked against a project.
// A nil EndTime marks the running session.
type Session struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	ProjectName string     `json:"project_name,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    int64      `json:"duration"` // seconds, authoritative once closed
	Note        *string    `json:"note,omitempty"`
}

// Open reports whether the session is still running.
func (s *Session) Open() bool {
	return s.EndTime == nil
}

// ActivePointer is the redundant app_state record of the running session.
type ActivePointer struct {
	SessionID int64
	ProjectID int64
}

// TimerState is the state machine's current state.
type TimerState string

const (
	StateIdle    TimerState = "idle"
	StateRunning TimerState = "running"
)

// Status is a snapshot of the timer for presentation.
type Status struct {
	State       TimerState `json:"state"`
	SessionID   int64      `json:"session_id,omitempty"`
	ProjectID   int64      `json:"project_id,omitempty"`
	ProjectName string     `json:"project_name,omitempty"`
	StartTime   time.Time  `json:"start_time,omitempty"`
	Elapsed     int64      `json:"elapsed"`
}

// Running reports whether the snapshot was taken while a timer ran.
func (s Status) Running() bool {
	return s.State == StateRunning
}

// RepairedSession describes an extra open session closed during recovery.
type RepairedSession struct {
	SessionID   int64     `json:"session_id"`
	ProjectID   int64     `json:"project_id"`
	ProjectName string    `json:"project_name,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Duration    int64     `json:"duration"`
}

// RecoveryNotice tells the front end that a timer survived an unclean exit.
type RecoveryNotice struct {
	SessionID       int64             `json:"session_id"`
	ProjectID       int64             `json:"project_id"`
	ProjectName     string            `json:"project_name"`
	StartTime       time.Time         `json:"start_time"`
	PointerRepaired bool              `json:"pointer_repaired,omitempty"`
	Repaired        []RepairedSession `json:"repaired,omitempty"`
}

// Message renders the notice for the user.
func (n RecoveryNotice) Message(now time.Time) string {
	msg := fmt.Sprintf("Recovered running timer for %q, started %s ago.",
		n.ProjectName, units.HumanDuration(now.Sub(n.StartTime)))
	if n.PointerRepaired {
		msg += " Its recovery record was missing and has been rebuilt."
	}
	if len(n.Repaired) > 0 {
		msg += fmt.Sprintf(" %d other open session(s) were closed at their last plausible end; check History.", len(n.Repaired))
	}
	return msg
}
