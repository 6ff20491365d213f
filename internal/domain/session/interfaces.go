package session

import (
	"context"
	"time"

	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/rpggio/timetrack/internal/domain/project"
)

// SessionRepository persists sessions. Open, Close and Discard update the
// app_state pointer in the same transaction as the session row: Open sets it,
// Close and Discard clear it when it references the given session. Open
// fails with repository.ErrConflict while any session is open.
type SessionRepository interface {
	Open(ctx context.Context, sess *Session) error
	Close(ctx context.Context, id int64, end time.Time, duration int64, note *string) error
	Discard(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Session, error)
	// ListOpen returns sessions with no end time, most recent start first.
	ListOpen(ctx context.Context) ([]Session, error)
	// NextStartAfter returns the earliest start strictly after the given time.
	NextStartAfter(ctx context.Context, after time.Time, excludeID int64) (time.Time, error)
}

// StateRepository reads and writes the crash-recovery pointer.
type StateRepository interface {
	GetActive(ctx context.Context) (*ActivePointer, error)
	SetActive(ctx context.Context, ptr ActivePointer) error
	ClearActive(ctx context.Context) error
}

// ProjectRepository provides project lookups.
type ProjectRepository interface {
	Get(ctx context.Context, id int64) (*project.Project, error)
}

// ActivityRepository records timer events.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
