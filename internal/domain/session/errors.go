package session

import (
	"fmt"

	"github.com/rpggio/timetrack/internal/domain/errs"
)

var (
	// ErrNotRecovered indicates Start was called before Recover.
	ErrNotRecovered = fmt.Errorf("%w: crash recovery has not run", errs.ErrState)
	// ErrAlreadyRecovered indicates Recover was called twice.
	ErrAlreadyRecovered = fmt.Errorf("%w: crash recovery already ran", errs.ErrState)
	// ErrSessionLost indicates the running session row vanished or was closed behind the service's back.
	ErrSessionLost = fmt.Errorf("%w: running session is no longer open in the store", errs.ErrState)
	// ErrProjectNotFound indicates the timer target doesn't exist.
	ErrProjectNotFound = fmt.Errorf("project %w", errs.ErrNotFound)
	// ErrProjectArchived indicates the timer target is archived.
	ErrProjectArchived = fmt.Errorf("%w: project is archived", errs.ErrValidation)
	// ErrTimerRunningElsewhere indicates another process sharing the database has a timer running.
	ErrTimerRunningElsewhere = fmt.Errorf("%w: a timer is already running in another window", errs.ErrState)
)
