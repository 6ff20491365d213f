package project

import (
	"fmt"

	"github.com/rpggio/timetrack/internal/domain/errs"
)

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = fmt.Errorf("project %w", errs.ErrNotFound)
	// ErrEmptyName indicates a blank project name.
	ErrEmptyName = fmt.Errorf("%w: project name is empty", errs.ErrValidation)
	// ErrNameTooLong indicates a name over MaxNameLength characters.
	ErrNameTooLong = fmt.Errorf("%w: project name is longer than %d characters", errs.ErrValidation, MaxNameLength)
	// ErrDuplicateName indicates another active project already uses the name.
	ErrDuplicateName = fmt.Errorf("%w: a project with this name already exists", errs.ErrValidation)
	// ErrNameArchived indicates an archived project holds the name.
	ErrNameArchived = fmt.Errorf("%w: an archived project uses this name, restore it instead", errs.ErrValidation)
	// ErrInvalidColor indicates a color that is not #RGB or #RRGGBB.
	ErrInvalidColor = fmt.Errorf("%w: color must be a hex value like #4A9EFF", errs.ErrValidation)
	// ErrConfirmationRequired indicates a hard delete without explicit confirmation.
	ErrConfirmationRequired = fmt.Errorf("%w: deleting a project removes its sessions and must be confirmed", errs.ErrValidation)
	// ErrTimerRunning indicates the project has the running timer.
	ErrTimerRunning = fmt.Errorf("%w: project has a running timer, stop it first", errs.ErrState)
)
