package report

import (
	"fmt"

	"github.com/rpggio/timetrack/internal/domain/errs"
)

var (
	// ErrProjectNotFound indicates a filter names a project that doesn't exist.
	ErrProjectNotFound = fmt.Errorf("project %w", errs.ErrNotFound)
	// ErrInvalidRange indicates a date range whose start is after its end.
	ErrInvalidRange = fmt.Errorf("%w: start date is after end date", errs.ErrValidation)
	// ErrInvalidExport indicates a CSV that is not in the export format.
	ErrInvalidExport = fmt.Errorf("%w: not a timetracker CSV export", errs.ErrValidation)
)
