package activity

import (
	"fmt"

	"github.com/rpggio/timetrack/internal/domain/errs"
)

// ErrInvalidInput indicates a missing or malformed activity entry.
var ErrInvalidInput = fmt.Errorf("%w: invalid activity entry", errs.ErrValidation)
