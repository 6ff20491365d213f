package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/rpggio/timetrack/internal/domain/session"
)

// ErrInvalidParams indicates tool arguments that do not decode.
var ErrInvalidParams = fmt.Errorf("%w: invalid tool arguments", errs.ErrValidation)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Errors outside the
// domain kinds map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	msg := err.Error()
	switch {
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: msg, RecoveryHint: "Check argument names and types against the tool schema"}
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, session.ErrProjectNotFound), errors.Is(err, report.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects to find valid IDs"}
	case errors.Is(err, session.ErrProjectArchived):
		return &APIError{Code: "PROJECT_ARCHIVED", Message: msg, RecoveryHint: "Call restore_project before starting a timer"}
	case errors.Is(err, project.ErrTimerRunning):
		return &APIError{Code: "TIMER_RUNNING", Message: msg, RecoveryHint: "Call stop_timer or discard_timer first"}
	case errors.Is(err, project.ErrConfirmationRequired):
		return &APIError{Code: "CONFIRMATION_REQUIRED", Message: msg, RecoveryHint: "Ask the user, then retry with confirm=true"}
	case errors.Is(err, project.ErrDuplicateName), errors.Is(err, project.ErrNameArchived):
		return &APIError{Code: "NAME_TAKEN", Message: msg, RecoveryHint: "Pick another name or restore the archived project"}
	case errors.Is(err, project.ErrInvalidColor):
		return &APIError{Code: "INVALID_COLOR", Message: msg, RecoveryHint: "Use #RGB or #RRGGBB"}
	case errors.Is(err, report.ErrInvalidRange):
		return &APIError{Code: "INVALID_RANGE", Message: msg, RecoveryHint: "Swap from and to"}
	case errors.Is(err, session.ErrSessionLost):
		return &APIError{Code: "SESSION_LOST", Message: msg, RecoveryHint: "The timer is now idle; check get_history and start again if needed"}
	case errors.Is(err, session.ErrTimerRunningElsewhere):
		return &APIError{Code: "TIMER_RUNNING_ELSEWHERE", Message: msg, RecoveryHint: "Stop the timer in the other window first"}
	case errors.Is(err, session.ErrNotRecovered):
		return &APIError{Code: "NOT_READY", Message: msg, RecoveryHint: "Restart the server"}
	}

	switch errs.Kind(err) {
	case errs.ErrValidation:
		return &APIError{Code: "VALIDATION_ERROR", Message: msg}
	case errs.ErrNotFound:
		return &APIError{Code: "NOT_FOUND", Message: msg}
	case errs.ErrState:
		return &APIError{Code: "STATE_ERROR", Message: msg, RecoveryHint: "Call timer_status to see the current state"}
	case errs.ErrStorage:
		return &APIError{Code: "STORAGE_ERROR", Message: msg, RecoveryHint: "Nothing was changed; retry the call"}
	default:
		return nil
	}
}
