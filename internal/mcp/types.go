package mcp

import (
	"github.com/rpggio/timetrack/internal/domain/session"
)

type CreateProjectParams struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type ListProjectsParams struct {
	IncludeArchived bool `json:"include_archived,omitempty"`
}

type ProjectIDParams struct {
	ProjectID int64 `json:"project_id"`
}

type RenameProjectParams struct {
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
}

type RecolorProjectParams struct {
	ProjectID int64  `json:"project_id"`
	Color     string `json:"color"`
}

type DeleteProjectParams struct {
	ProjectID int64 `json:"project_id"`
	Confirm   bool  `json:"confirm"`
}

type StopTimerParams struct {
	Note string `json:"note,omitempty"`
}

type DashboardParams struct {
	ProjectID *int64 `json:"project_id,omitempty"`
}

type HistoryParams struct {
	ProjectID *int64 `json:"project_id,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

type ExportParams struct {
	ProjectID *int64 `json:"project_id,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Save      bool   `json:"save,omitempty"`
}

type GetRecentActivityParams struct {
	ProjectID *int64 `json:"project_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Since     string `json:"since,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type TimerStatusResponse struct {
	session.Status
	ElapsedText string            `json:"elapsed_text"`
	Recovery    *RecoveryResponse `json:"recovery,omitempty"`
}

type RecoveryResponse struct {
	*session.RecoveryNotice
	Message string `json:"message"`
}

type StopTimerResponse struct {
	Stopped      bool             `json:"stopped"`
	Session      *session.Session `json:"session,omitempty"`
	DurationText string           `json:"duration_text,omitempty"`
}

type StartTimerResponse struct {
	Session *session.Session `json:"session"`
	// Previous is the timer that was stopped to make room, if any.
	Previous *session.Status `json:"previous,omitempty"`
}

type DiscardTimerResponse struct {
	Discarded bool `json:"discarded"`
}

type DeleteProjectResponse struct {
	Deleted   bool  `json:"deleted"`
	ProjectID int64 `json:"project_id"`
}

type ExportResponse struct {
	FileName string `json:"file_name"`
	Rows     int    `json:"rows"`
	CSV      string `json:"csv"`
	SavedTo  string `json:"saved_to,omitempty"`
}
