package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/rpggio/timetrack/internal/domain/session"
)

const (
	defaultHistoryLimit  = 100
	defaultActivityLimit = 50
)

// Handler dispatches MCP tool calls.
type Handler struct {
	projects  ProjectService
	timer     TimerService
	reports   ReportService
	activity  ActivityService
	exportDir string
	now       func() time.Time
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services, exportDir string) *Handler {
	return &Handler{
		projects:  services.Projects,
		timer:     services.Timer,
		reports:   services.Reports,
		activity:  services.Activity,
		exportDir: exportDir,
		now:       time.Now,
	}
}

// Handle dispatches a tool call to domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Create(ctx, project.CreateRequest{Name: req.Name, Color: req.Color})
	case "list_projects":
		var req ListProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		projects, err := h.projects.List(ctx, req.IncludeArchived)
		if err != nil {
			return nil, err
		}
		if projects == nil {
			projects = []project.ProjectSummary{}
		}
		return projects, nil
	case "rename_project":
		var req RenameProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Rename(ctx, req.ProjectID, req.Name)
	case "recolor_project":
		var req RecolorProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Recolor(ctx, req.ProjectID, req.Color)
	case "archive_project":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Archive(ctx, req.ProjectID)
	case "restore_project":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Restore(ctx, req.ProjectID)
	case "delete_project":
		var req DeleteProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.projects.Delete(ctx, req.ProjectID, req.Confirm); err != nil {
			return nil, err
		}
		return DeleteProjectResponse{Deleted: true, ProjectID: req.ProjectID}, nil
	case "start_timer":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		before := h.timer.Status()
		sess, err := h.timer.Start(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		resp := StartTimerResponse{Session: sess}
		if before.Running() {
			resp.Previous = &before
		}
		return resp, nil
	case "stop_timer":
		var req StopTimerParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, err := h.timer.Stop(ctx, req.Note)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return StopTimerResponse{}, nil
		}
		return StopTimerResponse{
			Stopped:      true,
			Session:      sess,
			DurationText: session.FormatSeconds(sess.Duration),
		}, nil
	case "discard_timer":
		running := h.timer.Status().Running()
		if err := h.timer.Discard(ctx); err != nil {
			return nil, err
		}
		return DiscardTimerResponse{Discarded: running}, nil
	case "timer_status":
		status := h.timer.Status()
		resp := TimerStatusResponse{
			Status:      status,
			ElapsedText: session.FormatSeconds(status.Elapsed),
		}
		if notice := h.timer.TakeRecoveryNotice(); notice != nil {
			resp.Recovery = &RecoveryResponse{
				RecoveryNotice: notice,
				Message:        notice.Message(h.now()),
			}
		}
		return resp, nil
	case "get_dashboard":
		var req DashboardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.reports.Dashboard(ctx, req.ProjectID)
	case "get_weekly":
		return h.reports.Weekly(ctx)
	case "get_history":
		var req HistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		filter, err := buildFilter(req.ProjectID, req.From, req.To)
		if err != nil {
			return nil, err
		}
		filter.Limit = req.Limit
		if filter.Limit <= 0 {
			filter.Limit = defaultHistoryLimit
		}
		filter.Offset = req.Offset
		return h.reports.History(ctx, filter)
	case "export_csv":
		var req ExportParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.export(ctx, req)
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{
			ProjectID: req.ProjectID,
			Limit:     req.Limit,
		}
		if opts.Limit <= 0 {
			opts.Limit = defaultActivityLimit
		}
		if req.Type != "" {
			typ := activity.ActivityType(req.Type)
			opts.ActivityType = &typ
		}
		if req.Since != "" {
			since, err := session.ParseTimestamp(req.Since)
			if err != nil {
				return nil, fmt.Errorf("%w: since: %w", ErrInvalidParams, err)
			}
			opts.Since = &since
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []activity.ActivityEntry{}
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: unknown method: %s", errs.ErrNotFound, method)
	}
}

func (h *Handler) export(ctx context.Context, req ExportParams) (ExportResponse, error) {
	filter, err := buildFilter(req.ProjectID, req.From, req.To)
	if err != nil {
		return ExportResponse{}, err
	}
	var buf bytes.Buffer
	rows, err := h.reports.Export(ctx, &buf, filter)
	if err != nil {
		return ExportResponse{}, err
	}
	resp := ExportResponse{
		FileName: h.reports.ExportFileName(filter),
		Rows:     rows,
		CSV:      buf.String(),
	}
	if req.Save {
		if h.exportDir == "" {
			return ExportResponse{}, fmt.Errorf("%w: no export directory is configured", errs.ErrValidation)
		}
		if err := os.MkdirAll(h.exportDir, 0o755); err != nil {
			return ExportResponse{}, errs.Storage("create export directory", err)
		}
		path := filepath.Join(h.exportDir, resp.FileName)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return ExportResponse{}, errs.Storage("write export", err)
		}
		resp.SavedTo = path
	}
	return resp, nil
}

func buildFilter(projectID *int64, from, to string) (report.Filter, error) {
	fromDate, err := report.ParseDate(from)
	if err != nil {
		return report.Filter{}, err
	}
	toDate, err := report.ParseDate(to)
	if err != nil {
		return report.Filter{}, err
	}
	return report.Filter{ProjectID: projectID, From: fromDate, To: toDate}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}
