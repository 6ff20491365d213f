package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/report"
)

var _ report.Repository = (*ReportRepository)(nil)

// ReportRepository implements report.Repository for SQLite
type ReportRepository struct {
	db       *DB
	projects *ProjectRepository
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db, projects: NewProjectRepository(db)}
}

// GetProject retrieves a project by ID
func (r *ReportRepository) GetProject(ctx context.Context, id int64) (*project.Project, error) {
	return r.projects.Get(ctx, id)
}

// ListProjects returns projects ordered by name
func (r *ReportRepository) ListProjects(ctx context.Context, includeArchived bool) ([]project.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE ? OR archived = 0
		ORDER BY name COLLATE NOCASE, id
	`, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// SumByProject totals closed-session seconds per project for sessions
// starting in [from, to)
func (r *ReportRepository) SumByProject(ctx context.Context, from, to time.Time) (map[int64]int64, error) {
	where, args := bounds([]string{"end_time IS NOT NULL"}, nil, "start_time", from, to)
	rows, err := r.db.QueryContext(ctx, `
		SELECT project_id, COALESCE(SUM(duration), 0)
		FROM sessions
		WHERE `+strings.Join(where, " AND ")+`
		GROUP BY project_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sessions: %w", err)
	}
	defer rows.Close()

	sums := make(map[int64]int64)
	for rows.Next() {
		var projectID, total int64
		if err := rows.Scan(&projectID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan session sum: %w", err)
		}
		sums[projectID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sum rows: %w", err)
	}
	return sums, nil
}

// ListSessions returns matching sessions, newest start first
func (r *ReportRepository) ListSessions(ctx context.Context, q report.SessionQuery) ([]report.Entry, error) {
	where, args := sessionWhere(q)
	query := `
		SELECT s.id, s.project_id, p.name, p.color, s.start_time, s.end_time, s.duration, s.note
		FROM sessions s
		JOIN projects p ON p.id = s.project_id
		WHERE ` + where + `
		ORDER BY s.start_time DESC, s.id DESC
	`
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
		if q.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, q.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var entries []report.Entry
	for rows.Next() {
		var e report.Entry
		var start string
		var end, note sql.NullString
		if err := rows.Scan(
			&e.SessionID,
			&e.ProjectID,
			&e.ProjectName,
			&e.ProjectColor,
			&start,
			&end,
			&e.Duration,
			&note,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if e.StartTime, err = parseTime(start); err != nil {
			return nil, err
		}
		if e.EndTime, err = parseNullTime(end); err != nil {
			return nil, err
		}
		e.Open = e.EndTime == nil
		e.Note = note.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return entries, nil
}

// Summarize counts matching sessions and totals closed-session seconds
func (r *ReportRepository) Summarize(ctx context.Context, q report.SessionQuery) (report.Summary, error) {
	where, args := sessionWhere(q)
	var summary report.Summary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN s.end_time IS NOT NULL THEN s.duration END), 0)
		FROM sessions s
		WHERE `+where, args...).Scan(&summary.Count, &summary.TotalSeconds)
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to summarize sessions: %w", err)
	}
	return summary, nil
}

func sessionWhere(q report.SessionQuery) (string, []any) {
	where := []string{"1 = 1"}
	var args []any
	if !q.IncludeOpen {
		where = append(where, "s.end_time IS NOT NULL")
	}
	if q.ProjectID != nil {
		where = append(where, "s.project_id = ?")
		args = append(args, *q.ProjectID)
	}
	where, args = bounds(where, args, "s.start_time", q.From, q.To)
	return strings.Join(where, " AND "), args
}
