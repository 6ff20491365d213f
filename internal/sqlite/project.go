package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/repository"
)

var _ project.Repository = (*ProjectRepository)(nil)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, color, created_at, archived`

// Create inserts a project and sets its ID
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (name, color, created_at, archived)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.Color,
		formatTime(proj.CreatedAt),
		proj.Archived,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read project id: %w", err)
	}
	proj.ID = id
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	proj, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// GetByName retrieves a project by exact name, archived or not
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*project.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE name = ?`, name)
	proj, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get project by name: %w", err)
	}
	return proj, nil
}

// List returns projects ordered by name with their closed-session totals
func (r *ProjectRepository) List(ctx context.Context, includeArchived bool) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.color,
			p.archived,
			p.created_at,
			COUNT(s.id) AS session_count,
			COALESCE(SUM(CASE WHEN s.end_time IS NOT NULL THEN s.duration END), 0) AS total_seconds
		FROM projects p
		LEFT JOIN sessions s ON s.project_id = p.id
		WHERE ? OR p.archived = 0
		GROUP BY p.id
		ORDER BY p.name COLLATE NOCASE, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.ProjectSummary
	for rows.Next() {
		var summary project.ProjectSummary
		var createdAt string
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Color,
			&summary.Archived,
			&createdAt,
			&summary.SessionCount,
			&summary.TotalSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		if summary.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// Update writes name, color and archived flag
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects
		SET name = ?, color = ?, archived = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, proj.Name, proj.Color, proj.Archived, proj.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a project; its sessions go with it through ON DELETE CASCADE
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var createdAt string
	err := row.Scan(&proj.ID, &proj.Name, &proj.Color, &createdAt, &proj.Archived)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if proj.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &proj, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
