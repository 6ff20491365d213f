package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo     Repository
	activity ActivityRepository
	timer    TimerStatus
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new project service. activityRepo and timer may be nil.
func NewService(repo Repository, activityRepo ActivityRepository, timer TimerStatus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		activity: activityRepo,
		timer:    timer,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name  string
	Color string
}

// Create creates a new project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	name, err := NormalizeName(req.Name)
	if err != nil {
		return nil, err
	}
	color, err := NormalizeColor(req.Color)
	if err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	proj := &Project{
		Name:      name,
		Color:     color,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.Create(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, errs.Storage("creating project", err)
	}

	s.record(ctx, proj, activity.TypeProjectCreated, fmt.Sprintf("created project %q", proj.Name))
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, errs.Storage("getting project", err)
	}
	return proj, nil
}

// List returns project summaries ordered by name. Archived projects are
// only included on request.
func (s *Service) List(ctx context.Context, includeArchived bool) ([]ProjectSummary, error) {
	list, err := s.repo.List(ctx, includeArchived)
	if err != nil {
		return nil, errs.Storage("listing projects", err)
	}
	return list, nil
}

// Rename changes a project's name.
func (s *Service) Rename(ctx context.Context, id int64, name string) (*Project, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if proj.Name == name {
		return proj, nil
	}
	if err := s.checkNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	old := proj.Name
	proj.Name = name
	if err := s.update(ctx, proj, "renaming project"); err != nil {
		return nil, err
	}
	s.record(ctx, proj, activity.TypeProjectUpdated, fmt.Sprintf("renamed project %q to %q", old, name))
	return proj, nil
}

// Recolor changes a project's color tag.
func (s *Service) Recolor(ctx context.Context, id int64, color string) (*Project, error) {
	if color == "" {
		return nil, ErrInvalidColor
	}
	color, err := NormalizeColor(color)
	if err != nil {
		return nil, err
	}
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	proj.Color = color
	if err := s.update(ctx, proj, "recoloring project"); err != nil {
		return nil, err
	}
	return proj, nil
}

// Archive hides a project from active listings. Its sessions are kept.
func (s *Service) Archive(ctx context.Context, id int64) (*Project, error) {
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if proj.Archived {
		return proj, nil
	}
	if s.isRunning(id) {
		return nil, ErrTimerRunning
	}

	proj.Archived = true
	if err := s.update(ctx, proj, "archiving project"); err != nil {
		return nil, err
	}
	s.record(ctx, proj, activity.TypeProjectArchived, fmt.Sprintf("archived project %q", proj.Name))
	return proj, nil
}

// Restore brings an archived project back into active listings.
func (s *Service) Restore(ctx context.Context, id int64) (*Project, error) {
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !proj.Archived {
		return proj, nil
	}
	if err := s.checkNameFree(ctx, proj.Name, id); err != nil {
		return nil, err
	}

	proj.Archived = false
	if err := s.update(ctx, proj, "restoring project"); err != nil {
		return nil, err
	}
	s.record(ctx, proj, activity.TypeProjectRestored, fmt.Sprintf("restored project %q", proj.Name))
	return proj, nil
}

// Delete removes a project and, through the schema cascade, all of its
// sessions. The caller must pass confirm=true.
func (s *Service) Delete(ctx context.Context, id int64, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	proj, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.isRunning(id) {
		return ErrTimerRunning
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return errs.Storage("deleting project", err)
	}

	if s.logger != nil {
		s.logger.Info("project deleted", "project_id", id, "name", proj.Name)
	}
	s.record(ctx, proj, activity.TypeProjectDeleted, fmt.Sprintf("deleted project %q and its sessions", proj.Name))
	return nil
}

// checkNameFree rejects names held by any other project. The schema keeps
// names unique across archived projects too.
func (s *Service) checkNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return errs.Storage("checking project name", err)
	}
	if existing.ID == selfID {
		return nil
	}
	if existing.Archived {
		return ErrNameArchived
	}
	return ErrDuplicateName
}

func (s *Service) update(ctx context.Context, proj *Project, op string) error {
	if err := s.repo.Update(ctx, proj); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrProjectNotFound
		case errors.Is(err, repository.ErrConflict):
			return ErrDuplicateName
		}
		return errs.Storage(op, err)
	}
	return nil
}

func (s *Service) isRunning(id int64) bool {
	if s.timer == nil {
		return false
	}
	running, ok := s.timer.RunningProjectID()
	return ok && running == id
}

func (s *Service) record(ctx context.Context, proj *Project, typ activity.ActivityType, summary string) {
	if s.activity == nil {
		return
	}
	projectID := proj.ID
	entry := &activity.ActivityEntry{
		OperationID:  uuid.NewString(),
		ProjectID:    &projectID,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.activity.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log project activity", "type", typ, "error", err)
	}
}
