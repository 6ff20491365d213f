package mocks

import (
	"context"
	"time"

	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/rpggio/timetrack/internal/domain/session"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetByName(ctx context.Context, name string) (*project.Project, error) {
	args := m.Called(ctx, name)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, includeArchived bool) ([]project.ProjectSummary, error) {
	args := m.Called(ctx, includeArchived)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SessionRepository is a mock for session.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Open(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Close(ctx context.Context, id int64, end time.Time, duration int64, note *string) error {
	args := m.Called(ctx, id, end, duration, note)
	return args.Error(0)
}

func (m *SessionRepository) Discard(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id int64) (*session.Session, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) ListOpen(ctx context.Context) ([]session.Session, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) NextStartAfter(ctx context.Context, after time.Time, excludeID int64) (time.Time, error) {
	args := m.Called(ctx, after, excludeID)
	return args.Get(0).(time.Time), args.Error(1)
}

// StateRepository is a mock for session.StateRepository.
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) GetActive(ctx context.Context) (*session.ActivePointer, error) {
	args := m.Called(ctx)
	if ptr, ok := args.Get(0).(*session.ActivePointer); ok {
		return ptr, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StateRepository) SetActive(ctx context.Context, ptr session.ActivePointer) error {
	args := m.Called(ctx, ptr)
	return args.Error(0)
}

func (m *StateRepository) ClearActive(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ReportRepository is a mock for report.Repository.
type ReportRepository struct {
	mock.Mock
}

func (m *ReportRepository) GetProject(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportRepository) ListProjects(ctx context.Context, includeArchived bool) ([]project.Project, error) {
	args := m.Called(ctx, includeArchived)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportRepository) SumByProject(ctx context.Context, from, to time.Time) (map[int64]int64, error) {
	args := m.Called(ctx, from, to)
	if sums, ok := args.Get(0).(map[int64]int64); ok {
		return sums, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportRepository) ListSessions(ctx context.Context, q report.SessionQuery) ([]report.Entry, error) {
	args := m.Called(ctx, q)
	if list, ok := args.Get(0).([]report.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportRepository) Summarize(ctx context.Context, q report.SessionQuery) (report.Summary, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(report.Summary), args.Error(1)
}

// LiveSource is a mock for report.LiveSource.
type LiveSource struct {
	mock.Mock
}

func (m *LiveSource) Status() session.Status {
	args := m.Called()
	return args.Get(0).(session.Status)
}
