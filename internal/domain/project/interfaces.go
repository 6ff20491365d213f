package project

import (
	"context"

	"github.com/rpggio/timetrack/internal/domain/activity"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id int64) (*Project, error)
	GetByName(ctx context.Context, name string) (*Project, error)
	List(ctx context.Context, includeArchived bool) ([]ProjectSummary, error)
	Update(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, id int64) error
}

// ActivityRepository records project events.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// TimerStatus reports which project, if any, has the running timer.
type TimerStatus interface {
	RunningProjectID() (int64, bool)
}
