package report

import (
	"context"
	"time"

	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/session"
)

// Repository provides read-only aggregate queries over sessions.
type Repository interface {
	GetProject(ctx context.Context, id int64) (*project.Project, error)
	ListProjects(ctx context.Context, includeArchived bool) ([]project.Project, error)
	// SumByProject totals closed-session seconds per project for sessions
	// starting in [from, to). Zero bounds are unbounded.
	SumByProject(ctx context.Context, from, to time.Time) (map[int64]int64, error)
	// ListSessions returns matching sessions, newest start first.
	ListSessions(ctx context.Context, q SessionQuery) ([]Entry, error)
	// Summarize counts matching sessions and totals closed-session seconds.
	Summarize(ctx context.Context, q SessionQuery) (Summary, error)
}

// LiveSource exposes the running timer so aggregates can include it.
type LiveSource interface {
	Status() session.Status
}
