// Package app wires the SQLite store to the domain services and runs crash
// recovery, so every front end starts from the same state.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/rpggio/timetrack/internal/domain/session"
	"github.com/rpggio/timetrack/internal/sqlite"
)

// Options configures Open.
type Options struct {
	DBPath   string
	Location *time.Location
	Logger   *slog.Logger
	// Now overrides the wall clock for the timer and reports.
	Now func() time.Time
}

// App holds the opened store and the services built on it.
type App struct {
	DB       *sqlite.DB
	Projects *project.Service
	Timer    *session.Service
	Reports  *report.Service
	Activity *activity.Service
	Logger   *slog.Logger
}

// Open opens the database, applies migrations, builds the services and
// runs timer recovery. A recovered timer's notice waits in
// Timer.TakeRecoveryNotice for the front end.
func Open(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := ensureDBDir(opts.DBPath); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(opts.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}

	projectRepo := sqlite.NewProjectRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	stateRepo := sqlite.NewStateRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	reportRepo := sqlite.NewReportRepository(db)

	timerOpts := []session.Option{session.WithActivity(activityRepo)}
	reportOpts := []report.Option{}
	if opts.Now != nil {
		timerOpts = append(timerOpts, session.WithClock(opts.Now))
		reportOpts = append(reportOpts, report.WithClock(opts.Now))
	}

	timer := session.NewService(sessionRepo, stateRepo, projectRepo, logger, timerOpts...)
	a := &App{
		DB:       db,
		Projects: project.NewService(projectRepo, activityRepo, timer, logger),
		Timer:    timer,
		Reports:  report.NewService(reportRepo, timer, opts.Location, logger, reportOpts...),
		Activity: activity.NewService(activityRepo, logger),
		Logger:   logger,
	}

	notice, err := timer.Recover(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("recover timer: %w", err)
	}
	if notice != nil {
		logger.Warn("recovered timer after unclean exit", "project", notice.ProjectName, "session_id", notice.SessionID, "repaired", len(notice.Repaired))
	}
	return a, nil
}

// Close releases the database. A running timer stays open in the store and
// is recovered on the next Open.
func (a *App) Close() error {
	return a.DB.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
