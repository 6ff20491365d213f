package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/repository"
)

// Service owns the timer state machine: Idle, or Running one session.
// All methods are safe for concurrent use; a front end may poll Elapsed or
// Status from a ticker goroutine while user actions call Start and Stop.
type Service struct {
	sessions SessionRepository
	state    StateRepository
	projects ProjectRepository
	activity ActivityRepository
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	recovered bool
	running   *running
	notice    *RecoveryNotice
}

type running struct {
	sessionID   int64
	projectID   int64
	projectName string
	start       time.Time
	// highWater keeps Elapsed non-decreasing if the wall clock steps back.
	highWater int64
}

// NewService creates a new timer service. Recover must be called before Start.
func NewService(
	sessions SessionRepository,
	state StateRepository,
	projects ProjectRepository,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		sessions: sessions,
		state:    state,
		projects: projects,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins timing a project. A running timer, for any project, is
// stopped first so at most one session is ever open.
func (s *Service) Start(ctx context.Context, projectID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.recovered {
		return nil, ErrNotRecovered
	}

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, errs.Storage("loading project", err)
	}
	if proj.Archived {
		return nil, ErrProjectArchived
	}

	opID := uuid.NewString()
	if s.running != nil {
		if _, err := s.stopLocked(ctx, opID, nil); err != nil && !errors.Is(err, ErrSessionLost) {
			return nil, err
		}
	}

	sess := &Session{
		ProjectID:   proj.ID,
		ProjectName: proj.Name,
		StartTime:   s.now().UTC().Truncate(time.Second),
	}
	if err := s.sessions.Open(ctx, sess); err != nil {
		switch {
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrProjectNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrTimerRunningElsewhere
		}
		return nil, errs.Storage("opening session", err)
	}

	s.running = &running{
		sessionID:   sess.ID,
		projectID:   proj.ID,
		projectName: proj.Name,
		start:       sess.StartTime,
	}
	if s.logger != nil {
		s.logger.Info("timer started", "session_id", sess.ID, "project_id", proj.ID)
	}
	s.record(ctx, opID, activity.TypeTimerStarted, proj.ID, sess.ID,
		fmt.Sprintf("started timer for %q", proj.Name), nil)
	return sess, nil
}

// Stop closes the running session and returns it. Stopping an idle timer
// is a no-op and returns nil, nil.
func (s *Service) Stop(ctx context.Context, note string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running == nil {
		return nil, nil
	}
	var notePtr *string
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		notePtr = &trimmed
	}
	return s.stopLocked(ctx, uuid.NewString(), notePtr)
}

func (s *Service) stopLocked(ctx context.Context, opID string, note *string) (*Session, error) {
	r := s.running
	duration := s.elapsedLocked()
	end := r.start.Add(time.Duration(duration) * time.Second)

	if err := s.sessions.Close(ctx, r.sessionID, end, duration, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.dropLostSession(ctx, r)
			return nil, ErrSessionLost
		}
		return nil, errs.Storage("closing session", err)
	}

	s.running = nil
	if s.logger != nil {
		s.logger.Info("timer stopped", "session_id", r.sessionID, "project_id", r.projectID, "duration", duration)
	}
	s.record(ctx, opID, activity.TypeTimerStopped, r.projectID, r.sessionID,
		fmt.Sprintf("stopped timer for %q after %s", r.projectName, FormatSeconds(duration)), nil)

	return &Session{
		ID:          r.sessionID,
		ProjectID:   r.projectID,
		ProjectName: r.projectName,
		StartTime:   r.start,
		EndTime:     &end,
		Duration:    duration,
		Note:        note,
	}, nil
}

// Discard deletes the running session without recording it. Discarding an
// idle timer is a no-op.
func (s *Service) Discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.running
	if r == nil {
		return nil
	}
	if err := s.sessions.Discard(ctx, r.sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.dropLostSession(ctx, r)
			return ErrSessionLost
		}
		return errs.Storage("discarding session", err)
	}

	s.running = nil
	if s.logger != nil {
		s.logger.Info("timer discarded", "session_id", r.sessionID, "project_id", r.projectID)
	}
	s.record(ctx, uuid.NewString(), activity.TypeTimerDiscarded, r.projectID, r.sessionID,
		fmt.Sprintf("discarded timer for %q", r.projectName), nil)
	return nil
}

// Elapsed returns the running session's age in whole seconds, or 0 when idle.
// For a given session the value never decreases.
func (s *Service) Elapsed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Service) elapsedLocked() int64 {
	r := s.running
	if r == nil {
		return 0
	}
	elapsed := int64(s.now().Sub(r.start) / time.Second)
	if elapsed < r.highWater {
		elapsed = r.highWater
	}
	if elapsed < 0 {
		elapsed = 0
	}
	r.highWater = elapsed
	return elapsed
}

// Status returns a snapshot of the timer.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.running
	if r == nil {
		return Status{State: StateIdle}
	}
	return Status{
		State:       StateRunning,
		SessionID:   r.sessionID,
		ProjectID:   r.projectID,
		ProjectName: r.projectName,
		StartTime:   r.start,
		Elapsed:     s.elapsedLocked(),
	}
}

// RunningProjectID returns the project with the running timer.
func (s *Service) RunningProjectID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running == nil {
		return 0, false
	}
	return s.running.projectID, true
}

// TakeRecoveryNotice returns the notice produced by Recover exactly once.
func (s *Service) TakeRecoveryNotice() *RecoveryNotice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = nil
	return n
}

// dropLostSession returns to Idle after the store lost the running session.
func (s *Service) dropLostSession(ctx context.Context, r *running) {
	s.running = nil
	if s.logger != nil {
		s.logger.Warn("running session vanished from store", "session_id", r.sessionID, "project_id", r.projectID)
	}
	if err := s.state.ClearActive(ctx); err != nil && s.logger != nil {
		s.logger.Warn("failed to clear active pointer", "error", err)
	}
}

func (s *Service) record(ctx context.Context, opID string, typ activity.ActivityType, projectID, sessionID int64, summary string, details any) {
	if s.activity == nil {
		return
	}
	entry := &activity.ActivityEntry{
		OperationID:  opID,
		ProjectID:    &projectID,
		SessionID:    &sessionID,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now().UTC(),
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			entry.Details = string(data)
		}
	}
	if err := s.activity.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log timer activity", "type", typ, "error", err)
	}
}

// FormatSeconds renders whole seconds as HH:MM:SS. Hours are not capped.
func FormatSeconds(total int64) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
