package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/repository"
)

// Recover restores a timer left running by an unclean exit. It must run
// exactly once before Start. The returned notice is nil when nothing was
// running; otherwise it is also held for TakeRecoveryNotice.
//
// The open session rows are the truth; the app_state pointer is
// cross-checked against them, cleared when stale and rebuilt when missing.
// If more than one row is open, the most recently started one wins and the
// others are closed at their last plausible end: the next session start
// after them, capped at the winner's start.
func (s *Service) Recover(ctx context.Context) (*RecoveryNotice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recovered {
		return nil, ErrAlreadyRecovered
	}

	ptr, err := s.state.GetActive(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, errs.Storage("reading active pointer", err)
	}
	open, err := s.sessions.ListOpen(ctx)
	if err != nil {
		return nil, errs.Storage("listing open sessions", err)
	}

	if len(open) == 0 {
		if ptr != nil {
			if s.logger != nil {
				s.logger.Warn("clearing stale active pointer", "session_id", ptr.SessionID, "project_id", ptr.ProjectID)
			}
			if err := s.state.ClearActive(ctx); err != nil {
				return nil, errs.Storage("clearing stale pointer", err)
			}
		}
		s.recovered = true
		return nil, nil
	}

	opID := uuid.NewString()
	winner := open[0]

	repaired := make([]RepairedSession, 0, len(open)-1)
	for _, extra := range open[1:] {
		fixed, err := s.closeExtra(ctx, extra, winner.StartTime)
		if err != nil {
			return nil, err
		}
		repaired = append(repaired, fixed)
		if s.logger != nil {
			s.logger.Warn("closed extra open session during recovery",
				"session_id", fixed.SessionID, "project_id", fixed.ProjectID, "duration", fixed.Duration)
		}
		s.record(ctx, opID, activity.TypeSessionRepaired, fixed.ProjectID, fixed.SessionID,
			fmt.Sprintf("closed orphaned session for %q after %s", fixed.ProjectName, FormatSeconds(fixed.Duration)), fixed)
	}

	pointerRepaired := ptr == nil || ptr.SessionID != winner.ID || ptr.ProjectID != winner.ProjectID
	if pointerRepaired {
		if err := s.state.SetActive(ctx, ActivePointer{SessionID: winner.ID, ProjectID: winner.ProjectID}); err != nil {
			return nil, errs.Storage("rebuilding active pointer", err)
		}
		if s.logger != nil {
			s.logger.Warn("rebuilt active pointer", "session_id", winner.ID, "project_id", winner.ProjectID)
		}
		s.record(ctx, opID, activity.TypePointerRepaired, winner.ProjectID, winner.ID,
			"rebuilt missing or stale active session record", ptr)
	}

	name := winner.ProjectName
	if name == "" {
		if proj, err := s.projects.Get(ctx, winner.ProjectID); err == nil {
			name = proj.Name
		}
	}

	s.running = &running{
		sessionID:   winner.ID,
		projectID:   winner.ProjectID,
		projectName: name,
		start:       winner.StartTime,
	}
	s.recovered = true
	s.notice = &RecoveryNotice{
		SessionID:       winner.ID,
		ProjectID:       winner.ProjectID,
		ProjectName:     name,
		StartTime:       winner.StartTime,
		PointerRepaired: pointerRepaired,
		Repaired:        repaired,
	}

	if s.logger != nil {
		s.logger.Info("recovered running timer", "session_id", winner.ID, "project_id", winner.ProjectID, "start", winner.StartTime)
	}
	s.record(ctx, opID, activity.TypeTimerRecovered, winner.ProjectID, winner.ID,
		fmt.Sprintf("recovered running timer for %q", name), nil)

	notice := *s.notice
	return &notice, nil
}

func (s *Service) closeExtra(ctx context.Context, sess Session, ceiling time.Time) (RepairedSession, error) {
	end := ceiling
	next, err := s.sessions.NextStartAfter(ctx, sess.StartTime, sess.ID)
	switch {
	case err == nil:
		if next.Before(end) {
			end = next
		}
	case errors.Is(err, repository.ErrNotFound):
	default:
		return RepairedSession{}, errs.Storage("finding next session start", err)
	}
	if end.Before(sess.StartTime) {
		end = sess.StartTime
	}
	duration := int64(end.Sub(sess.StartTime) / time.Second)

	if err := s.sessions.Close(ctx, sess.ID, end, duration, nil); err != nil {
		return RepairedSession{}, errs.Storage("closing orphaned session", err)
	}
	return RepairedSession{
		SessionID:   sess.ID,
		ProjectID:   sess.ProjectID,
		ProjectName: sess.ProjectName,
		StartTime:   sess.StartTime,
		EndTime:     end,
		Duration:    duration,
	}, nil
}
