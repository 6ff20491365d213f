package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timetrack/internal/domain/errs"
)

// DefaultLimit caps GetRecentActivity when the caller gives no limit.
const DefaultLimit = 50

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry, filling in the timestamp and
// operation id when missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" || entry.Summary == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.OperationID == "" {
		entry.OperationID = uuid.NewString()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return errs.Storage("logging activity", err)
	}
	return nil
}

// GetRecentActivity lists activity entries, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, errs.Storage("listing activity", err)
	}
	return entries, nil
}
