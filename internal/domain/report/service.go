package report

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/domain/session"
	"github.com/rpggio/timetrack/internal/repository"
)

// Service answers dashboard, history and export queries. It never writes.
type Service struct {
	repo   Repository
	live   LiveSource
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a report service. live may be nil when no timer exists;
// a nil loc means time.Local.
func NewService(repo Repository, live LiveSource, loc *time.Location, logger *slog.Logger, opts ...Option) *Service {
	if loc == nil {
		loc = time.Local
	}
	s := &Service{
		repo:   repo,
		live:   live,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the zone buckets and date filters are computed in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Dashboard sums tracked time per project into Today, This week, This month
// and All time. With a nil projectID every active project is listed;
// otherwise only that project, archived or not. A running session adds its
// live elapsed time to every bucket.
func (s *Service) Dashboard(ctx context.Context, projectID *int64) (*Dashboard, error) {
	now := s.now()
	w := WindowsAt(now, s.loc)

	projects, err := s.repo.ListProjects(ctx, true)
	if err != nil {
		return nil, errs.Storage("listing projects", err)
	}

	sums := make([]map[int64]int64, 4)
	ranges := [][2]time.Time{
		{w.Today, w.Tomorrow},
		{w.Week, w.NextWeek},
		{w.Month, w.NextMonth},
		{},
	}
	for i, r := range ranges {
		sums[i], err = s.repo.SumByProject(ctx, r[0], r[1])
		if err != nil {
			return nil, errs.Storage("summing sessions", err)
		}
	}

	status := s.status()
	dash := &Dashboard{GeneratedAt: now.In(s.loc)}
	found := projectID == nil
	for _, p := range projects {
		row := ProjectTotals{
			ProjectID: p.ID,
			Name:      p.Name,
			Color:     p.Color,
			Archived:  p.Archived,
			Buckets: Buckets{
				Today:   sums[0][p.ID],
				Week:    sums[1][p.ID],
				Month:   sums[2][p.ID],
				AllTime: sums[3][p.ID],
			},
		}
		if status.Running() && status.ProjectID == p.ID {
			row.Running = true
			row.addAll(status.Elapsed)
		}

		dash.Totals.Today += row.Today
		dash.Totals.Week += row.Week
		dash.Totals.Month += row.Month
		dash.Totals.AllTime += row.AllTime

		switch {
		case projectID != nil && *projectID == p.ID:
			found = true
		case projectID != nil || p.Archived:
			continue
		}
		dash.Projects = append(dash.Projects, row)
	}
	if !found {
		return nil, ErrProjectNotFound
	}

	for i := range dash.Projects {
		if dash.Totals.AllTime > 0 {
			dash.Projects[i].Share = float64(dash.Projects[i].AllTime) * 100 / float64(dash.Totals.AllTime)
		}
	}
	return dash, nil
}

// Weekly returns per-day totals for the last seven days, oldest first and
// today last.
func (s *Service) Weekly(ctx context.Context) ([]DayTotal, error) {
	now := s.now()
	w := WindowsAt(now, s.loc)
	first := w.Today.AddDate(0, 0, -6)

	entries, err := s.repo.ListSessions(ctx, SessionQuery{From: first.UTC(), To: w.Tomorrow.UTC()})
	if err != nil {
		return nil, errs.Storage("listing sessions", err)
	}

	days := make([]DayTotal, 7)
	index := make(map[string]int, 7)
	for i := range days {
		d := first.AddDate(0, 0, i)
		days[i] = DayTotal{Date: d.Format(time.DateOnly), Weekday: d.Weekday().String()[:3]}
		index[days[i].Date] = i
	}
	for _, e := range entries {
		if e.Open {
			continue
		}
		if i, ok := index[e.StartTime.In(s.loc).Format(time.DateOnly)]; ok {
			days[i].Seconds += e.Duration
		}
	}
	if status := s.status(); status.Running() {
		days[6].Seconds += status.Elapsed
	}
	return days, nil
}

// History lists sessions newest first. The running session is included
// with its live elapsed time when it matches the filter.
func (s *Service) History(ctx context.Context, f Filter) (*History, error) {
	q, err := s.resolve(ctx, f)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListSessions(ctx, q)
	if err != nil {
		return nil, errs.Storage("listing sessions", err)
	}
	summary, err := s.repo.Summarize(ctx, q)
	if err != nil {
		return nil, errs.Storage("summarizing sessions", err)
	}

	status := s.status()
	s.finish(entries, status)
	if status.Running() && s.matches(q, status) {
		summary.TotalSeconds += status.Elapsed
	}
	if entries == nil {
		entries = []Entry{}
	}
	return &History{Entries: entries, Summary: summary}, nil
}

func (s *Service) resolve(ctx context.Context, f Filter) (SessionQuery, error) {
	q := SessionQuery{
		ProjectID:   f.ProjectID,
		IncludeOpen: true,
		Limit:       f.Limit,
		Offset:      f.Offset,
	}
	if !f.From.IsZero() && !f.To.IsZero() && s.day(f.From).After(s.day(f.To)) {
		return q, ErrInvalidRange
	}
	if !f.From.IsZero() {
		q.From = s.day(f.From).UTC()
	}
	if !f.To.IsZero() {
		q.To = s.day(f.To).AddDate(0, 0, 1).UTC()
	}
	if f.ProjectID != nil {
		if _, err := s.repo.GetProject(ctx, *f.ProjectID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return q, ErrProjectNotFound
			}
			return q, errs.Storage("loading project", err)
		}
	}
	return q, nil
}

// day interprets t's calendar date in the report location.
func (s *Service) day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func (s *Service) matches(q SessionQuery, status session.Status) bool {
	if q.ProjectID != nil && *q.ProjectID != status.ProjectID {
		return false
	}
	if !q.From.IsZero() && status.StartTime.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !status.StartTime.Before(q.To) {
		return false
	}
	return true
}

// finish fills live durations and display text.
func (s *Service) finish(entries []Entry, status session.Status) {
	now := s.now()
	for i := range entries {
		e := &entries[i]
		if e.Open {
			switch {
			case status.Running() && status.SessionID == e.SessionID:
				e.Duration = status.Elapsed
			default:
				e.Duration = max(int64(now.Sub(e.StartTime)/time.Second), 0)
			}
		}
		e.DurationText = session.FormatSeconds(e.Duration)
	}
}

func (s *Service) status() session.Status {
	if s.live == nil {
		return session.Status{State: session.StateIdle}
	}
	return s.live.Status()
}
