package session

import "time"

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock, letting tests simulate elapsed time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithActivity records timer events in the activity log.
func WithActivity(repo ActivityRepository) Option {
	return func(s *Service) {
		s.activity = repo
	}
}
