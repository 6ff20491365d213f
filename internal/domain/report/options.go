package report

import "time"

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used to place "now" in buckets.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Filter selects sessions for History and Export.
type Filter struct {
	ProjectID *int64
	// From and To are calendar dates in the report's location, both inclusive.
	// The zero value leaves that side unbounded.
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// SessionQuery is a Filter resolved to UTC instants: sessions starting in
// [From, To). Zero bounds are unbounded.
type SessionQuery struct {
	ProjectID   *int64
	From        time.Time
	To          time.Time
	IncludeOpen bool
	Limit       int
	Offset      int
}
