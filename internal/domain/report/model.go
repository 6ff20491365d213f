package report

import "time"

// Entry is one session row in History and Export.
type Entry struct {
	SessionID    int64      `json:"session_id"`
	ProjectID    int64      `json:"project_id"`
	ProjectName  string     `json:"project_name"`
	ProjectColor string     `json:"project_color,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Duration     int64      `json:"duration"`
	DurationText string     `json:"duration_text"`
	Note         string     `json:"note,omitempty"`
	Open         bool       `json:"open"`
}

// Summary totals the sessions a filter matches, ignoring limit and offset.
type Summary struct {
	Count        int   `json:"count"`
	TotalSeconds int64 `json:"total_seconds"`
}

// History is a page of sessions plus the summary of the whole match.
type History struct {
	Entries []Entry `json:"entries"`
	Summary Summary `json:"summary"`
}

// Buckets holds tracked seconds per reporting window.
type Buckets struct {
	Today   int64 `json:"today"`
	Week    int64 `json:"week"`
	Month   int64 `json:"month"`
	AllTime int64 `json:"all_time"`
}

func (b *Buckets) addAll(seconds int64) {
	b.Today += seconds
	b.Week += seconds
	b.Month += seconds
	b.AllTime += seconds
}

// ProjectTotals is one dashboard row.
type ProjectTotals struct {
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Archived  bool   `json:"archived,omitempty"`
	Running   bool   `json:"running,omitempty"`
	Buckets
	// Share is this project's percentage of all tracked time.
	Share float64 `json:"share"`
}

// Dashboard is the per-project bucket summary.
type Dashboard struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Projects    []ProjectTotals `json:"projects"`
	// Totals covers every project, archived ones included.
	Totals Buckets `json:"totals"`
}

// DayTotal is one bar of the weekly chart.
type DayTotal struct {
	Date    string `json:"date"` // YYYY-MM-DD in the report location
	Weekday string `json:"weekday"`
	Seconds int64  `json:"seconds"`
}

// Windows are the bucket boundaries around an instant, in the report location.
type Windows struct {
	Today     time.Time
	Tomorrow  time.Time
	Week      time.Time
	NextWeek  time.Time
	Month     time.Time
	NextMonth time.Time
}

// WindowsAt computes bucket boundaries. Weeks start on Monday.
func WindowsAt(now time.Time, loc *time.Location) Windows {
	now = now.In(loc)
	today := startOfDay(now)
	offset := (int(today.Weekday()) + 6) % 7
	week := today.AddDate(0, 0, -offset)
	month := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	return Windows{
		Today:     today,
		Tomorrow:  today.AddDate(0, 0, 1),
		Week:      week,
		NextWeek:  week.AddDate(0, 0, 7),
		Month:     month,
		NextMonth: month.AddDate(0, 1, 0),
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
