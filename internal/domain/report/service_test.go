package report_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/rpggio/timetrack/internal/domain/session"
	"github.com/rpggio/timetrack/internal/repository"
	"github.com/rpggio/timetrack/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Wednesday afternoon.
var testNow = time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(repo *mocks.ReportRepository, live *mocks.LiveSource) *report.Service {
	return report.NewService(repo, live, time.UTC, nil, report.WithClock(func() time.Time { return testNow }))
}

func idle() *mocks.LiveSource {
	live := &mocks.LiveSource{}
	live.On("Status").Return(session.Status{State: session.StateIdle})
	return live
}

func running(sessionID, projectID int64, start time.Time, elapsed int64) *mocks.LiveSource {
	live := &mocks.LiveSource{}
	live.On("Status").Return(session.Status{
		State:     session.StateRunning,
		SessionID: sessionID,
		ProjectID: projectID,
		StartTime: start,
		Elapsed:   elapsed,
	})
	return live
}

func TestWindowsAt(t *testing.T) {
	w := report.WindowsAt(time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), time.UTC)
	require.Equal(t, day(2024, 3, 10), w.Today)
	require.Equal(t, day(2024, 3, 4), w.Week, "Sunday belongs to the week starting Monday")
	require.Equal(t, day(2024, 3, 11), w.NextWeek)
	require.Equal(t, day(2024, 3, 1), w.Month)
	require.Equal(t, day(2024, 4, 1), w.NextMonth)

	w = report.WindowsAt(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), time.UTC)
	require.Equal(t, day(2024, 3, 4), w.Week)

	w = report.WindowsAt(time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC), time.UTC)
	require.Equal(t, day(2025, 1, 1), w.NextMonth)
}

func TestWindowsAt_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC Sunday is already Monday in Tokyo.
	w := report.WindowsAt(time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC), tokyo)
	require.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, tokyo), w.Today)
	require.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, tokyo), w.Week)
}

func dashboardRepo() *mocks.ReportRepository {
	ctx := context.Background()
	repo := &mocks.ReportRepository{}
	repo.On("ListProjects", ctx, true).Return([]project.Project{
		{ID: 1, Name: "A", Color: "#111111"},
		{ID: 2, Name: "B", Color: "#222222", Archived: true},
		{ID: 3, Name: "C", Color: "#333333"},
	}, nil)
	repo.On("SumByProject", ctx, day(2024, 3, 6), day(2024, 3, 7)).Return(map[int64]int64{1: 100}, nil)
	repo.On("SumByProject", ctx, day(2024, 3, 4), day(2024, 3, 11)).Return(map[int64]int64{1: 200, 3: 50}, nil)
	repo.On("SumByProject", ctx, day(2024, 3, 1), day(2024, 4, 1)).Return(map[int64]int64{1: 300, 2: 10, 3: 50}, nil)
	repo.On("SumByProject", ctx, time.Time{}, time.Time{}).Return(map[int64]int64{1: 1000, 2: 500, 3: 500}, nil)
	return repo
}

func TestDashboard_LiveSessionAddsToEveryBucket(t *testing.T) {
	svc := newService(dashboardRepo(), running(9, 1, testNow.Add(-30*time.Second), 30))

	dash, err := svc.Dashboard(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, dash.Projects, 2, "archived projects are hidden")

	a := dash.Projects[0]
	require.Equal(t, "A", a.Name)
	require.True(t, a.Running)
	require.Equal(t, report.Buckets{Today: 130, Week: 230, Month: 330, AllTime: 1030}, a.Buckets)

	c := dash.Projects[1]
	require.Equal(t, report.Buckets{Today: 0, Week: 50, Month: 50, AllTime: 500}, c.Buckets)

	require.Equal(t, report.Buckets{Today: 130, Week: 280, Month: 390, AllTime: 2030}, dash.Totals)
	require.InDelta(t, 1030.0*100/2030, a.Share, 0.0001)
}

func TestDashboard_SingleArchivedProject(t *testing.T) {
	svc := newService(dashboardRepo(), idle())

	dash, err := svc.Dashboard(context.Background(), ptr(2))
	require.NoError(t, err)
	require.Len(t, dash.Projects, 1)
	require.True(t, dash.Projects[0].Archived)
	require.Equal(t, int64(500), dash.Projects[0].AllTime)
	require.Equal(t, int64(2000), dash.Totals.AllTime)

	_, err = svc.Dashboard(context.Background(), ptr(99))
	require.ErrorIs(t, err, report.ErrProjectNotFound)
}

func TestWeekly(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ReportRepository{}
	repo.On("ListSessions", ctx, report.SessionQuery{From: day(2024, 2, 29), To: day(2024, 3, 7)}).Return([]report.Entry{
		{SessionID: 3, StartTime: testNow.Add(-time.Minute), Open: true},
		{SessionID: 2, StartTime: day(2024, 3, 6).Add(9 * time.Hour), Duration: 100},
		{SessionID: 1, StartTime: day(2024, 2, 29).Add(23 * time.Hour), Duration: 50},
	}, nil)

	svc := newService(repo, running(3, 1, testNow.Add(-time.Minute), 60))
	days, err := svc.Weekly(ctx)
	require.NoError(t, err)
	require.Len(t, days, 7)
	require.Equal(t, "2024-02-29", days[0].Date)
	require.Equal(t, int64(50), days[0].Seconds)
	require.Equal(t, "2024-03-06", days[6].Date)
	require.Equal(t, "Wed", days[6].Weekday)
	require.Equal(t, int64(160), days[6].Seconds)
	require.Zero(t, days[3].Seconds)
}

func TestHistory_IncludesLiveSession(t *testing.T) {
	ctx := context.Background()
	liveStart := testNow.Add(-time.Hour)
	end := day(2024, 3, 2).Add(10 * time.Hour)

	q := report.SessionQuery{From: day(2024, 3, 1), To: day(2024, 3, 7), IncludeOpen: true, Limit: 10}
	repo := &mocks.ReportRepository{}
	repo.On("ListSessions", ctx, q).Return([]report.Entry{
		{SessionID: 9, ProjectID: 1, ProjectName: "A", StartTime: liveStart, Open: true},
		{SessionID: 4, ProjectID: 1, ProjectName: "A", StartTime: end.Add(-10 * time.Minute), EndTime: &end, Duration: 600},
	}, nil)
	repo.On("Summarize", ctx, q).Return(report.Summary{Count: 2, TotalSeconds: 600}, nil)

	svc := newService(repo, running(9, 1, liveStart, 3600))
	h, err := svc.History(ctx, report.Filter{From: day(2024, 3, 1), To: day(2024, 3, 6), Limit: 10})
	require.NoError(t, err)
	require.Len(t, h.Entries, 2)
	require.Equal(t, int64(3600), h.Entries[0].Duration)
	require.Equal(t, "01:00:00", h.Entries[0].DurationText)
	require.Equal(t, "00:10:00", h.Entries[1].DurationText)
	require.Equal(t, report.Summary{Count: 2, TotalSeconds: 4200}, h.Summary)
}

func TestHistory_LiveSessionOutsideFilter(t *testing.T) {
	ctx := context.Background()
	q := report.SessionQuery{ProjectID: ptr(2), IncludeOpen: true}
	repo := &mocks.ReportRepository{}
	repo.On("GetProject", ctx, int64(2)).Return(&project.Project{ID: 2, Name: "B"}, nil)
	repo.On("ListSessions", ctx, q).Return([]report.Entry{}, nil)
	repo.On("Summarize", ctx, q).Return(report.Summary{}, nil)

	svc := newService(repo, running(9, 1, testNow.Add(-time.Hour), 3600))
	h, err := svc.History(ctx, report.Filter{ProjectID: ptr(2)})
	require.NoError(t, err)
	require.Empty(t, h.Entries)
	require.Zero(t, h.Summary.TotalSeconds)
}

func TestHistory_Validation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ReportRepository{}
	repo.On("GetProject", ctx, int64(5)).Return(nil, repository.ErrNotFound)
	svc := newService(repo, idle())

	_, err := svc.History(ctx, report.Filter{From: day(2024, 3, 5), To: day(2024, 3, 1)})
	require.ErrorIs(t, err, report.ErrInvalidRange)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.History(ctx, report.Filter{ProjectID: ptr(5)})
	require.ErrorIs(t, err, report.ErrProjectNotFound)
	repo.AssertNotCalled(t, "ListSessions", mock.Anything, mock.Anything)
}

func TestExport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	end := day(2024, 3, 2).Add(10 * time.Hour)
	q := report.SessionQuery{IncludeOpen: true}
	repo := &mocks.ReportRepository{}
	repo.On("ListSessions", ctx, q).Return([]report.Entry{
		{SessionID: 9, ProjectID: 1, ProjectName: "Website", StartTime: testNow.Add(-5 * time.Second), Open: true},
		{SessionID: 4, ProjectID: 2, ProjectName: `Client, "Big"`, StartTime: end.Add(-time.Hour), EndTime: &end, Duration: 3600, Note: "line one\nline two"},
	}, nil)
	repo.On("Summarize", ctx, q).Return(report.Summary{Count: 2, TotalSeconds: 3600}, nil)
	svc := newService(repo, running(9, 1, testNow.Add(-5*time.Second), 5))

	var buf bytes.Buffer
	n, err := svc.Export(ctx, &buf, report.Filter{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.True(t, strings.HasPrefix(buf.String(),
		"Session ID,Project,Start Time,End Time,Duration (s),Duration (HH:MM:SS),Note\n"))

	parsed, err := report.ParseExport(&buf)
	require.NoError(t, err)

	h, err := svc.History(ctx, report.Filter{})
	require.NoError(t, err)
	require.Len(t, parsed, len(h.Entries))
	for i, want := range h.Entries {
		got := parsed[i]
		require.Equal(t, want.SessionID, got.SessionID)
		require.Equal(t, want.ProjectName, got.ProjectName)
		require.True(t, want.StartTime.Equal(got.StartTime))
		require.Equal(t, want.Open, got.Open)
		if want.EndTime != nil {
			require.True(t, want.EndTime.Equal(*got.EndTime))
		}
		require.Equal(t, want.Duration, got.Duration)
		require.Equal(t, want.DurationText, got.DurationText)
		require.Equal(t, want.Note, got.Note)
	}
}

func TestParseExport_RejectsForeignCSV(t *testing.T) {
	_, err := report.ParseExport(strings.NewReader("a,b,c,d,e,f,g\n"))
	require.ErrorIs(t, err, report.ErrInvalidExport)

	_, err = report.ParseExport(strings.NewReader(""))
	require.ErrorIs(t, err, report.ErrInvalidExport)

	header := strings.Join(report.ExportHeader, ",")
	_, err = report.ParseExport(strings.NewReader(header + "\nx,A,2024-01-01T00:00:00,,0,00:00:00,\n"))
	require.ErrorIs(t, err, report.ErrInvalidExport)
}

func TestExportFileName(t *testing.T) {
	svc := newService(&mocks.ReportRepository{}, idle())
	require.Equal(t, "timetracker_2024-02-01_2024-02-29.csv",
		svc.ExportFileName(report.Filter{From: day(2024, 2, 1), To: day(2024, 2, 29)}))
	require.Equal(t, "timetracker_all_2024-03-06.csv", svc.ExportFileName(report.Filter{}))
}

func TestParseDate(t *testing.T) {
	d, err := report.ParseDate("2024-03-06")
	require.NoError(t, err)
	require.Equal(t, day(2024, 3, 6), d)

	d, err = report.ParseDate("")
	require.NoError(t, err)
	require.True(t, d.IsZero())

	_, err = report.ParseDate("03/06/2024")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func ptr(v int64) *int64 {
	return &v
}
