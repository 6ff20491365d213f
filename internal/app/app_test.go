package app_test

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/timetrack/internal/app"
	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/rpggio/timetrack/internal/domain/session"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)}
}

func openApp(t *testing.T, path string, c *clock) *app.App {
	t.Helper()
	a, err := app.Open(context.Background(), app.Options{
		DBPath:   path,
		Location: time.UTC,
		Now:      c.Now,
	})
	require.NoError(t, err)
	return a
}

func openSessions(t *testing.T, a *app.App) int {
	t.Helper()
	var n int
	require.NoError(t, a.DB.QueryRow(`SELECT COUNT(*) FROM sessions WHERE end_time IS NULL`).Scan(&n))
	return n
}

func pointerRows(t *testing.T, a *app.App) int {
	t.Helper()
	var n int
	require.NoError(t, a.DB.QueryRow(`SELECT COUNT(*) FROM app_state WHERE key IN (?, ?)`,
		session.KeyActiveSession, session.KeyActiveProject).Scan(&n))
	return n
}

func TestWebsiteFiveSeconds(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	a := openApp(t, ":memory:", c)
	defer a.Close()

	web, err := a.Projects.Create(ctx, project.CreateRequest{Name: "Website"})
	require.NoError(t, err)

	_, err = a.Timer.Start(ctx, web.ID)
	require.NoError(t, err)
	c.Advance(5 * time.Second)
	_, err = a.Timer.Stop(ctx, "")
	require.NoError(t, err)

	h, err := a.Reports.History(ctx, report.Filter{ProjectID: &web.ID})
	require.NoError(t, err)
	require.Len(t, h.Entries, 1)
	require.Equal(t, int64(5), h.Entries[0].Duration)
	require.Equal(t, "00:00:05", h.Entries[0].DurationText)
	require.False(t, h.Entries[0].Open)

	dash, err := a.Reports.Dashboard(ctx, nil)
	require.NoError(t, err)
	require.Len(t, dash.Projects, 1)
	require.Equal(t, report.Buckets{Today: 5, Week: 5, Month: 5, AllTime: 5}, dash.Projects[0].Buckets)
	require.Zero(t, openSessions(t, a))
	require.Zero(t, pointerRows(t, a))
}

func TestSwitchingProjectsClosesPrevious(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	a := openApp(t, ":memory:", c)
	defer a.Close()

	pa, err := a.Projects.Create(ctx, project.CreateRequest{Name: "A"})
	require.NoError(t, err)
	pb, err := a.Projects.Create(ctx, project.CreateRequest{Name: "B"})
	require.NoError(t, err)

	_, err = a.Timer.Start(ctx, pa.ID)
	require.NoError(t, err)
	c.Advance(time.Minute)
	_, err = a.Timer.Start(ctx, pb.ID)
	require.NoError(t, err)
	require.Equal(t, 1, openSessions(t, a))

	h, err := a.Reports.History(ctx, report.Filter{ProjectID: &pa.ID})
	require.NoError(t, err)
	require.Len(t, h.Entries, 1)
	require.Equal(t, int64(60), h.Entries[0].Duration)

	c.Advance(30 * time.Second)
	dash, err := a.Reports.Dashboard(ctx, &pb.ID)
	require.NoError(t, err)
	require.True(t, dash.Projects[0].Running)
	require.Equal(t, int64(30), dash.Projects[0].Today)
}

func TestDiscardLeavesNothing(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	a := openApp(t, ":memory:", c)
	defer a.Close()

	pa, err := a.Projects.Create(ctx, project.CreateRequest{Name: "A"})
	require.NoError(t, err)
	_, err = a.Timer.Start(ctx, pa.ID)
	require.NoError(t, err)
	c.Advance(time.Minute)
	require.NoError(t, a.Timer.Discard(ctx))

	h, err := a.Reports.History(ctx, report.Filter{ProjectID: &pa.ID})
	require.NoError(t, err)
	require.Empty(t, h.Entries)
	require.Zero(t, pointerRows(t, a))
	require.False(t, a.Timer.Status().Running())
}

func TestRecoveryAfterCrash(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "timetracker.db")
	c := newClock()

	first := openApp(t, path, c)
	web, err := first.Projects.Create(ctx, project.CreateRequest{Name: "Website"})
	require.NoError(t, err)
	started, err := first.Timer.Start(ctx, web.ID)
	require.NoError(t, err)
	c.Advance(10 * time.Minute)
	// Simulate a crash: the process goes away without stopping the timer.
	require.NoError(t, first.Close())

	c.Advance(50 * time.Minute)
	second := openApp(t, path, c)
	defer second.Close()

	notice := second.Timer.TakeRecoveryNotice()
	require.NotNil(t, notice)
	require.Equal(t, "Website", notice.ProjectName)
	require.True(t, started.StartTime.Equal(notice.StartTime))
	require.False(t, notice.PointerRepaired)
	require.Nil(t, second.Timer.TakeRecoveryNotice())

	require.Equal(t, int64(3600), second.Timer.Elapsed())
	stopped, err := second.Timer.Stop(ctx, "")
	require.NoError(t, err)
	require.Equal(t, int64(3600), stopped.Duration)
	require.Zero(t, openSessions(t, second))
}

func TestRecoveryRepairsDoubleOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "timetracker.db")
	c := newClock()

	first := openApp(t, path, c)
	pa, err := first.Projects.Create(ctx, project.CreateRequest{Name: "A"})
	require.NoError(t, err)
	pb, err := first.Projects.Create(ctx, project.CreateRequest{Name: "B"})
	require.NoError(t, err)
	_, err = first.DB.Exec(`INSERT INTO sessions (project_id, start_time) VALUES (?, ?), (?, ?)`,
		pa.ID, "2024-03-06T08:00:00",
		pb.ID, "2024-03-06T08:30:00")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := openApp(t, path, c)
	defer second.Close()

	notice := second.Timer.TakeRecoveryNotice()
	require.NotNil(t, notice)
	require.Equal(t, pb.ID, notice.ProjectID)
	require.True(t, notice.PointerRepaired)
	require.Len(t, notice.Repaired, 1)
	require.Equal(t, int64(1800), notice.Repaired[0].Duration)
	require.Equal(t, 1, openSessions(t, second))

	entries, err := second.Activity.GetRecentActivity(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}

func TestArchiveKeepsHistoryAndTotals(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	a := openApp(t, ":memory:", c)
	defer a.Close()

	pa, err := a.Projects.Create(ctx, project.CreateRequest{Name: "A"})
	require.NoError(t, err)
	_, err = a.Timer.Start(ctx, pa.ID)
	require.NoError(t, err)

	_, err = a.Projects.Archive(ctx, pa.ID)
	require.ErrorIs(t, err, project.ErrTimerRunning)

	c.Advance(2 * time.Minute)
	_, err = a.Timer.Stop(ctx, "")
	require.NoError(t, err)
	_, err = a.Projects.Archive(ctx, pa.ID)
	require.NoError(t, err)

	_, err = a.Timer.Start(ctx, pa.ID)
	require.ErrorIs(t, err, session.ErrProjectArchived)

	dash, err := a.Reports.Dashboard(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, dash.Projects)
	require.Equal(t, int64(120), dash.Totals.AllTime)

	h, err := a.Reports.History(ctx, report.Filter{})
	require.NoError(t, err)
	require.Len(t, h.Entries, 1)

	_, err = a.Projects.Create(ctx, project.CreateRequest{Name: "A"})
	require.ErrorIs(t, err, project.ErrNameArchived)

	list, err := a.Projects.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(120), list[0].TotalSeconds)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	a := openApp(t, ":memory:", c)
	defer a.Close()

	pa, err := a.Projects.Create(ctx, project.CreateRequest{Name: "A"})
	require.NoError(t, err)
	_, err = a.Timer.Start(ctx, pa.ID)
	require.NoError(t, err)
	c.Advance(time.Minute)
	_, err = a.Timer.Stop(ctx, "")
	require.NoError(t, err)

	require.ErrorIs(t, a.Projects.Delete(ctx, pa.ID, false), project.ErrConfirmationRequired)
	require.NoError(t, a.Projects.Delete(ctx, pa.ID, true))

	h, err := a.Reports.History(ctx, report.Filter{})
	require.NoError(t, err)
	require.Empty(t, h.Entries)
}

func TestExportMatchesHistory(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	a := openApp(t, ":memory:", c)
	defer a.Close()

	pa, err := a.Projects.Create(ctx, project.CreateRequest{Name: "Client, \"Big\""})
	require.NoError(t, err)
	pb, err := a.Projects.Create(ctx, project.CreateRequest{Name: "Docs"})
	require.NoError(t, err)

	for i, id := range []int64{pa.ID, pb.ID, pa.ID} {
		_, err = a.Timer.Start(ctx, id)
		require.NoError(t, err)
		c.Advance(time.Duration(i+1) * 7 * time.Minute)
		_, err = a.Timer.Stop(ctx, "note with, comma")
		require.NoError(t, err)
	}
	_, err = a.Timer.Start(ctx, pb.ID)
	require.NoError(t, err)
	c.Advance(42 * time.Second)

	filter := report.Filter{From: c.Now(), To: c.Now()}
	var buf bytes.Buffer
	n, err := a.Reports.Export(ctx, &buf, filter)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	parsed, err := report.ParseExport(&buf)
	require.NoError(t, err)
	h, err := a.Reports.History(ctx, filter)
	require.NoError(t, err)
	require.Len(t, parsed, len(h.Entries))
	for i := range parsed {
		require.Equal(t, h.Entries[i].SessionID, parsed[i].SessionID)
		require.Equal(t, h.Entries[i].ProjectName, parsed[i].ProjectName)
		require.True(t, h.Entries[i].StartTime.Equal(parsed[i].StartTime))
		require.Equal(t, h.Entries[i].Duration, parsed[i].Duration)
		require.Equal(t, h.Entries[i].Note, parsed[i].Note)
		require.Equal(t, h.Entries[i].Open, parsed[i].Open)
	}
	require.True(t, parsed[0].Open)
	require.Equal(t, int64(42), parsed[0].Duration)
	require.Equal(t, 4, h.Summary.Count)
	require.Equal(t, int64((7+14+21)*60+42), h.Summary.TotalSeconds)
}

func TestTwoFrontEndsShareOneTimer(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "timetracker.db")
	c := newClock()

	ui := openApp(t, path, c)
	defer ui.Close()
	server := openApp(t, path, c)
	defer server.Close()

	pa, err := ui.Projects.Create(ctx, project.CreateRequest{Name: "A"})
	require.NoError(t, err)
	pb, err := ui.Projects.Create(ctx, project.CreateRequest{Name: "B"})
	require.NoError(t, err)

	_, err = ui.Timer.Start(ctx, pa.ID)
	require.NoError(t, err)
	c.Advance(10 * time.Second)

	_, err = server.Timer.Start(ctx, pb.ID)
	require.ErrorIs(t, err, session.ErrTimerRunningElsewhere)
	require.False(t, server.Timer.Status().Running())
	require.Equal(t, 1, openSessions(t, server))

	_, err = ui.Timer.Stop(ctx, "")
	require.NoError(t, err)
	_, err = server.Timer.Start(ctx, pb.ID)
	require.NoError(t, err)
	require.Equal(t, 1, openSessions(t, ui))
}
