// Package tui is the terminal front end: a timer, a dashboard, session
// history with CSV export, and project management, all polling the same
// services the MCP server uses.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	units "github.com/docker/go-units"
	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/rpggio/timetrack/internal/domain/session"
)

// Timer is the timer state machine.
type Timer interface {
	Start(ctx context.Context, projectID int64) (*session.Session, error)
	Stop(ctx context.Context, note string) (*session.Session, error)
	Discard(ctx context.Context) error
	Status() session.Status
	TakeRecoveryNotice() *session.RecoveryNotice
}

// Projects manages projects.
type Projects interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context, includeArchived bool) ([]project.ProjectSummary, error)
	Rename(ctx context.Context, id int64, name string) (*project.Project, error)
	Recolor(ctx context.Context, id int64, color string) (*project.Project, error)
	Archive(ctx context.Context, id int64) (*project.Project, error)
	Restore(ctx context.Context, id int64) (*project.Project, error)
	Delete(ctx context.Context, id int64, confirm bool) error
}

// Reports answers dashboard and history queries.
type Reports interface {
	Dashboard(ctx context.Context, projectID *int64) (*report.Dashboard, error)
	Weekly(ctx context.Context) ([]report.DayTotal, error)
	History(ctx context.Context, f report.Filter) (*report.History, error)
	Export(ctx context.Context, w io.Writer, f report.Filter) (int, error)
	ExportFileName(f report.Filter) string
	Location() *time.Location
}

// Options configures the model.
type Options struct {
	Timer     Timer
	Projects  Projects
	Reports   Reports
	ExportDir string
	Now       func() time.Time
	Logger    *slog.Logger
}

type tab int

const (
	tabTimer tab = iota
	tabDashboard
	tabHistory
	tabProjects
)

var tabNames = []string{"Timer", "Dashboard", "History", "Projects"}

type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputNewProject
	inputRename
	inputRecolor
	inputNote
)

type dateRange int

const (
	rangeToday dateRange = iota
	rangeWeek
	rangeMonth
	rangeAll
)

var rangeNames = []string{"Today", "This week", "This month", "All time"}

const historyLimit = 200

type tickMsg time.Time

type dataMsg struct {
	dashboard *report.Dashboard
	weekly    []report.DayTotal
	history   *report.History
	projects  []project.ProjectSummary
	err       error
}

type actionMsg struct {
	info string
	err  error
}

type action func(ctx context.Context) (string, error)

// Model is the root bubbletea model.
type Model struct {
	timer     Timer
	projects  Projects
	reports   Reports
	exportDir string
	now       func() time.Time
	logger    *slog.Logger

	keys  KeyMap
	help  help.Model
	input textinput.Model

	purpose inputPurpose
	// confirm is the pending yes/no prompt; confirmed runs on "y".
	confirm   string
	confirmed action

	tab           tab
	width         int
	timerCursor   int
	projectCursor int
	showArchived  bool
	rng           dateRange
	projectFilter *int64

	status      session.Status
	dashboard   *report.Dashboard
	weekly      []report.DayTotal
	history     *report.History
	projectList []project.ProjectSummary

	message string
	err     error
}

// New builds the model and takes any pending crash-recovery notice for display.
func New(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.CharLimit = project.MaxNameLength
	ti.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		timer:     opts.Timer,
		projects:  opts.Projects,
		reports:   opts.Reports,
		exportDir: opts.ExportDir,
		now:       now,
		logger:    logger,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     ti,
		rng:       rangeWeek,
		status:    opts.Timer.Status(),
	}
	if notice := opts.Timer.TakeRecoveryNotice(); notice != nil {
		m.message = notice.Message(now())
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.refreshCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refreshCmd() tea.Cmd {
	filter := m.historyFilter()
	return func() tea.Msg {
		ctx := context.Background()
		var msg dataMsg
		if msg.dashboard, msg.err = m.reports.Dashboard(ctx, nil); msg.err != nil {
			return msg
		}
		if msg.weekly, msg.err = m.reports.Weekly(ctx); msg.err != nil {
			return msg
		}
		if msg.history, msg.err = m.reports.History(ctx, filter); msg.err != nil {
			return msg
		}
		msg.projects, msg.err = m.projects.List(ctx, true)
		return msg
	}
}

func runAction(fn action) tea.Cmd {
	return func() tea.Msg {
		info, err := fn(context.Background())
		return actionMsg{info: info, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.status = m.timer.Status()
		// Live rows move every second only while a timer runs.
		if m.status.Running() && (m.tab == tabDashboard || m.tab == tabHistory) {
			return m, tea.Batch(tickCmd(), m.refreshCmd())
		}
		return m, tickCmd()

	case dataMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.dashboard = msg.dashboard
		m.weekly = msg.weekly
		m.history = msg.history
		m.projectList = msg.projects
		m.clampCursors()
		return m, nil

	case actionMsg:
		m.status = m.timer.Status()
		if msg.err != nil {
			m.err = msg.err
			m.message = ""
			m.logger.Debug("action failed", "error", msg.err)
		} else {
			m.err = nil
			m.message = msg.info
		}
		return m, m.refreshCmd()

	case tea.KeyMsg:
		if m.purpose != inputNone {
			return m.updateInput(msg)
		}
		if m.confirm != "" {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		purpose := m.purpose
		m.closeInput()
		return m, m.submit(purpose, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fn := m.confirmed
	m.confirm = ""
	m.confirmed = nil
	if msg.String() == "y" || msg.String() == "Y" {
		return m, runAction(fn)
	}
	m.message = "Cancelled"
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % tab(len(tabNames))
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + tab(len(tabNames)) - 1) % tab(len(tabNames))
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Stop):
		return m, runAction(m.stop(""))
	case key.Matches(msg, m.keys.Note):
		if !m.status.Running() {
			m.message = "Timer is idle"
			return m, nil
		}
		return m.openInput(inputNote, "Note: ", ""), nil
	case key.Matches(msg, m.keys.Discard):
		if !m.status.Running() {
			m.message = "Timer is idle"
			return m, nil
		}
		m.confirm = fmt.Sprintf("Discard the running session for %q? (y/n)", m.status.ProjectName)
		m.confirmed = func(ctx context.Context) (string, error) {
			return "Session discarded", m.timer.Discard(ctx)
		}
		return m, nil
	case key.Matches(msg, m.keys.Range) && m.tab == tabHistory:
		m.rng = (m.rng + 1) % dateRange(len(rangeNames))
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Project) && m.tab == tabHistory:
		m.cycleProjectFilter()
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Export) && m.tab == tabHistory:
		return m, runAction(m.export(m.historyFilter()))
	case key.Matches(msg, m.keys.New):
		return m.openInput(inputNewProject, "New project: ", ""), nil
	case key.Matches(msg, m.keys.ShowArchived) && m.tab == tabProjects:
		m.showArchived = !m.showArchived
		m.clampCursors()
		return m, nil
	}

	proj, ok := m.selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Start):
		if proj.Archived {
			m.message = "Restore the project before timing it"
			return m, nil
		}
		id, name := proj.ID, proj.Name
		return m, runAction(func(ctx context.Context) (string, error) {
			if _, err := m.timer.Start(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Started %s", name), nil
		})
	case m.tab != tabProjects:
		return m, nil
	case key.Matches(msg, m.keys.Rename):
		return m.openInput(inputRename, "Rename to: ", proj.Name), nil
	case key.Matches(msg, m.keys.Recolor):
		return m.openInput(inputRecolor, "Color: ", proj.Color), nil
	case key.Matches(msg, m.keys.Archive):
		id, name := proj.ID, proj.Name
		return m, runAction(func(ctx context.Context) (string, error) {
			if _, err := m.projects.Archive(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Archived %s", name), nil
		})
	case key.Matches(msg, m.keys.Restore):
		id, name := proj.ID, proj.Name
		return m, runAction(func(ctx context.Context) (string, error) {
			if _, err := m.projects.Restore(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Restored %s", name), nil
		})
	case key.Matches(msg, m.keys.Delete):
		id, name := proj.ID, proj.Name
		m.confirm = fmt.Sprintf("Delete %q and its %d sessions permanently? (y/n)", name, proj.SessionCount)
		m.confirmed = func(ctx context.Context) (string, error) {
			if err := m.projects.Delete(ctx, id, true); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted %s", name), nil
		}
		return m, nil
	}
	return m, nil
}

func (m Model) openInput(purpose inputPurpose, prompt, value string) Model {
	m.purpose = purpose
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m *Model) closeInput() {
	m.purpose = inputNone
	m.input.Blur()
	m.input.Reset()
}

func (m Model) submit(purpose inputPurpose, value string) tea.Cmd {
	switch purpose {
	case inputNote:
		return runAction(m.stop(value))
	case inputNewProject:
		return runAction(func(ctx context.Context) (string, error) {
			proj, err := m.projects.Create(ctx, project.CreateRequest{Name: value})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Created %s", proj.Name), nil
		})
	}
	proj, ok := m.selected()
	if !ok {
		return nil
	}
	id := proj.ID
	switch purpose {
	case inputRename:
		return runAction(func(ctx context.Context) (string, error) {
			renamed, err := m.projects.Rename(ctx, id, value)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Renamed to %s", renamed.Name), nil
		})
	case inputRecolor:
		return runAction(func(ctx context.Context) (string, error) {
			recolored, err := m.projects.Recolor(ctx, id, value)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Color set to %s", recolored.Color), nil
		})
	}
	return nil
}

func (m Model) stop(note string) action {
	return func(ctx context.Context) (string, error) {
		sess, err := m.timer.Stop(ctx, note)
		if err != nil {
			return "", err
		}
		if sess == nil {
			return "Timer is idle", nil
		}
		return fmt.Sprintf("Saved %s on %s", session.FormatSeconds(sess.Duration), sess.ProjectName), nil
	}
}

func (m Model) export(filter report.Filter) action {
	return func(ctx context.Context) (string, error) {
		if err := os.MkdirAll(m.exportDir, 0o755); err != nil {
			return "", err
		}
		path := filepath.Join(m.exportDir, m.reports.ExportFileName(filter))
		f, err := os.Create(path)
		if err != nil {
			return "", err
		}
		rows, err := m.reports.Export(ctx, f, filter)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(path)
			return "", err
		}
		size := "0B"
		if info, statErr := os.Stat(path); statErr == nil {
			size = units.HumanSize(float64(info.Size()))
		}
		m.logger.Info("csv export written", "path", path, "rows", rows)
		return fmt.Sprintf("Exported %d sessions to %s (%s)", rows, path, size), nil
	}
}

// historyFilter turns the selected range into report dates.
func (m Model) historyFilter() report.Filter {
	f := report.Filter{ProjectID: m.projectFilter, Limit: historyLimit}
	w := report.WindowsAt(m.now(), m.reports.Location())
	switch m.rng {
	case rangeToday:
		f.From, f.To = w.Today, w.Today
	case rangeWeek:
		f.From, f.To = w.Week, w.Today
	case rangeMonth:
		f.From, f.To = w.Month, w.Today
	}
	return f
}

func (m *Model) cycleProjectFilter() {
	if len(m.projectList) == 0 {
		m.projectFilter = nil
		return
	}
	if m.projectFilter == nil {
		id := m.projectList[0].ID
		m.projectFilter = &id
		return
	}
	for i, p := range m.projectList {
		if p.ID == *m.projectFilter {
			if i+1 < len(m.projectList) {
				id := m.projectList[i+1].ID
				m.projectFilter = &id
			} else {
				m.projectFilter = nil
			}
			return
		}
	}
	m.projectFilter = nil
}

// visible lists the projects a tab offers for selection.
func (m Model) visible(t tab) []project.ProjectSummary {
	showArchived := t == tabProjects && m.showArchived
	out := make([]project.ProjectSummary, 0, len(m.projectList))
	for _, p := range m.projectList {
		if p.Archived && !showArchived {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m Model) selected() (project.ProjectSummary, bool) {
	if m.tab != tabTimer && m.tab != tabProjects {
		return project.ProjectSummary{}, false
	}
	list := m.visible(m.tab)
	idx := m.timerCursor
	if m.tab == tabProjects {
		idx = m.projectCursor
	}
	if idx < 0 || idx >= len(list) {
		return project.ProjectSummary{}, false
	}
	return list[idx], true
}

func (m *Model) moveCursor(delta int) {
	switch m.tab {
	case tabTimer:
		m.timerCursor += delta
	case tabProjects:
		m.projectCursor += delta
	}
	m.clampCursors()
}

func (m *Model) clampCursors() {
	clamp := func(v, n int) int {
		if v >= n {
			v = n - 1
		}
		if v < 0 {
			v = 0
		}
		return v
	}
	m.timerCursor = clamp(m.timerCursor, len(m.visible(tabTimer)))
	m.projectCursor = clamp(m.projectCursor, len(m.visible(tabProjects)))
}
