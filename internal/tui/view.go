package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	units "github.com/docker/go-units"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/rpggio/timetrack/internal/domain/session"
)

const (
	nameWidth   = 24
	maxBarWidth = 30
)

func (m Model) View() string {
	var body string
	switch m.tab {
	case tabTimer:
		body = m.timerView()
	case tabDashboard:
		body = m.dashboardView()
	case tabHistory:
		body = m.historyView()
	case tabProjects:
		body = m.projectsView()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		"",
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.tab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, TabStyle.Render(name))
		}
	}
	state := DimStyle.Render("idle")
	if m.status.Running() {
		state = SuccessStyle.Render(fmt.Sprintf("● %s %s", m.status.ProjectName, session.FormatSeconds(m.status.Elapsed)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		TitleStyle.Render("timetrack"), "  ",
		strings.Join(tabs, ""), "  ",
		state,
	)
}

func (m Model) renderFooter() string {
	var lines []string
	switch {
	case m.purpose != inputNone:
		lines = append(lines, m.input.View(), DimStyle.Render("enter to save, esc to cancel"))
	case m.confirm != "":
		lines = append(lines, WarningStyle.Render(m.confirm))
	case m.err != nil:
		lines = append(lines, ErrorStyle.Render(m.err.Error()))
	case m.message != "":
		lines = append(lines, SuccessStyle.Render(m.message))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m Model) timerView() string {
	var b strings.Builder
	if m.status.Running() {
		started := m.status.StartTime.In(m.reports.Location())
		b.WriteString(ClockStyle.Render(session.FormatSeconds(m.status.Elapsed)))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s\n", swatch(m.colorOf(m.status.ProjectID)), SelectedStyle.Render(m.status.ProjectName))
		fmt.Fprintf(&b, "%s\n\n", DimStyle.Render(fmt.Sprintf("started %s, %s ago",
			started.Format("15:04"), units.HumanDuration(m.now().Sub(m.status.StartTime)))))
	} else {
		b.WriteString(IdleClockStyle.Render(session.FormatSeconds(0)))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render("Select a project and press enter to start."))
		b.WriteString("\n\n")
	}

	list := m.visible(tabTimer)
	if len(list) == 0 {
		b.WriteString(DimStyle.Render("No projects yet. Press n to create one."))
		return b.String()
	}
	today := m.todayByProject()
	for i, p := range list {
		cursor := "  "
		name := truncate(p.Name, nameWidth)
		if i == m.timerCursor {
			cursor = "> "
			name = SelectedStyle.Render(name)
		}
		marker := " "
		if m.status.Running() && m.status.ProjectID == p.ID {
			marker = SuccessStyle.Render("▶")
		}
		fmt.Fprintf(&b, "%s%s %s %s %s  %s\n", cursor, marker, swatch(p.Color), pad(name, nameWidth),
			DimStyle.Render("today"), session.FormatSeconds(today[p.ID]))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) dashboardView() string {
	if m.dashboard == nil {
		return DimStyle.Render("Loading...")
	}
	var b strings.Builder
	header := fmt.Sprintf("  %s %9s %9s %9s %10s %6s", pad("Project", nameWidth), "Today", "Week", "Month", "All time", "Share")
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n")
	for _, row := range m.dashboard.Projects {
		name := pad(truncate(row.Name, nameWidth), nameWidth)
		if row.Running {
			name = SuccessStyle.Render(name)
		}
		fmt.Fprintf(&b, "%s %s %s %s %s %s %5.1f%%\n", swatch(row.Color), name,
			session.FormatSeconds(row.Today), session.FormatSeconds(row.Week),
			session.FormatSeconds(row.Month), pad(session.FormatSeconds(row.AllTime), 10), row.Share)
	}
	t := m.dashboard.Totals
	fmt.Fprintf(&b, "  %s %s %s %s %s\n\n", SelectedStyle.Render(pad("Total", nameWidth)),
		session.FormatSeconds(t.Today), session.FormatSeconds(t.Week),
		session.FormatSeconds(t.Month), session.FormatSeconds(t.AllTime))

	b.WriteString(HeaderStyle.Render("Last 7 days"))
	b.WriteString("\n")
	b.WriteString(weeklyChart(m.weekly))
	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func weeklyChart(days []report.DayTotal) string {
	var peak int64
	for _, d := range days {
		peak = max(peak, d.Seconds)
	}
	var b strings.Builder
	for _, d := range days {
		width := 0
		if peak > 0 {
			width = int(d.Seconds * maxBarWidth / peak)
		}
		if width == 0 && d.Seconds > 0 {
			width = 1
		}
		bar := lipgloss.NewStyle().Foreground(ColorBlue).Render(strings.Repeat("█", width))
		fmt.Fprintf(&b, "%s %s %s %s\n", d.Weekday, d.Date[5:], pad(bar, maxBarWidth), session.FormatSeconds(d.Seconds))
	}
	return b.String()
}

func (m Model) historyView() string {
	var b strings.Builder
	projectName := "All projects"
	if m.projectFilter != nil {
		projectName = m.nameOf(*m.projectFilter)
	}
	fmt.Fprintf(&b, "%s  %s\n", SelectedStyle.Render(rangeNames[m.rng]), DimStyle.Render(projectName))
	if m.history == nil {
		b.WriteString(DimStyle.Render("Loading..."))
		return b.String()
	}
	fmt.Fprintf(&b, "%s\n\n", DimStyle.Render(fmt.Sprintf("%d sessions, %s total",
		m.history.Summary.Count, session.FormatSeconds(m.history.Summary.TotalSeconds))))

	if len(m.history.Entries) == 0 {
		b.WriteString(DimStyle.Render("No sessions in this range."))
		return b.String()
	}
	loc := m.reports.Location()
	header := fmt.Sprintf("%-16s %-5s %8s  %s  %s", "Start", "End", "Duration", pad("Project", nameWidth), "Note")
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n")
	for _, e := range m.history.Entries {
		end := "…"
		if e.EndTime != nil {
			end = e.EndTime.In(loc).Format("15:04")
		}
		duration := e.DurationText
		if e.Open {
			duration = SuccessStyle.Render(duration)
		}
		fmt.Fprintf(&b, "%-16s %-5s %8s  %s %s  %s\n",
			e.StartTime.In(loc).Format("Mon 01-02 15:04"), end, duration,
			swatch(e.ProjectColor), pad(truncate(e.ProjectName, nameWidth-2), nameWidth-2),
			DimStyle.Render(truncate(e.Note, 40)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) projectsView() string {
	list := m.visible(tabProjects)
	var b strings.Builder
	if m.showArchived {
		b.WriteString(DimStyle.Render("Showing archived projects"))
		b.WriteString("\n\n")
	}
	if len(list) == 0 {
		b.WriteString(DimStyle.Render("No projects yet. Press n to create one."))
		return b.String()
	}
	header := fmt.Sprintf("    %s %-8s %8s %10s", pad("Name", nameWidth), "Color", "Sessions", "Tracked")
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n")
	for i, p := range list {
		cursor := "  "
		name := pad(truncate(p.Name, nameWidth), nameWidth)
		if i == m.projectCursor {
			cursor = "> "
			name = SelectedStyle.Render(name)
		}
		line := fmt.Sprintf("%s%s %s %-8s %8d %10s", cursor, swatch(p.Color), name, p.Color,
			p.SessionCount, session.FormatSeconds(p.TotalSeconds))
		if p.Archived {
			line += " " + WarningStyle.Render("archived")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) todayByProject() map[int64]int64 {
	out := make(map[int64]int64)
	if m.dashboard == nil {
		return out
	}
	for _, row := range m.dashboard.Projects {
		out[row.ProjectID] = row.Today
	}
	return out
}

func (m Model) colorOf(id int64) string {
	for _, p := range m.projectList {
		if p.ID == id {
			return p.Color
		}
	}
	return string(ColorFgMuted)
}

func (m Model) nameOf(id int64) string {
	for _, p := range m.projectList {
		if p.ID == id {
			return p.Name
		}
	}
	return fmt.Sprintf("project %d", id)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// pad right-pads to a display width, ignoring ANSI styling.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
