package tui

import "github.com/charmbracelet/lipgloss"

// One Dark palette
var (
	ColorFgPrimary = lipgloss.Color("#ABB2BF")
	ColorFgMuted   = lipgloss.Color("#636B78")
	ColorBgTab     = lipgloss.Color("#2C313C")

	ColorRed    = lipgloss.Color("#E06C75")
	ColorGreen  = lipgloss.Color("#98C379")
	ColorYellow = lipgloss.Color("#E5C07B")
	ColorBlue   = lipgloss.Color("#61AFEF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Background(ColorBgTab).
			Bold(true).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Padding(0, 1)

	ClockStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true).
			Padding(1, 2)

	IdleClockStyle = ClockStyle.
			Foreground(ColorFgMuted)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Underline(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFgMuted).
			Padding(0, 1)
)

// swatch renders a block in a project's color.
func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
