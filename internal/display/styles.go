package display

import "github.com/charmbracelet/lipgloss"

var (
	muted = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"}
	green = lipgloss.AdaptiveColor{Light: "#2E7D5B", Dark: "#96CEB4"}
	red   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	ink   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#FAFAFA"}
)

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1F6F43"))

	BoxStyle = lipgloss.NewStyle().Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted)

	// LabelStyle pads row labels so values line up.
	LabelStyle = lipgloss.NewStyle().Foreground(muted).Width(9)

	HandInfoStyle  = lipgloss.NewStyle().Foreground(green).Bold(true)
	ActionsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
	RedCardStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	BlackCardStyle = lipgloss.NewStyle().Foreground(ink).Bold(true)
	SuccessStyle   = lipgloss.NewStyle().Foreground(green).Bold(true)
	ErrorStyle     = lipgloss.NewStyle().Foreground(red).Bold(true)
	InfoStyle      = lipgloss.NewStyle().Foreground(muted)
)
