package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Report styles used by the CLI output.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffff00"))
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff00")).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00"))
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).MarginTop(1)
)
