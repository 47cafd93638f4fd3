package app

import (
	"charm.land/lipgloss/v2"
)

// TensorBoard-inspired palette.
var (
	colorPrimary = lipgloss.Color("#FF6F00") // TensorBoard orange
	colorAccent  = lipgloss.Color("#1976D2")
	colorSuccess = lipgloss.Color("#4CAF50")
	colorError   = lipgloss.Color("#F44336")
	colorMuted   = lipgloss.Color("#7f7f7f")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Underline(true).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	contentStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 2)

	statusOKStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorError)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
)
