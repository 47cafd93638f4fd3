package app

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

const panelWidth = 26

func (m *Board) render() string {
	if m.width == 0 {
		return "loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	panel := m.renderPanel(bodyHeight)
	content := m.renderContent(m.width-lipgloss.Width(panel), bodyHeight)
	body := lipgloss.JoinHorizontal(lipgloss.Top, panel, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderHeader draws the title, the tab strip, and the refresh interval.
func (m *Board) renderHeader() string {
	title := titleStyle.Render(m.title())

	var tabs []string
	for t := TabScalars; t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Center, tabs...)

	refresh := footerStyle.Render(fmt.Sprintf("⟳ %s", m.interval))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(strip) - lipgloss.Width(refresh)
	if gap < 1 {
		gap = 1
	}

	return title + strip + strings.Repeat(" ", gap) + refresh
}

// renderPanel draws the runs list with checkboxes.
func (m *Board) renderPanel(height int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Runs"))
	b.WriteString("\n")

	switch {
	case m.loading && m.connErr != "":
		b.WriteString(statusErrStyle.Render("Error: " + m.connErr))
	case m.loading:
		b.WriteString("Loading...")
	case len(m.runs) == 0:
		b.WriteString("No runs found")
	default:
		for i, r := range m.runs {
			mark := "[ ]"
			if r.enabled {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s", mark, r.name)
			if i == m.cursor {
				line = cursorStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	inner := height - 2
	if inner < 1 {
		inner = 1
	}
	return panelStyle.
		Width(panelWidth).
		Height(inner).
		Render(b.String())
}

// renderContent draws the active tab's content area. Chart rendering is
// not implemented yet; each tab shows what it will hold, plus the current
// selection so the wiring is visible.
func (m *Board) renderContent(width, height int) string {
	if m.showHelp {
		return contentStyle.
			Width(width).
			Height(height).
			Render(helpText())
	}

	var text string
	switch m.tab {
	case TabScalars:
		text = "Scalar plots will go here"
	case TabImages:
		text = "Image displays will go here"
	case TabHistograms:
		text = "Histogram plots will go here"
	case TabGraphs:
		text = "Graph visualization will go here"
	}

	if enabled := m.enabledRuns(); len(enabled) > 0 {
		text += fmt.Sprintf("\n\nSelected runs: %s", strings.Join(enabled, ", "))
	}

	return contentStyle.
		Width(width).
		Height(height).
		Render(text)
}

// helpText lists every keybinding for the help overlay.
func helpText() string {
	return strings.Join([]string{
		panelTitleStyle.Render("Keys"),
		"",
		"  tab / l / right    next tab",
		"  shift+tab / h / left   previous tab",
		"  j / down           move down the runs list",
		"  k / up             move up the runs list",
		"  space / enter      toggle the run under the cursor",
		"  r                  refresh now",
		"  + / -              lengthen / shorten the refresh interval",
		"  ?                  toggle this help",
		"  q / ctrl+c         quit",
	}, "\n")
}

// renderFooter draws connection status, key hints, and server stats.
func (m *Board) renderFooter() string {
	var status string
	if m.connected {
		status = statusOKStyle.Render("● connected")
	} else if m.connErr != "" {
		status = statusErrStyle.Render("✗ " + m.connErr)
	} else {
		status = footerStyle.Render("○ connecting...")
	}

	hints := footerStyle.Render("tab: switch  j/k: move  space: toggle  r: refresh  ?: help  q: quit")

	right := ""
	if m.statsOK {
		right = footerStyle.Render("tensorboard " + m.stats.String())
	}

	gap := m.width - lipgloss.Width(status) - lipgloss.Width(hints) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return status + hints + strings.Repeat(" ", gap) + right
}
