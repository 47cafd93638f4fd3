// Package app implements the texrboard TUI: a terminal front-end for a
// running TensorBoard server.
package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/bitplane/texrboard/internal/backend"
	"github.com/bitplane/texrboard/internal/config"
	"github.com/bitplane/texrboard/internal/tb"
)

// Tab identifies one of the content tabs in the header.
type Tab int

const (
	TabScalars Tab = iota
	TabImages
	TabHistograms
	TabGraphs
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabScalars:
		return "SCALARS"
	case TabImages:
		return "IMAGES"
	case TabHistograms:
		return "HISTOGRAMS"
	case TabGraphs:
		return "GRAPHS"
	}
	return "?"
}

// run is one entry of the left panel.
type run struct {
	name    string
	enabled bool
}

// envMsg carries the server environment fetched at startup.
type envMsg struct {
	env tb.Environment
	err error
}

// statsTickMsg drives periodic sampling of the embedded server process.
type statsTickMsg time.Time

// statsMsg carries one resource usage sample.
type statsMsg struct {
	stats tb.ProcStats
	ok    bool
}

const statsInterval = 2 * time.Second

// Board is the bubbletea model for the whole application.
type Board struct {
	client  *tb.Client
	backend *backend.Backend
	manager *tb.Manager // nil when attached to a remote server
	cfg     *config.Config

	width  int
	height int

	tab      Tab
	runs     []run
	cursor   int
	loading  bool
	showHelp bool
	interval time.Duration

	connected bool
	connErr   string
	version   string

	stats   tb.ProcStats
	statsOK bool
}

// New builds the initial model. manager may be nil when connecting to an
// already running server.
func New(client *tb.Client, b *backend.Backend, manager *tb.Manager, cfg *config.Config) *Board {
	return &Board{
		client:   client,
		backend:  b,
		manager:  manager,
		cfg:      cfg,
		loading:  true,
		interval: cfg.Interval(),
	}
}

// Init fetches the server environment and, for embedded servers, starts
// the resource stats ticker.
func (m *Board) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchEnv()}
	if m.manager != nil && m.cfg.Appearance.ShowProcessStats {
		cmds = append(cmds, statsTick())
	}
	return tea.Batch(cmds...)
}

func (m *Board) fetchEnv() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout())
		defer cancel()
		env, err := m.client.Environment(ctx)
		return envMsg{env: env, err: err}
	}
}

func statsTick() tea.Cmd {
	return tea.Tick(statsInterval, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}

// Update handles all incoming messages.
func (m *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case backend.RunsUpdatedMsg:
		m.setRuns(msg.Runs)
		return m, nil

	case backend.ConnStatusMsg:
		m.connected = msg.Connected
		m.connErr = msg.Err
		return m, nil

	case envMsg:
		if msg.err == nil {
			m.version = msg.env.Version
		}
		return m, nil

	case statsTickMsg:
		return m, tea.Batch(m.sampleStats(), statsTick())

	case statsMsg:
		m.stats = msg.stats
		m.statsOK = msg.ok
		return m, nil
	}

	return m, nil
}

func (m *Board) sampleStats() tea.Cmd {
	pid := m.manager.Pid()
	return func() tea.Msg {
		stats, err := tb.Stats(pid)
		return statsMsg{stats: stats, ok: err == nil}
	}
}

// handleKey dispatches on the string form of a key press.
func (m *Board) handleKey(key string) (tea.Model, tea.Cmd) {
	// The help overlay swallows everything except the keys that close it.
	if m.showHelp {
		switch key {
		case "?", "esc":
			m.showHelp = false
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = true

	case "tab", "l", "right":
		m.tab = (m.tab + 1) % tabCount
	case "shift+tab", "h", "left":
		m.tab = (m.tab + tabCount - 1) % tabCount

	case "j", "down":
		if m.cursor < len(m.runs)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case " ", "space", "enter":
		if m.cursor < len(m.runs) {
			m.runs[m.cursor].enabled = !m.runs[m.cursor].enabled
		}

	case "r":
		m.backend.Refresh()

	case "+":
		m.setInterval(m.interval + 5*time.Second)
	case "-":
		m.setInterval(m.interval - 5*time.Second)
	}

	return m, nil
}

func (m *Board) setInterval(d time.Duration) {
	if d < 5*time.Second {
		d = 5 * time.Second
	}
	if d > 10*time.Minute {
		d = 10 * time.Minute
	}
	m.interval = d
	m.backend.SetInterval(d)
}

// setRuns replaces the run list, keeping checkbox state for runs that
// survived the update. New runs start enabled.
func (m *Board) setRuns(names []string) {
	enabled := make(map[string]bool, len(m.runs))
	for _, r := range m.runs {
		enabled[r.name] = r.enabled
	}

	runs := make([]run, 0, len(names))
	for _, name := range names {
		on, seen := enabled[name]
		runs = append(runs, run{name: name, enabled: on || !seen})
	}
	m.runs = runs
	m.loading = false

	if m.cursor >= len(m.runs) && len(m.runs) > 0 {
		m.cursor = len(m.runs) - 1
	}
	if len(m.runs) == 0 {
		m.cursor = 0
	}
}

// enabledRuns returns the names of all checked runs.
func (m *Board) enabledRuns() []string {
	var names []string
	for _, r := range m.runs {
		if r.enabled {
			names = append(names, r.name)
		}
	}
	return names
}

// title returns the header title, including the server version once known.
func (m *Board) title() string {
	if m.version == "" {
		return "texrboard"
	}
	return fmt.Sprintf("texrboard - TensorBoard %s", m.version)
}

// View renders the whole screen on the alternate buffer.
func (m *Board) View() tea.View {
	var view tea.View
	view.SetContent(m.render())
	view.AltScreen = true
	return view
}
