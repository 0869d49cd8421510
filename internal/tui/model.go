// Package tui implements the interactive brightness panel. It is a pure
// presentation consumer of the controller and manager: every brightness
// decision goes through the controller, and topology changes arrive as
// messages posted from the manager callback.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumenctl/lumen/internal/backend"
)

// adjustStep is the brightness change per keypress.
const adjustStep = 5

// Controller is the slice of the brightness controller the panel uses.
type Controller interface {
	SyncMode() bool
	ToggleSyncMode() bool
	SetGlobalBrightness(value int)
	SetMonitorBrightness(id string, value int) bool
	MonitorBrightness(id string) (int, bool)
}

// Monitors supplies the current monitor records.
type Monitors interface {
	Monitors() []backend.MonitorRecord
	RefreshMonitors()
}

// TopologyChangedMsg is posted (via Program.Send) when the monitor set
// changed behind the panel.
type TopologyChangedMsg struct{}

// row pairs a monitor record with its last brightness reading.
type row struct {
	rec   backend.MonitorRecord
	level int
	ok    bool
}

// keyMap defines the panel key bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Increase key.Binding
	Decrease key.Binding
	Sync     key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Increase, k.Decrease, k.Sync, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "select"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "select"),
	),
	Increase: key.NewBinding(
		key.WithKeys("right", "l", "+", "="),
		key.WithHelp("→/+", "brighter"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("left", "h", "-"),
		key.WithHelp("←/-", "dimmer"),
	),
	Sync: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sync"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the Bubble Tea model for the brightness panel.
type Model struct {
	controller Controller
	monitors   Monitors

	rows     []row
	selected int
	syncMode bool
	width    int
	help     help.Model
	quitting bool
}

// NewModel builds the panel over an already-wired controller and monitor
// source.
func NewModel(c Controller, m Monitors) Model {
	model := Model{
		controller: c,
		monitors:   m,
		help:       help.New(),
	}
	model.reload()
	return model
}

// reload rebuilds the rows from the current monitor set and hardware levels.
func (m *Model) reload() {
	records := m.monitors.Monitors()
	rows := make([]row, len(records))
	for i, rec := range records {
		level, ok := m.controller.MonitorBrightness(rec.ID)
		rows[i] = row{rec: rec, level: level, ok: ok}
	}
	m.rows = rows
	m.syncMode = m.controller.SyncMode()
	if m.selected >= len(rows) {
		m.selected = 0
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case TopologyChangedMsg:
		// The manager already refreshed the backend.
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
			return m, nil

		case key.Matches(msg, keys.Increase):
			m.adjust(adjustStep)
			return m, nil

		case key.Matches(msg, keys.Decrease):
			m.adjust(-adjustStep)
			return m, nil

		case key.Matches(msg, keys.Sync):
			m.controller.ToggleSyncMode()
			m.reload()
			return m, nil

		case key.Matches(msg, keys.Refresh):
			m.monitors.RefreshMonitors()
			m.reload()
			return m, nil
		}
	}
	return m, nil
}

// adjust changes the selected monitor's level by delta. In sync mode the
// change goes through the global level so every monitor moves together.
func (m *Model) adjust(delta int) {
	if m.selected >= len(m.rows) {
		return
	}
	r := m.rows[m.selected]
	if !r.ok {
		return
	}

	target := backend.Clamp(r.level + delta)
	if m.syncMode {
		m.controller.SetGlobalBrightness(target)
	} else {
		m.controller.SetMonitorBrightness(r.rec.ID, target)
	}
	m.reload()
}

// Selected returns the selected row index.
func (m Model) Selected() int { return m.selected }

// Rows returns the number of monitor rows.
func (m Model) Rows() int { return len(m.rows) }

// SyncMode reports the panel's view of sync mode.
func (m Model) SyncMode() bool { return m.syncMode }
