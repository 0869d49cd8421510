package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenctl/lumen/internal/backend"
)

// fakeController implements Controller with in-memory levels.
type fakeController struct {
	sync   bool
	levels map[string]int
}

func (f *fakeController) SyncMode() bool { return f.sync }

func (f *fakeController) ToggleSyncMode() bool {
	f.sync = !f.sync
	return f.sync
}

func (f *fakeController) SetGlobalBrightness(value int) {
	for id := range f.levels {
		f.levels[id] = value
	}
}

func (f *fakeController) SetMonitorBrightness(id string, value int) bool {
	f.levels[id] = value
	return true
}

func (f *fakeController) MonitorBrightness(id string) (int, bool) {
	v, ok := f.levels[id]
	return v, ok
}

// fakeMonitors implements Monitors over a mutable record list.
type fakeMonitors struct {
	records   []backend.MonitorRecord
	refreshes int
}

func (f *fakeMonitors) Monitors() []backend.MonitorRecord { return f.records }
func (f *fakeMonitors) RefreshMonitors()                  { f.refreshes++ }

func record(i int, primary bool) backend.MonitorRecord {
	return backend.MonitorRecord{
		ID:                 backend.MonitorID(i),
		LogicalIndex:       i,
		DisplayName:        "Monitor " + string(rune('1'+i)),
		IsPrimary:          primary,
		SupportsBrightness: true,
	}
}

func newTestModel() (Model, *fakeController, *fakeMonitors) {
	c := &fakeController{levels: map[string]int{"MONITOR_0": 50, "MONITOR_1": 80}}
	m := &fakeMonitors{records: []backend.MonitorRecord{record(0, true), record(1, false)}}
	return NewModel(c, m), c, m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestSelectionMoves(t *testing.T) {
	m, _, _ := newTestModel()

	m = update(t, m, keyMsg("j"))
	assert.Equal(t, 1, m.Selected())

	// Bottom of the list clamps.
	m = update(t, m, keyMsg("j"))
	assert.Equal(t, 1, m.Selected())

	m = update(t, m, keyMsg("k"))
	assert.Equal(t, 0, m.Selected())
	m = update(t, m, keyMsg("k"))
	assert.Equal(t, 0, m.Selected())
}

func TestAdjustSelectedMonitor(t *testing.T) {
	m, c, _ := newTestModel()
	m = update(t, m, keyMsg("j")) // select MONITOR_1

	m = update(t, m, keyMsg("+"))
	assert.Equal(t, 85, c.levels["MONITOR_1"])
	assert.Equal(t, 50, c.levels["MONITOR_0"])

	m = update(t, m, keyMsg("-"))
	m = update(t, m, keyMsg("-"))
	assert.Equal(t, 75, c.levels["MONITOR_1"])
}

func TestAdjustClampsAtBounds(t *testing.T) {
	m, c, _ := newTestModel()
	c.levels["MONITOR_0"] = 98
	m = update(t, m, keyMsg("r")) // reload levels

	m = update(t, m, keyMsg("+"))
	assert.Equal(t, 100, c.levels["MONITOR_0"])
	m = update(t, m, keyMsg("+"))
	assert.Equal(t, 100, c.levels["MONITOR_0"])
}

func TestAdjustInSyncModeMovesAll(t *testing.T) {
	m, c, _ := newTestModel()
	c.sync = true
	m = update(t, m, keyMsg("r"))

	m = update(t, m, keyMsg("+"))
	assert.Equal(t, c.levels["MONITOR_0"], c.levels["MONITOR_1"])
}

func TestSyncToggle(t *testing.T) {
	m, c, _ := newTestModel()
	require.False(t, m.SyncMode())

	m = update(t, m, keyMsg("s"))
	assert.True(t, c.sync)
	assert.True(t, m.SyncMode())
}

func TestRefreshKey(t *testing.T) {
	m, _, mons := newTestModel()

	update(t, m, keyMsg("r"))
	assert.Equal(t, 1, mons.refreshes)
}

func TestTopologyMessageRebuildsRows(t *testing.T) {
	m, c, mons := newTestModel()
	m = update(t, m, keyMsg("j"))
	require.Equal(t, 1, m.Selected())

	// A monitor disappears; the panel rebuilds and the selection resets.
	mons.records = mons.records[:1]
	delete(c.levels, "MONITOR_1")
	m = update(t, m, TopologyChangedMsg{})

	assert.Equal(t, 1, m.Rows())
	assert.Equal(t, 0, m.Selected())
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel()

	next, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Empty(t, next.(Model).View())
}

func TestViewListsMonitors(t *testing.T) {
	m, _, _ := newTestModel()

	out := m.View()
	assert.Contains(t, out, "Monitor 1")
	assert.Contains(t, out, "Monitor 2")
	assert.Contains(t, out, "50%")
}
