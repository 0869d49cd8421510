package controller_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenctl/lumen/internal/backend"
	"github.com/lumenctl/lumen/internal/controller"
	"github.com/lumenctl/lumen/internal/logger"
	"github.com/lumenctl/lumen/internal/settings"
)

// fakeBackend tracks brightness writes per monitor ID.
type fakeBackend struct {
	ids       []string
	values    map[string]int
	fail      map[string]bool
	noSupport map[string]bool
	writes    []string
}

func newFakeBackend(ids ...string) *fakeBackend {
	return &fakeBackend{
		ids:       ids,
		values:    map[string]int{},
		fail:      map[string]bool{},
		noSupport: map[string]bool{},
	}
}

func (f *fakeBackend) MonitorIDs() []string { return f.ids }

func (f *fakeBackend) Monitors() []backend.MonitorRecord {
	records := make([]backend.MonitorRecord, len(f.ids))
	for i, id := range f.ids {
		records[i] = backend.MonitorRecord{
			ID:                 id,
			LogicalIndex:       i,
			SupportsBrightness: !f.noSupport[id],
		}
	}
	return records
}

func (f *fakeBackend) Brightness(id string) (int, bool) {
	v, ok := f.values[id]
	return v, ok
}

func (f *fakeBackend) SetBrightness(id string, value int) bool {
	f.writes = append(f.writes, id)
	if f.fail[id] {
		return false
	}
	f.values[id] = value
	return true
}

func newController(t *testing.T, b controller.Backend) (*controller.Controller, *settings.Store) {
	t.Helper()
	store, err := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"), time.Hour, logger.Noop())
	require.NoError(t, err)
	return controller.New(b, store, logger.Noop()), store
}

func monitorLevel(t *testing.T, store *settings.Store, id string) int {
	t.Helper()
	v, ok := store.MonitorBrightness(id)
	require.True(t, ok, "no persisted level for %s", id)
	return v
}

func TestSetGlobalBrightnessAppliesToAll(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	c, store := newController(t, b)

	c.SetGlobalBrightness(60)

	assert.Equal(t, 60, b.values["MONITOR_0"])
	assert.Equal(t, 60, b.values["MONITOR_1"])
	assert.Equal(t, 60, store.GlobalBrightness())

	// Each successful write is also recorded per monitor.
	assert.Equal(t, 60, monitorLevel(t, store, "MONITOR_0"))
	assert.Equal(t, 60, monitorLevel(t, store, "MONITOR_1"))
}

func TestSetGlobalBrightnessPersistsDespiteFailure(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	b.fail["MONITOR_0"] = true
	c, store := newController(t, b)

	c.SetGlobalBrightness(45)

	// The failing monitor is skipped, the rest still get the level, and the
	// persisted global value reflects the request.
	assert.Equal(t, 45, b.values["MONITOR_1"])
	assert.Equal(t, 45, store.GlobalBrightness())

	// Only the successful write got a per-monitor record.
	assert.Equal(t, 45, monitorLevel(t, store, "MONITOR_1"))
	_, ok := store.MonitorBrightness("MONITOR_0")
	assert.False(t, ok)
}

func TestSetGlobalBrightnessSkipsUnsupportedMonitors(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	b.noSupport["MONITOR_0"] = true
	c, store := newController(t, b)

	c.SetGlobalBrightness(50)

	// A monitor without brightness support gets no write attempt at all.
	assert.NotContains(t, b.writes, "MONITOR_0")
	assert.Equal(t, 50, b.values["MONITOR_1"])
	_, ok := store.MonitorBrightness("MONITOR_0")
	assert.False(t, ok)
}

func TestSetMonitorBrightnessIndependent(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	c, store := newController(t, b)

	require.True(t, c.SetMonitorBrightness("MONITOR_1", 25))

	assert.Equal(t, 25, b.values["MONITOR_1"])
	_, touched := b.values["MONITOR_0"]
	assert.False(t, touched)

	assert.Equal(t, 25, monitorLevel(t, store, "MONITOR_1"))
}

func TestSetMonitorBrightnessWritesOnlyThatMonitor(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	c, store := newController(t, b)
	require.True(t, store.SyncMode())

	// Even with sync mode on, a targeted write touches one monitor and
	// leaves the global level alone.
	require.True(t, c.SetMonitorBrightness("MONITOR_1", 30))

	assert.Equal(t, 30, b.values["MONITOR_1"])
	assert.NotContains(t, b.writes, "MONITOR_0")
	assert.Equal(t, 100, store.GlobalBrightness())
	assert.Equal(t, 30, monitorLevel(t, store, "MONITOR_1"))
}

func TestSetMonitorBrightnessFailureLeavesConfigUntouched(t *testing.T) {
	b := newFakeBackend("MONITOR_0")
	b.fail["MONITOR_0"] = true
	c, store := newController(t, b)

	assert.False(t, c.SetMonitorBrightness("MONITOR_0", 80))

	// A failed hardware write must not create a persisted value.
	_, ok := store.MonitorBrightness("MONITOR_0")
	assert.False(t, ok)
}

func TestSetMonitorBrightnessFailureKeepsOldRecord(t *testing.T) {
	b := newFakeBackend("MONITOR_0")
	c, store := newController(t, b)
	store.SetMonitorBrightness("MONITOR_0", 40)

	b.fail["MONITOR_0"] = true
	assert.False(t, c.SetMonitorBrightness("MONITOR_0", 80))

	assert.Equal(t, 40, monitorLevel(t, store, "MONITOR_0"))
}

func TestToggleSyncModeOnReappliesGlobal(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	c, store := newController(t, b)
	store.SetSyncMode(false)
	store.SetGlobalBrightness(70)

	on := c.ToggleSyncMode()
	require.True(t, on)

	assert.Equal(t, 70, b.values["MONITOR_0"])
	assert.Equal(t, 70, b.values["MONITOR_1"])
	// The global level is re-applied, not re-persisted or recomputed, and
	// every successful write lands in the per-monitor records.
	assert.Equal(t, 70, store.GlobalBrightness())
	assert.Equal(t, 70, monitorLevel(t, store, "MONITOR_0"))
	assert.Equal(t, 70, monitorLevel(t, store, "MONITOR_1"))
}

func TestToggleSyncModeOffOnlyPersistsMode(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	c, store := newController(t, b)
	store.SetMonitorBrightness("MONITOR_0", 20)

	on := c.ToggleSyncMode()
	require.False(t, on)

	// Disabling sync issues no hardware writes.
	assert.Empty(t, b.writes)
	assert.False(t, store.SyncMode())
	assert.Equal(t, 20, monitorLevel(t, store, "MONITOR_0"))
}

func TestRestoreInSyncMode(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	c, store := newController(t, b)
	store.SetGlobalBrightness(55)

	c.RestoreLastBrightness()

	assert.Equal(t, 55, b.values["MONITOR_0"])
	assert.Equal(t, 55, b.values["MONITOR_1"])
	assert.Equal(t, 55, monitorLevel(t, store, "MONITOR_0"))
}

func TestRestorePerMonitorSkipsAbsentRecords(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1", "MONITOR_2")
	c, store := newController(t, b)
	store.SetSyncMode(false)
	store.SetMonitorBrightness("MONITOR_0", 10)
	store.SetMonitorBrightness("MONITOR_2", 90)

	c.RestoreLastBrightness()

	assert.Equal(t, 10, b.values["MONITOR_0"])
	assert.Equal(t, 90, b.values["MONITOR_2"])
	// A monitor without a persisted value keeps its hardware state.
	assert.NotContains(t, b.writes, "MONITOR_1")
}

func TestRestorePerMonitorSkipsUnsupportedMonitors(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	b.noSupport["MONITOR_1"] = true
	c, store := newController(t, b)
	store.SetSyncMode(false)
	store.SetMonitorBrightness("MONITOR_0", 15)
	store.SetMonitorBrightness("MONITOR_1", 85)

	c.RestoreLastBrightness()

	assert.Equal(t, 15, b.values["MONITOR_0"])
	assert.NotContains(t, b.writes, "MONITOR_1")
}

func TestMonitorBrightnessReadsHardware(t *testing.T) {
	b := newFakeBackend("MONITOR_0")
	b.values["MONITOR_0"] = 42
	c, _ := newController(t, b)

	v, ok := c.MonitorBrightness("MONITOR_0")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = c.MonitorBrightness("MONITOR_9")
	assert.False(t, ok)
}

func TestRecordTopology(t *testing.T) {
	b := newFakeBackend("MONITOR_0", "MONITOR_1")
	c, store := newController(t, b)

	c.RecordTopology()

	assert.Equal(t, []string{"MONITOR_0", "MONITOR_1"}, store.Snapshot().LastMonitors)
}
