package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenctl/lumen/internal/logger"
)

func newStore(t *testing.T, debounce time.Duration) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewStore(path, debounce, logger.Noop())
	require.NoError(t, err)
	return s
}

func readFile(t *testing.T, path string) Settings {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var st Settings
	require.NoError(t, json.Unmarshal(data, &st))
	return st
}

func TestDefaultsWhenFileMissing(t *testing.T) {
	s := newStore(t, time.Hour)

	assert.True(t, s.SyncMode())
	assert.Equal(t, 100, s.GlobalBrightness())
	_, ok := s.MonitorBrightness("MONITOR_0")
	assert.False(t, ok)
}

func TestDefaultsWhenFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s, err := NewStore(path, time.Hour, logger.Noop())
	require.NoError(t, err)
	assert.Equal(t, 100, s.GlobalBrightness())
	assert.True(t, s.SyncMode())
}

func TestMissingKeysBackfilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	// An old file with only one field keeps defaults for the rest.
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"sync_mode":false}`), 0644))

	s, err := NewStore(path, time.Hour, logger.Noop())
	require.NoError(t, err)
	assert.False(t, s.SyncMode())
	assert.Equal(t, 100, s.GlobalBrightness())
}

func TestVersionMismatchStamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":0,"global_brightness":40}`), 0644))

	s, err := NewStore(path, time.Hour, logger.Noop())
	require.NoError(t, err)

	// Existing values survive the stamp.
	assert.Equal(t, 40, s.GlobalBrightness())
	assert.Equal(t, CurrentVersion, s.Snapshot().Version)
}

func TestSettersClamp(t *testing.T) {
	s := newStore(t, time.Hour)

	s.SetGlobalBrightness(150)
	assert.Equal(t, 100, s.GlobalBrightness())

	s.SetMonitorBrightness("MONITOR_1", -20)
	v, ok := s.MonitorBrightness("MONITOR_1")
	require.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestFlushWritesImmediately(t *testing.T) {
	s := newStore(t, time.Hour)

	s.SetGlobalBrightness(55)
	s.SetMonitorBrightness("MONITOR_0", 70)
	s.SetSyncMode(false)
	require.NoError(t, s.Flush())

	st := readFile(t, s.Path())
	assert.Equal(t, CurrentVersion, st.Version)
	assert.Equal(t, 55, st.GlobalBrightness)
	assert.Equal(t, 70, st.PerMonitor["MONITOR_0"])
	assert.False(t, st.SyncMode)
}

func TestFlushCleanStoreIsNoOp(t *testing.T) {
	s := newStore(t, time.Hour)

	require.NoError(t, s.Flush())
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestDebounceCoalescesWrites(t *testing.T) {
	s := newStore(t, 50*time.Millisecond)

	// Rapid changes inside the window produce a single write with the last
	// value.
	for v := 10; v <= 50; v += 10 {
		s.SetGlobalBrightness(v)
	}

	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "write before the window elapsed")

	require.Eventually(t, func() bool {
		_, err := os.Stat(s.Path())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 50, readFile(t, s.Path()).GlobalBrightness)
}

func TestDebounceTimerResets(t *testing.T) {
	s := newStore(t, 80*time.Millisecond)

	s.SetGlobalBrightness(10)
	time.Sleep(50 * time.Millisecond)
	s.SetGlobalBrightness(20)
	time.Sleep(50 * time.Millisecond)

	// 100ms total has passed but each change restarted the window.
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))

	require.Eventually(t, func() bool {
		_, err := os.Stat(s.Path())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 20, readFile(t, s.Path()).GlobalBrightness)
}

func TestRoundTripThroughDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s1, err := NewStore(path, time.Hour, logger.Noop())
	require.NoError(t, err)
	s1.SetSyncMode(false)
	s1.SetGlobalBrightness(33)
	s1.SetMonitorBrightness("MONITOR_0", 80)
	s1.SetLastMonitors([]string{"MONITOR_0", "MONITOR_1"})
	s1.SetAutoStart(true)
	require.NoError(t, s1.Flush())

	s2, err := NewStore(path, time.Hour, logger.Noop())
	require.NoError(t, err)
	assert.False(t, s2.SyncMode())
	assert.Equal(t, 33, s2.GlobalBrightness())
	v, ok := s2.MonitorBrightness("MONITOR_0")
	require.True(t, ok)
	assert.Equal(t, 80, v)
	assert.True(t, s2.AutoStart())
	assert.Equal(t, []string{"MONITOR_0", "MONITOR_1"}, s2.Snapshot().LastMonitors)
}

func TestLoadKeepsMonitorKeyCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"version":1,"per_monitor":{"MONITOR_0":80}}`), 0644))

	s, err := NewStore(path, time.Hour, logger.Noop())
	require.NoError(t, err)

	// The persisted key must come back verbatim, not case-folded.
	v, ok := s.MonitorBrightness("MONITOR_0")
	require.True(t, ok)
	assert.Equal(t, 80, v)
	assert.Contains(t, s.Snapshot().PerMonitor, "MONITOR_0")
}

func TestWatchReloadsOnExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewStore(path, time.Hour, logger.Noop())
	require.NoError(t, err)

	changed := make(chan struct{}, 1)
	stop, err := s.Watch(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	// Another process rewrites the file.
	data, err := json.Marshal(Settings{Version: 1, GlobalBrightness: 77, PerMonitor: map[string]int{}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watch never fired")
	}
	assert.Equal(t, 77, s.GlobalBrightness())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newStore(t, time.Hour)
	s.SetMonitorBrightness("MONITOR_0", 60)

	snap := s.Snapshot()
	snap.PerMonitor["MONITOR_0"] = 5

	v, _ := s.MonitorBrightness("MONITOR_0")
	assert.Equal(t, 60, v)
}
