// Package settings persists brightness state between runs. Writes are
// debounced so rapid slider movement produces one disk write instead of one
// per tick.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lumenctl/lumen/internal/errors"
	"github.com/lumenctl/lumen/internal/logger"
)

// CurrentVersion is the settings schema version written to disk. A file
// carrying a different version is re-stamped on the next write; no field
// migration exists yet.
const CurrentVersion = 1

// DefaultDebounce is the write coalescing window.
const DefaultDebounce = time.Second

// Settings is the on-disk state. Per-monitor brightness is keyed by the
// stable monitor ID (MONITOR_<logical index>).
type Settings struct {
	Version          int            `json:"version"`
	SyncMode         bool           `json:"sync_mode"`
	GlobalBrightness int            `json:"global_brightness"`
	PerMonitor       map[string]int `json:"per_monitor"`
	AutoStart        bool           `json:"auto_start"`
	LastMonitors     []string       `json:"last_monitors"`
}

// defaults returns the state used for a missing or unreadable file.
func defaults() Settings {
	return Settings{
		Version:          CurrentVersion,
		SyncMode:         true,
		GlobalBrightness: 100,
		PerMonitor:       map[string]int{},
	}
}

// Store guards Settings with a mutex and flushes changes to disk after a
// debounce window. All methods are safe for concurrent use.
type Store struct {
	path     string
	debounce time.Duration
	log      logger.Logger

	mu        sync.Mutex
	state     Settings
	dirty     bool
	timer     *time.Timer
	lastWrite time.Time
}

// NewStore loads (or initializes) the settings file at path. A zero debounce
// selects the default window.
func NewStore(path string, debounce time.Duration, log logger.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New(errors.ErrPersist,
			"No settings file path was given",
			"Set settings.path in your configuration.")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.NewEnvLogger("[settings]")
	}

	s := &Store{path: path, debounce: debounce, log: log}
	s.state = s.load()
	return s, nil
}

// load reads the settings file, decoding onto the defaults so missing keys
// stay backfilled. Per-monitor keys are preserved verbatim; a lookup by
// MONITOR_<n> must find exactly what an earlier run stored. A corrupt file is
// treated as absent.
func (s *Store) load() Settings {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("settings file unreadable, starting fresh: %v", err)
		}
		return defaults()
	}

	st := defaults()
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.Warn("settings file malformed, starting fresh: %v", err)
		return defaults()
	}
	if st.PerMonitor == nil {
		st.PerMonitor = map[string]int{}
	}
	if st.Version != CurrentVersion {
		// Stamp the current version; the next write persists it.
		s.log.Info("settings schema %d migrated to %d", st.Version, CurrentVersion)
		st.Version = CurrentVersion
	}
	return st
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

// SyncMode reports whether synchronized brightness is enabled.
func (s *Store) SyncMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SyncMode
}

// SetSyncMode records the sync mode and schedules a write.
func (s *Store) SetSyncMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SyncMode = on
	s.markDirty()
}

// GlobalBrightness returns the persisted shared brightness level.
func (s *Store) GlobalBrightness() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GlobalBrightness
}

// SetGlobalBrightness clamps and records the shared brightness level.
func (s *Store) SetGlobalBrightness(value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.GlobalBrightness = clamp(value)
	s.markDirty()
}

// MonitorBrightness returns the persisted level for a monitor ID, if any.
func (s *Store) MonitorBrightness(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.state.PerMonitor[id]
	return value, ok
}

// SetMonitorBrightness clamps and records the level for a monitor ID.
func (s *Store) SetMonitorBrightness(id string, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PerMonitor[id] = clamp(value)
	s.markDirty()
}

// AutoStart reports whether autostart was enabled.
func (s *Store) AutoStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AutoStart
}

// SetAutoStart records the autostart preference.
func (s *Store) SetAutoStart(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AutoStart = on
	s.markDirty()
}

// SetLastMonitors records the monitor IDs seen at shutdown.
func (s *Store) SetLastMonitors(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastMonitors = append([]string(nil), ids...)
	s.markDirty()
}

// markDirty schedules a debounced write. Callers hold s.mu.
func (s *Store) markDirty() {
	s.dirty = true
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, func() {
			if err := s.Flush(); err != nil {
				s.log.Error("debounced settings write failed: %v", err)
			}
		})
		return
	}
	s.timer.Reset(s.debounce)
}

// Flush writes pending changes immediately, bypassing the debounce window.
// A clean store is a no-op.
func (s *Store) Flush() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	state := s.copyState()
	s.dirty = false
	s.lastWrite = time.Now()
	s.mu.Unlock()

	return s.write(state)
}

// write serializes the state and replaces the file atomically.
func (s *Store) write(state Settings) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrPersist,
			"Couldn't serialize brightness settings", "")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrPersist,
			"Couldn't create the settings directory",
			fmt.Sprintf("Check permissions on %s.", filepath.Dir(s.path)))
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrPersist,
			"Couldn't write the settings file",
			fmt.Sprintf("Check permissions on %s.", s.path))
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.WrapWithCode(err, errors.ErrPersist,
			"Couldn't replace the settings file",
			fmt.Sprintf("Check permissions on %s.", s.path))
	}
	return nil
}

// selfWriteWindow suppresses watcher events this close to our own writes.
const selfWriteWindow = 500 * time.Millisecond

// Watch reloads the store when another process rewrites the settings file
// and then calls onChange. It returns a stop function.
func (s *Store) Watch(onChange func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPersist,
			"Couldn't watch the settings file", "")
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, errors.WrapWithCode(err, errors.ErrPersist,
			"Couldn't watch the settings directory",
			fmt.Sprintf("Check that %s exists.", filepath.Dir(s.path)))
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				s.mu.Lock()
				selfWrite := time.Since(s.lastWrite) < selfWriteWindow
				if !selfWrite {
					s.state = s.load()
				}
				s.mu.Unlock()
				if !selfWrite {
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("settings watch error: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}

func (s *Store) copyState() Settings {
	out := s.state
	out.PerMonitor = make(map[string]int, len(s.state.PerMonitor))
	for k, v := range s.state.PerMonitor {
		out.PerMonitor[k] = v
	}
	out.LastMonitors = append([]string(nil), s.state.LastMonitors...)
	return out
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
