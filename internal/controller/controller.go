// Package controller implements the brightness policy layer: synchronized
// versus per-monitor control, persistence of levels, and restore on startup.
// A single mutex serializes all public operations so hardware writes and
// persisted state never interleave.
package controller

import (
	"sync"

	"github.com/lumenctl/lumen/internal/backend"
	"github.com/lumenctl/lumen/internal/logger"
	"github.com/lumenctl/lumen/internal/settings"
)

// Backend is the slice of the monitor backend the controller needs. Monitor
// IDs are the stable MONITOR_<logical index> strings.
type Backend interface {
	MonitorIDs() []string
	Monitors() []backend.MonitorRecord
	Brightness(id string) (int, bool)
	SetBrightness(id string, value int) bool
}

// Controller applies brightness decisions to hardware and records them in
// the settings store.
type Controller struct {
	mu      sync.Mutex
	backend Backend
	store   *settings.Store
	log     logger.Logger
}

// New creates a controller over a backend and a settings store.
func New(b Backend, store *settings.Store, log logger.Logger) *Controller {
	if log == nil {
		log = logger.NewEnvLogger("[controller]")
	}
	return &Controller{backend: b, store: store, log: log}
}

// SyncMode reports whether all monitors track the shared level.
func (c *Controller) SyncMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.SyncMode()
}

// ToggleSyncMode flips the sync setting. Enabling sync re-applies the
// persisted global level to every brightness-capable monitor, recording each
// successful write as that monitor's own level; the global value itself is
// not re-written. Disabling sync only persists the mode.
func (c *Controller) ToggleSyncMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	on := !c.store.SyncMode()
	c.store.SetSyncMode(on)

	if on {
		c.applyToAll(c.store.GlobalBrightness())
	}
	return on
}

// SetGlobalBrightness persists the shared level and applies it to every
// brightness-capable monitor, recording each successful write as that
// monitor's own level. Individual monitor failures are logged and skipped;
// the persisted global value always reflects the request.
func (c *Controller) SetGlobalBrightness(value int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value = backend.Clamp(value)
	c.store.SetGlobalBrightness(value)
	c.applyToAll(value)
}

// SetMonitorBrightness issues a single hardware write for one monitor and
// persists the level only when that write succeeded. On failure the persisted
// config for the monitor is left unchanged and false is returned.
func (c *Controller) SetMonitorBrightness(id string, value int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	value = backend.Clamp(value)
	if !c.backend.SetBrightness(id, value) {
		c.log.Warn("couldn't set %s to %d%%", id, value)
		return false
	}
	c.store.SetMonitorBrightness(id, value)
	return true
}

// MonitorBrightness reads the live hardware level for one monitor.
func (c *Controller) MonitorBrightness(id string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.Brightness(id)
}

// RestoreLastBrightness applies the persisted state to the current monitor
// set. In sync mode every capable monitor gets the global level; otherwise
// each capable monitor gets its own persisted level, and a monitor with no
// record is left untouched.
func (c *Controller) RestoreLastBrightness() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store.SyncMode() {
		c.applyToAll(c.store.GlobalBrightness())
		return
	}

	for _, rec := range c.backend.Monitors() {
		if !rec.SupportsBrightness {
			continue
		}
		value, ok := c.store.MonitorBrightness(rec.ID)
		if !ok {
			continue
		}
		if !c.backend.SetBrightness(rec.ID, value) {
			c.log.Warn("couldn't restore %s to %d%%", rec.ID, value)
		}
	}
}

// RecordTopology persists the current monitor IDs for diagnostics.
func (c *Controller) RecordTopology() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.SetLastMonitors(c.backend.MonitorIDs())
}

// applyToAll writes one level to every brightness-capable monitor and records
// each successful write as that monitor's persisted level. Failed monitors
// keep their previous record. Callers hold c.mu.
func (c *Controller) applyToAll(value int) {
	for _, rec := range c.backend.Monitors() {
		if !rec.SupportsBrightness {
			continue
		}
		if !c.backend.SetBrightness(rec.ID, value) {
			c.log.Warn("couldn't set %s to %d%%", rec.ID, value)
			continue
		}
		c.store.SetMonitorBrightness(rec.ID, value)
	}
}
