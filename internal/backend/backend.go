// Package backend canonicalizes two independently-ordered hardware sources
// (DDC/CI and the platform backlight API) into one logical monitor index
// space and answers brightness get/set requests with automatic protocol
// fallback. Hardware failures are never raised to callers; every operation
// degrades to a boolean or absent result.
package backend

import (
	"strconv"
	"sync/atomic"

	"github.com/lumenctl/lumen/internal/logger"
)

// snapshot holds one refresh's worth of enumeration state. It is replaced
// wholesale on Refresh, never patched, so concurrent readers observe either
// the old or the new lists atomically per call.
type snapshot struct {
	// lists holds one handle list per provider, in provider priority order.
	// Index 0 is the DDC/CI list that defines the logical index space.
	lists [][]string

	// primaryIndex is the OS-reported primary monitor physical index,
	// defaulted to 0 when detection failed.
	primaryIndex int
}

// Backend owns both enumeration results and resolves reads/writes against
// whichever protocol currently works. It holds no lock of its own: mutating
// callers are serialized by the Controller, and the snapshot swap keeps
// read-only consumers consistent.
type Backend struct {
	providers []Provider
	detector  PrimaryDetector
	mapping   indexMap
	log       logger.Logger

	snap atomic.Pointer[snapshot]
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the backend logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Backend) {
		b.log = l
	}
}

// WithSwapFirstTwo enables the fixed logical 0<->1 index swap.
func WithSwapFirstTwo(enabled bool) Option {
	return func(b *Backend) {
		b.mapping = indexMap{swapFirstTwo: enabled}
	}
}

// New creates a Backend over the given providers, tried in the given priority
// order (DDC/CI first by convention). It performs an initial Refresh so the
// backend is immediately usable.
func New(providers []Provider, detector PrimaryDetector, opts ...Option) *Backend {
	b := &Backend{
		providers: providers,
		detector:  detector,
		log:       logger.NewEnvLogger("[backend]"),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.snap.Store(&snapshot{lists: make([][]string, len(providers))})
	b.Refresh()
	return b
}

// Refresh re-queries every enumeration source independently and re-detects
// the OS primary monitor. Enumeration failures empty that provider's list and
// are logged, never raised. The refresh-time capability probe below is
// diagnostic only.
func (b *Backend) Refresh() {
	next := &snapshot{lists: make([][]string, len(b.providers))}

	for i, p := range b.providers {
		handles, err := p.List()
		if err != nil {
			b.log.Error("%s enumeration failed: %v", p.Name(), err)
			handles = nil
		}
		next.lists[i] = handles
		b.log.Info("%s: found %d monitor(s)", p.Name(), len(handles))
	}

	next.primaryIndex = b.detectPrimary()

	b.snap.Store(next)

	// Probe every monitor's read capability for diagnostics. Failures here
	// feed nothing but the log; SupportsBrightness is computed per call.
	count := b.MonitorCount()
	b.log.Info("total monitors detected: %d", count)
	for phys := 0; phys < count; phys++ {
		if name, _, ok := b.tryGet(next, phys); ok {
			b.log.Debug("monitor %d: %s responds", phys, name)
		} else {
			b.log.Warn("monitor %d: no protocol answered a brightness read", phys)
		}
	}
}

// detectPrimary asks the detector for the primary physical index, defaulting
// to 0 on any failure.
func (b *Backend) detectPrimary() int {
	if b.detector == nil {
		return 0
	}
	idx, err := b.detector.PrimaryIndex()
	if err != nil {
		b.log.Warn("primary monitor detection failed, assuming index 0: %v", err)
		return 0
	}
	b.log.Debug("primary monitor detected at physical index %d", idx)
	return idx
}

// MonitorCount returns the larger of the source list lengths: the richer
// source defines the true monitor count, tolerating one source being
// entirely unavailable.
func (b *Backend) MonitorCount() int {
	snap := b.snap.Load()
	count := 0
	for _, list := range snap.lists {
		if len(list) > count {
			count = len(list)
		}
	}
	return count
}

// MonitorInfo builds the record for a logical index. The second return is
// false when the mapped physical index falls outside the DDC/CI list bounds.
// SupportsBrightness is computed by invocation, not from the refresh-time
// probe, so capability reflects current state.
func (b *Backend) MonitorInfo(logical int) (MonitorRecord, bool) {
	snap := b.snap.Load()
	physical := b.mapping.toPhysical(logical)

	if physical < 0 || physical >= len(snap.lists[0]) {
		return MonitorRecord{}, false
	}

	_, _, supports := b.tryGet(snap, physical)

	return MonitorRecord{
		ID:                 MonitorID(logical),
		LogicalIndex:       logical,
		DisplayName:        displayName(logical),
		IsPrimary:          physical == snap.primaryIndex,
		SupportsBrightness: supports,
	}, true
}

// Monitors returns records for every logical index present in the current
// snapshot. The slice is rebuilt per call; callers must not cache it across
// refreshes.
func (b *Backend) Monitors() []MonitorRecord {
	count := b.MonitorCount()
	records := make([]MonitorRecord, 0, count)
	for i := 0; i < count; i++ {
		if rec, ok := b.MonitorInfo(i); ok {
			records = append(records, rec)
		}
	}
	return records
}

// MonitorIDs returns the stable IDs for every logical index in the current
// snapshot.
func (b *Backend) MonitorIDs() []string {
	count := b.MonitorCount()
	ids := make([]string, count)
	for i := range ids {
		ids[i] = MonitorID(i)
	}
	return ids
}

// Brightness reads the current brightness for a monitor ID. Returns false for
// malformed IDs, out-of-bounds indices, and when every protocol failed.
func (b *Backend) Brightness(monitorID string) (int, bool) {
	logical, ok := ParseMonitorID(monitorID)
	if !ok {
		b.log.Warn("malformed monitor id: %q", monitorID)
		return 0, false
	}

	snap := b.snap.Load()
	physical := b.mapping.toPhysical(logical)
	if physical < 0 {
		return 0, false
	}

	name, value, ok := b.tryGet(snap, physical)
	if ok {
		b.log.Debug("%s: brightness for %s (L%d->P%d) = %d%%", name, monitorID, logical, physical, value)
	}
	return value, ok
}

// SetBrightness writes a brightness value for a monitor ID, clamped to
// [0,100] before any hardware call. DDC/CI is attempted first and a success
// short-circuits; the fallback protocol is only consulted after an explicit
// DDC/CI failure for that physical index on that call.
func (b *Backend) SetBrightness(monitorID string, value int) bool {
	value = Clamp(value)

	logical, ok := ParseMonitorID(monitorID)
	if !ok {
		b.log.Warn("malformed monitor id: %q", monitorID)
		return false
	}

	snap := b.snap.Load()
	physical := b.mapping.toPhysical(logical)
	if physical < 0 {
		return false
	}

	for i, p := range b.providers {
		if physical >= len(snap.lists[i]) {
			continue
		}
		if err := p.Set(physical, value); err != nil {
			b.log.Debug("%s: set failed for %s (P%d): %v", p.Name(), monitorID, physical, err)
			continue
		}
		b.log.Info("%s: set %s (L%d->P%d) to %d%%", p.Name(), monitorID, logical, physical, value)
		return true
	}

	b.log.Warn("no protocol could set brightness for %s", monitorID)
	return false
}

// tryGet attempts a brightness read through each provider in priority order,
// bounds-checked against that provider's own list. Returns the provider name
// and value on the first success.
func (b *Backend) tryGet(snap *snapshot, physical int) (string, int, bool) {
	if physical < 0 {
		return "", 0, false
	}
	for i, p := range b.providers {
		if physical >= len(snap.lists[i]) {
			continue
		}
		value, err := p.Get(physical)
		if err != nil {
			b.log.Debug("%s: get failed for P%d: %v", p.Name(), physical, err)
			continue
		}
		return p.Name(), value, true
	}
	return "", 0, false
}

func displayName(logical int) string {
	return "Monitor " + strconv.Itoa(logical+1)
}
