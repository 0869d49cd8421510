package backend

import (
	"fmt"
	"strconv"
	"strings"
)

// monitorIDPrefix is the stable key prefix for logical monitors. The suffix
// is the logical index, so persisted per-monitor settings survive physical
// re-ordering as long as the logical ordering is preserved.
const monitorIDPrefix = "MONITOR_"

// MonitorRecord represents one logical monitor as seen by the rest of the
// system. The full set of records is rebuilt on every Refresh; consumers must
// re-fetch the list rather than cache records across refreshes.
type MonitorRecord struct {
	// ID is the stable string key, format "MONITOR_<logical_index>".
	ID string `json:"id"`

	// LogicalIndex is the 0-based UI-facing index, assigned by ordinal
	// position in the DDC/CI enumeration and stable for the lifetime of
	// one enumeration snapshot.
	LogicalIndex int `json:"logical_index"`

	// DisplayName is the human-readable label ("Monitor 1").
	DisplayName string `json:"display_name"`

	// IsPrimary is true iff this record's physical index equals the
	// OS-reported primary monitor index.
	IsPrimary bool `json:"is_primary"`

	// SupportsBrightness is true iff at least one protocol answered a
	// brightness query for this record.
	SupportsBrightness bool `json:"supports_brightness"`
}

// String renders the record the way list output shows it.
func (m MonitorRecord) String() string {
	s := m.DisplayName
	if m.IsPrimary {
		s += " (primary)"
	}
	if !m.SupportsBrightness {
		s += " [no brightness control]"
	}
	return s
}

// MonitorID builds the stable ID for a logical index.
func MonitorID(logical int) string {
	return fmt.Sprintf("%s%d", monitorIDPrefix, logical)
}

// ParseMonitorID extracts the logical index from a monitor ID.
// Returns false for anything that is not exactly "MONITOR_<n>" with n >= 0.
func ParseMonitorID(id string) (int, bool) {
	suffix, ok := strings.CutPrefix(id, monitorIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Clamp bounds a brightness value to [0,100].
func Clamp(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
