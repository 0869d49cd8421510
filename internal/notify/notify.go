// Package notify delivers display topology change events. Two sources are
// supported: kernel uevents for the drm subsystem, and the Mutter
// DisplayConfig MonitorsChanged DBus signal on GNOME sessions.
package notify

import "errors"

// ErrInterrupted is returned from Wait when Interrupt was called. It marks a
// deliberate shutdown rather than a delivery failure.
var ErrInterrupted = errors.New("notify: wait interrupted")

// Notifier blocks until the monitor topology changes.
//
// Wait returns nil when a change event arrives, ErrInterrupted after
// Interrupt, and any other error when the event source breaks. Interrupt is
// safe to call from another goroutine and is idempotent. Close releases the
// underlying resources; Wait must not be called after Close.
type Notifier interface {
	Wait() error
	Interrupt()
	Close() error
}
