// Package manager ties monitor enumeration to topology change delivery. It
// owns the single listener goroutine that refreshes the monitor list when
// the notifier fires and forwards the event to a registered callback.
package manager

import (
	"sync"

	"github.com/lumenctl/lumen/internal/backend"
	"github.com/lumenctl/lumen/internal/errors"
	"github.com/lumenctl/lumen/internal/logger"
	"github.com/lumenctl/lumen/internal/notify"
)

// Backend is the slice of the monitor backend the manager needs.
type Backend interface {
	Refresh()
	Monitors() []backend.MonitorRecord
	MonitorCount() int
}

// Listener lifecycle states. The progression is one-way: a stopped manager
// never listens again.
type state int

const (
	stateIdle state = iota
	stateListening
	stateStopped
)

// Manager wraps a Backend with topology change listening.
type Manager struct {
	backend  Backend
	notifier notify.Notifier
	log      logger.Logger

	mu    sync.Mutex
	state state
	done  chan struct{} // closed when the listener goroutine exits
}

// New creates a manager. The notifier may be nil, in which case listening is
// unavailable but enumeration still works.
func New(b Backend, n notify.Notifier, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewEnvLogger("[manager]")
	}
	return &Manager{backend: b, notifier: n, log: log}
}

// Monitors returns the current monitor records.
func (m *Manager) Monitors() []backend.MonitorRecord { return m.backend.Monitors() }

// MonitorCount returns the current monitor count.
func (m *Manager) MonitorCount() int { return m.backend.MonitorCount() }

// RefreshMonitors re-enumerates all brightness sources.
func (m *Manager) RefreshMonitors() { m.backend.Refresh() }

// ListenDisplayChange starts the listener goroutine. Each topology event
// refreshes the backend before cb runs, so the callback observes the new
// monitor list. Only one listener can ever be started; a second call or a
// call after StopListening fails.
func (m *Manager) ListenDisplayChange(cb func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateListening:
		return errors.New(errors.ErrConfig,
			"A display change listener is already running",
			"Stop the current listener before starting another one.")
	case stateStopped:
		return errors.New(errors.ErrConfig,
			"The display change listener was already stopped",
			"Create a new manager to listen again.")
	}
	if m.notifier == nil {
		return errors.New(errors.ErrConfig,
			"No display change notifier is available",
			"Check the notifier setting in your configuration.")
	}

	m.state = stateListening
	m.done = make(chan struct{})
	go m.listen(cb)
	return nil
}

// StopListening interrupts the listener and waits for it to exit. It is
// idempotent and a no-op when no listener ever started.
func (m *Manager) StopListening() {
	m.mu.Lock()
	if m.state != stateListening {
		m.state = stateStopped
		m.mu.Unlock()
		return
	}
	m.state = stateStopped
	done := m.done
	m.mu.Unlock()

	m.notifier.Interrupt()
	<-done
}

func (m *Manager) listen(cb func()) {
	defer close(m.done)

	for {
		err := m.notifier.Wait()
		if err == notify.ErrInterrupted {
			return
		}
		if err != nil {
			m.log.Error("display change wait failed: %v", err)
			return
		}

		m.backend.Refresh()
		m.log.Debug("display topology changed, %d monitor(s)", m.backend.MonitorCount())
		m.invoke(cb)
	}
}

// invoke runs the callback, containing any panic so the listener survives a
// misbehaving subscriber.
func (m *Manager) invoke(cb func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("display change callback panicked: %v", r)
		}
	}()
	cb()
}
