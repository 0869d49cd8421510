package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const monitorsChangedSignal = "org.gnome.Mutter.DisplayConfig.MonitorsChanged"

// DBusNotifier listens for the Mutter DisplayConfig MonitorsChanged signal
// on the session bus. It only works under GNOME; other desktops should use
// the uevent notifier.
type DBusNotifier struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal

	done          chan struct{}
	interruptOnce sync.Once
	closeOnce     sync.Once
}

// NewDBusNotifier connects to the session bus and subscribes to Mutter's
// MonitorsChanged signal.
func NewDBusNotifier() (*DBusNotifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	rule := "type='signal',interface='org.gnome.Mutter.DisplayConfig',member='MonitorsChanged'"
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe to MonitorsChanged: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)

	return &DBusNotifier{
		conn:    conn,
		signals: signals,
		done:    make(chan struct{}),
	}, nil
}

// Wait blocks until a MonitorsChanged signal arrives or Interrupt is called.
func (n *DBusNotifier) Wait() error {
	for {
		select {
		case <-n.done:
			return ErrInterrupted
		case sig, ok := <-n.signals:
			if !ok {
				return fmt.Errorf("session bus connection lost")
			}
			if sig != nil && sig.Name == monitorsChangedSignal {
				return nil
			}
		}
	}
}

// Interrupt unblocks a pending Wait.
func (n *DBusNotifier) Interrupt() {
	n.interruptOnce.Do(func() {
		close(n.done)
	})
}

// Close drops the signal subscription and the bus connection.
func (n *DBusNotifier) Close() error {
	var err error
	n.closeOnce.Do(func() {
		n.conn.RemoveSignal(n.signals)
		err = n.conn.Close()
	})
	return err
}
