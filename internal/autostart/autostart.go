// Package autostart manages the XDG autostart desktop entry that launches
// the watch daemon on login.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumenctl/lumen/internal/errors"
)

const desktopFile = "lumen.desktop"

const desktopTemplate = `[Desktop Entry]
Type=Application
Name=Lumen
Comment=Restore and synchronize monitor brightness
Exec=%s watch
Terminal=false
X-GNOME-Autostart-enabled=true
`

// Manager creates and removes the autostart entry in a single directory.
type Manager struct {
	dir string
}

// New creates a manager over the user's XDG autostart directory.
func New() (*Manager, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't locate your configuration directory",
			"Set the HOME or XDG_CONFIG_HOME environment variable.")
	}
	return NewAt(filepath.Join(base, "autostart")), nil
}

// NewAt creates a manager over an explicit directory.
func NewAt(dir string) *Manager {
	return &Manager{dir: dir}
}

// Path returns the desktop entry location.
func (m *Manager) Path() string {
	return filepath.Join(m.dir, desktopFile)
}

// Enabled reports whether the desktop entry exists.
func (m *Manager) Enabled() bool {
	_, err := os.Stat(m.Path())
	return err == nil
}

// Enable writes the desktop entry pointing at the current executable.
// Idempotent: an existing entry is overwritten.
func (m *Manager) Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't resolve the lumen executable path", "")
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create the autostart directory",
			fmt.Sprintf("Check permissions on %s.", m.dir))
	}

	entry := fmt.Sprintf(desktopTemplate, exe)
	if err := os.WriteFile(m.Path(), []byte(entry), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write the autostart entry",
			fmt.Sprintf("Check permissions on %s.", m.dir))
	}
	return nil
}

// Disable removes the desktop entry. Removing an absent entry is a no-op.
func (m *Manager) Disable() error {
	err := os.Remove(m.Path())
	if err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't remove the autostart entry",
			fmt.Sprintf("Check permissions on %s.", m.dir))
	}
	return nil
}
