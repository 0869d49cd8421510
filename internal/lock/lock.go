// Package lock prevents two watch daemons from fighting over the same
// monitors. It uses mkdir as the atomic primitive: the lock is a directory,
// and mkdir fails if it already exists.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lumenctl/lumen/internal/errors"
)

// Lock represents the acquired daemon lock.
type Lock struct {
	Dir  string    // the lock directory
	Info *LockInfo // info about the holder (us)
}

// infoFileName holds the holder metadata inside the lock directory.
const infoFileName = "info.json"

// Acquire takes the daemon lock in dir. A lock whose holder process is gone
// is stale and gets replaced. A live holder makes Acquire fail immediately;
// brightness daemons have no business queueing behind each other.
func Acquire(dir string) (*Lock, error) {
	infoFile := filepath.Join(dir, infoFileName)

	for attempt := 0; attempt < 2; attempt++ {
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return writeHolder(dir, infoFile)
		}
		if !os.IsExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrExec,
				"Couldn't create the daemon lock",
				fmt.Sprintf("Check permissions on %s.", filepath.Dir(dir)))
		}

		holder := readHolder(infoFile)
		if holder != nil && processAlive(holder.PID) {
			return nil, errors.New(errors.ErrExec,
				"Another lumen watch daemon is already running",
				fmt.Sprintf("Held by %s for %s. Stop it first.",
					holder.String(), holder.Age().Round(time.Second)))
		}

		// Holder is gone (or unreadable): the lock is stale. Remove it and
		// retry the mkdir once.
		if err := os.RemoveAll(dir); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrExec,
				"Couldn't remove a stale daemon lock",
				fmt.Sprintf("Remove %s by hand.", dir))
		}
	}

	return nil, errors.New(errors.ErrExec,
		"Couldn't acquire the daemon lock",
		"Another daemon keeps racing for it; try again.")
}

// Release removes the lock directory. Safe to call once per acquired lock.
func (l *Lock) Release() error {
	if err := os.RemoveAll(l.Dir); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't release the daemon lock",
			fmt.Sprintf("Remove %s by hand.", l.Dir))
	}
	return nil
}

// DefaultDir returns the lock location, preferring the user runtime dir.
func DefaultDir() string {
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		return filepath.Join(runtime, "lumen.lock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("lumen-%d.lock", os.Getuid()))
}

func writeHolder(dir, infoFile string) (*Lock, error) {
	info := NewLockInfo()
	data, err := info.Marshal()
	if err != nil {
		os.RemoveAll(dir)
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't serialize the lock holder info", "")
	}
	if err := os.WriteFile(infoFile, data, 0644); err != nil {
		os.RemoveAll(dir)
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't write the lock holder info",
			fmt.Sprintf("Check permissions on %s.", dir))
	}
	return &Lock{Dir: dir, Info: info}, nil
}

// readHolder parses the holder info, returning nil when missing or corrupt.
func readHolder(infoFile string) *LockInfo {
	data, err := os.ReadFile(infoFile)
	if err != nil {
		return nil
	}
	info, err := ParseLockInfo(data)
	if err != nil {
		return nil
	}
	return info
}

// processAlive reports whether a PID refers to a running process we can see.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 performs the permission and existence checks only.
	err = proc.Signal(syscall.Signal(0))
	return err == nil || err == syscall.EPERM
}
