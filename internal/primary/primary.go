// Package primary detects which connected output the window system treats as
// the primary monitor, by parsing xrandr's query output. Detection failures
// are soft: callers fall back to physical index 0.
package primary

import (
	"bufio"
	"os/exec"
	"strings"

	"github.com/lumenctl/lumen/internal/errors"
)

// runner executes xrandr and returns its stdout. Injectable for tests.
type runner func() ([]byte, error)

// Detector finds the primary monitor's physical index. It implements
// backend.PrimaryDetector.
type Detector struct {
	run runner
}

// NewDetector creates a detector backed by the system xrandr binary.
func NewDetector() *Detector {
	return &Detector{run: func() ([]byte, error) {
		return exec.Command("xrandr", "--query").Output()
	}}
}

// NewDetectorWithOutput creates a detector that parses fixed output instead
// of invoking xrandr.
func NewDetectorWithOutput(output string) *Detector {
	return &Detector{run: func() ([]byte, error) {
		return []byte(output), nil
	}}
}

// PrimaryIndex returns the physical index of the primary output among the
// connected outputs, in xrandr listing order. An error means detection is
// unavailable, not that there is no primary.
func (d *Detector) PrimaryIndex() (int, error) {
	out, err := d.run()
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't query the display server for the primary monitor",
			"Make sure xrandr is installed and a display session is running.")
	}
	return parsePrimaryIndex(string(out))
}

// parsePrimaryIndex scans xrandr --query output. Output lines look like:
//
//	DP-1 connected primary 2560x1440+0+0 ...
//	HDMI-1 connected 1920x1080+2560+0 ...
//	DP-2 disconnected ...
//
// Only connected outputs count toward the physical index space.
func parsePrimaryIndex(output string) (int, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	index := 0
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] != "connected" {
			continue
		}
		if len(fields) >= 3 && fields[2] == "primary" {
			return index, nil
		}
		index++
	}
	return 0, errors.New(errors.ErrExec,
		"No primary monitor reported by the display server",
		"Set one with: xrandr --output <name> --primary")
}
