// Package ddc implements the DDC/CI brightness protocol over Linux i2c-dev
// device nodes. It is the primary enumeration source: the order of responsive
// i2c buses defines the physical index space for external monitors.
package ddc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/lumenctl/lumen/internal/logger"
)

// DefaultDeviceGlob matches the i2c device nodes probed for monitors.
const DefaultDeviceGlob = "/dev/i2c-*"

// defaultSettleDelay is the pause between a DDC write and the follow-up
// read. The DDC/CI spec mandates at least 40ms.
const defaultSettleDelay = 50 * time.Millisecond

// Provider talks DDC/CI to external monitors. It implements backend.Provider.
type Provider struct {
	glob   string
	settle time.Duration
	log    logger.Logger

	mu      sync.Mutex
	devices []string // device paths from the last List, in physical order
}

// New creates a DDC/CI provider probing device nodes matched by glob.
// A zero settle delay selects the default.
func New(glob string, settle time.Duration, log logger.Logger) *Provider {
	if glob == "" {
		glob = DefaultDeviceGlob
	}
	if settle <= 0 {
		settle = defaultSettleDelay
	}
	if log == nil {
		log = logger.NewEnvLogger("[ddc]")
	}
	return &Provider{glob: glob, settle: settle, log: log}
}

// Name implements backend.Provider.
func (p *Provider) Name() string { return "ddc" }

// List probes every matching i2c device node with a luminance read and
// returns the responsive ones in bus-number order. The result is cached for
// subsequent Get/Set index resolution.
func (p *Provider) List() ([]string, error) {
	paths, err := filepath.Glob(p.glob)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", p.glob, err)
	}
	sortByBusNumber(paths)

	var devices []string
	for _, path := range paths {
		if _, err := p.readLuminance(path); err != nil {
			p.log.Debug("%s: not a DDC/CI monitor: %v", path, err)
			continue
		}
		devices = append(devices, path)
	}

	p.mu.Lock()
	p.devices = devices
	p.mu.Unlock()

	return append([]string(nil), devices...), nil
}

// Get implements backend.Provider.
func (p *Provider) Get(physical int) (int, error) {
	path, err := p.device(physical)
	if err != nil {
		return 0, err
	}
	return p.readLuminance(path)
}

// Set implements backend.Provider.
func (p *Provider) Set(physical, value int) error {
	path, err := p.device(physical)
	if err != nil {
		return err
	}
	return p.writeLuminance(path, value)
}

// device resolves a physical index against the last enumeration.
func (p *Provider) device(physical int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if physical < 0 || physical >= len(p.devices) {
		return "", fmt.Errorf("ddc: no monitor at physical index %d", physical)
	}
	return p.devices[physical], nil
}

// readLuminance runs one Get VCP transaction and converts the reply to a
// percentage. Monitors need a settle delay between the request write and the
// reply read.
func (p *Provider) readLuminance(path string) (int, error) {
	f, err := p.open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if _, err := f.Write(getVCPRequest(vcpLuminance)); err != nil {
		return 0, fmt.Errorf("ddc request to %s: %w", path, err)
	}

	time.Sleep(p.settle)

	buf := make([]byte, 12)
	n, err := f.Read(buf)
	if err != nil {
		return 0, fmt.Errorf("ddc reply from %s: %w", path, err)
	}

	reply, err := parseVCPReply(buf[:n])
	if err != nil {
		return 0, fmt.Errorf("ddc reply from %s: %w", path, err)
	}
	if reply.feature != vcpLuminance {
		return 0, fmt.Errorf("ddc reply from %s: wrong feature 0x%02x", path, reply.feature)
	}

	return percentFromRaw(reply.current, reply.max)
}

// writeLuminance scales the percentage to the monitor's raw range and runs
// one Set VCP transaction.
func (p *Provider) writeLuminance(path string, percent int) error {
	// Read first to learn the raw maximum; many monitors use 100 but some
	// expose a wider luminance range.
	f, err := p.open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(getVCPRequest(vcpLuminance)); err != nil {
		return fmt.Errorf("ddc request to %s: %w", path, err)
	}
	time.Sleep(p.settle)

	buf := make([]byte, 12)
	n, err := f.Read(buf)
	if err != nil {
		return fmt.Errorf("ddc reply from %s: %w", path, err)
	}
	reply, err := parseVCPReply(buf[:n])
	if err != nil {
		return fmt.Errorf("ddc reply from %s: %w", path, err)
	}

	raw := rawFromPercent(percent, reply.max)
	if _, err := f.Write(setVCPRequest(vcpLuminance, raw)); err != nil {
		return fmt.Errorf("ddc set on %s: %w", path, err)
	}

	// Give the monitor time to apply before any follow-up transaction.
	time.Sleep(p.settle)
	return nil
}

// i2cSlave is the kernel's I2C_SLAVE ioctl request from linux/i2c-dev.h;
// x/sys/unix does not export the i2c-dev constants.
const i2cSlave = 0x0703

// open opens an i2c device node and addresses the DDC/CI slave.
func (p *Provider) open(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, displayAddr); err != nil {
		f.Close()
		return nil, fmt.Errorf("address DDC slave on %s: %w", path, err)
	}
	return f, nil
}

// sortByBusNumber orders /dev/i2c-N paths numerically so enumeration order
// is stable across runs (lexical order would put i2c-10 before i2c-2).
func sortByBusNumber(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		return busNumber(paths[i]) < busNumber(paths[j])
	})
}

func busNumber(path string) int {
	idx := strings.LastIndex(path, "-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(path[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
