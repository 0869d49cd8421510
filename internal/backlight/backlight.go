// Package backlight reads and writes brightness through the Linux sysfs
// backlight class. It is the fallback protocol for panels that do not speak
// DDC/CI, typically laptop internal displays.
package backlight

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lumenctl/lumen/internal/logger"
)

// DefaultRoot is the sysfs directory holding one entry per backlight device.
const DefaultRoot = "/sys/class/backlight"

// Provider exposes sysfs backlight devices. It implements backend.Provider.
type Provider struct {
	root string
	log  logger.Logger

	mu      sync.Mutex
	devices []string // device names from the last List, in physical order
}

// New creates a sysfs backlight provider rooted at root. An empty root
// selects the standard sysfs location.
func New(root string, log logger.Logger) *Provider {
	if root == "" {
		root = DefaultRoot
	}
	if log == nil {
		log = logger.NewEnvLogger("[backlight]")
	}
	return &Provider{root: root, log: log}
}

// Name implements backend.Provider.
func (p *Provider) Name() string { return "backlight" }

// List enumerates backlight devices in name order. Devices without a
// readable max_brightness are skipped. The result is cached for subsequent
// Get/Set index resolution.
func (p *Provider) List() ([]string, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", p.root, err)
	}

	var devices []string
	for _, e := range entries {
		name := e.Name()
		if _, err := readSysfsInt(filepath.Join(p.root, name, "max_brightness")); err != nil {
			p.log.Debug("%s: not a usable backlight device: %v", name, err)
			continue
		}
		devices = append(devices, name)
	}
	sort.Strings(devices)

	p.mu.Lock()
	p.devices = devices
	p.mu.Unlock()

	return append([]string(nil), devices...), nil
}

// Get implements backend.Provider.
func (p *Provider) Get(physical int) (int, error) {
	dev, err := p.device(physical)
	if err != nil {
		return 0, err
	}

	current, err := readSysfsInt(filepath.Join(p.root, dev, "brightness"))
	if err != nil {
		return 0, err
	}
	max, err := readSysfsInt(filepath.Join(p.root, dev, "max_brightness"))
	if err != nil {
		return 0, err
	}
	if max <= 0 {
		return 0, fmt.Errorf("backlight %s: invalid max_brightness %d", dev, max)
	}

	pct := current * 100 / max
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	return pct, nil
}

// Set implements backend.Provider. The percentage is scaled against the
// device's max_brightness before writing.
func (p *Provider) Set(physical, value int) error {
	dev, err := p.device(physical)
	if err != nil {
		return err
	}

	max, err := readSysfsInt(filepath.Join(p.root, dev, "max_brightness"))
	if err != nil {
		return err
	}
	if max <= 0 {
		return fmt.Errorf("backlight %s: invalid max_brightness %d", dev, max)
	}

	if value < 0 {
		value = 0
	} else if value > 100 {
		value = 100
	}
	raw := value * max / 100

	path := filepath.Join(p.root, dev, "brightness")
	if err := os.WriteFile(path, []byte(strconv.Itoa(raw)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// device resolves a physical index against the last enumeration.
func (p *Provider) device(physical int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if physical < 0 || physical >= len(p.devices) {
		return "", fmt.Errorf("backlight: no device at physical index %d", physical)
	}
	return p.devices[physical], nil
}

// readSysfsInt reads a single integer from a sysfs attribute file.
func readSysfsInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return n, nil
}
