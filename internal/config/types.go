package config

import "time"

// CurrentConfigVersion is the schema version for the tool config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the lumen.yaml tool configuration. This is distinct from
// the persisted brightness settings (internal/settings): the tool config
// describes the machine (devices, notifier, index mapping), while settings
// hold mutable user state.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Monitors  MonitorsConfig  `yaml:"monitors" mapstructure:"monitors"`
	DDC       DDCConfig       `yaml:"ddc" mapstructure:"ddc"`
	Backlight BacklightConfig `yaml:"backlight" mapstructure:"backlight"`
	Notifier  string          `yaml:"notifier" mapstructure:"notifier"`
	Settings  SettingsConfig  `yaml:"settings" mapstructure:"settings"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// MonitorsConfig controls how hardware enumeration maps to logical indices.
type MonitorsConfig struct {
	// SwapFirstTwo swaps logical indices 0 and 1 when mapping to physical
	// indices. This is a fixed layout fix for setups where the hardware
	// enumerates the external monitor before the built-in panel; it is
	// configuration, not detection.
	SwapFirstTwo bool `yaml:"swap_first_two" mapstructure:"swap_first_two"`
}

// DDCConfig controls the DDC/CI protocol provider.
type DDCConfig struct {
	// DeviceGlob matches the i2c device nodes probed for DDC/CI monitors.
	DeviceGlob string `yaml:"device_glob" mapstructure:"device_glob"`

	// SettleDelay is the pause between a DDC write and the follow-up read.
	// The DDC/CI spec requires at least 40ms.
	SettleDelay time.Duration `yaml:"settle_delay" mapstructure:"settle_delay"`
}

// BacklightConfig controls the sysfs backlight provider.
type BacklightConfig struct {
	// Root is the sysfs class directory enumerated for backlight devices.
	Root string `yaml:"root" mapstructure:"root"`
}

// SettingsConfig controls where and how user settings persist.
type SettingsConfig struct {
	// Path overrides the settings file location. Empty means
	// ~/.config/lumen/settings.json.
	Path string `yaml:"path" mapstructure:"path"`

	// Debounce is how long to coalesce rapid settings changes before
	// writing to disk.
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// Notifier selection values.
const (
	NotifierUevent = "uevent"
	NotifierDBus   = "dbus"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Monitors: MonitorsConfig{
			SwapFirstTwo: true,
		},
		DDC: DDCConfig{
			DeviceGlob:  "/dev/i2c-*",
			SettleDelay: 50 * time.Millisecond,
		},
		Backlight: BacklightConfig{
			Root: "/sys/class/backlight",
		},
		Notifier: NotifierUevent,
		Settings: SettingsConfig{
			Debounce: time.Second,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
