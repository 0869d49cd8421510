package config

import (
	"os"
	"path/filepath"

	"github.com/lumenctl/lumen/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigDirName is the directory under the user config dir.
	ConfigDirName = "lumen"
	// ConfigFileName is the tool config file name.
	ConfigFileName = "lumen.yaml"
)

// Load reads the tool config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'lumen init' to create one, or specify it with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the tool config file using the search order:
//  1. Explicit path (from --config flag)
//  2. $XDG_CONFIG_HOME/lumen/lumen.yaml (or ~/.config/lumen/lumen.yaml)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if not
// found. Commands like 'lumen init' and plain reads work without a config.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Dir returns the lumen config directory (~/.config/lumen), honoring
// XDG_CONFIG_HOME.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine user config directory",
			"Set HOME or XDG_CONFIG_HOME")
	}
	return filepath.Join(base, ConfigDirName), nil
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if cfg.Notifier != NotifierUevent && cfg.Notifier != NotifierDBus {
		return nil, errors.New(errors.ErrConfig,
			"Unknown notifier: "+cfg.Notifier,
			"Use 'uevent' or 'dbus'")
	}

	return cfg, nil
}

// setDefaults configures viper defaults so partial configs merge cleanly.
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", CurrentConfigVersion)
	v.SetDefault("monitors.swap_first_two", true)
	v.SetDefault("ddc.device_glob", "/dev/i2c-*")
	v.SetDefault("ddc.settle_delay", "50ms")
	v.SetDefault("backlight.root", "/sys/class/backlight")
	v.SetDefault("notifier", NotifierUevent)
	v.SetDefault("settings.debounce", "1s")
	v.SetDefault("output.color", "auto")
}
