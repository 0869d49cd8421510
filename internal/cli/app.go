package cli

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/lumenctl/lumen/internal/backend"
	"github.com/lumenctl/lumen/internal/backlight"
	"github.com/lumenctl/lumen/internal/config"
	"github.com/lumenctl/lumen/internal/controller"
	"github.com/lumenctl/lumen/internal/ddc"
	"github.com/lumenctl/lumen/internal/errors"
	"github.com/lumenctl/lumen/internal/logger"
	"github.com/lumenctl/lumen/internal/notify"
	"github.com/lumenctl/lumen/internal/primary"
	"github.com/lumenctl/lumen/internal/settings"
)

// App holds the wired component stack shared by the commands.
type App struct {
	Config     *config.Config
	Backend    *backend.Backend
	Store      *settings.Store
	Controller *controller.Controller
	Log        logger.Logger
}

// newApp loads the tool config and builds the full hardware stack.
func newApp() (*App, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}

	applyColorMode(cfg.Output.Color)

	log := logger.Default()

	providers := []backend.Provider{
		ddc.New(cfg.DDC.DeviceGlob, cfg.DDC.SettleDelay, log),
		backlight.New(cfg.Backlight.Root, log),
	}

	b := backend.New(providers, primary.NewDetector(),
		backend.WithLogger(log),
		backend.WithSwapFirstTwo(cfg.Monitors.SwapFirstTwo),
	)

	store, err := settings.NewStore(settingsPath(cfg), cfg.Settings.Debounce, log)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Backend:    b,
		Store:      store,
		Controller: controller.New(b, store, log),
		Log:        log,
	}, nil
}

// newStore opens the settings store without probing any hardware, for
// commands that only touch persisted state.
func newStore() (*settings.Store, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	return settings.NewStore(settingsPath(cfg), cfg.Settings.Debounce, logger.Default())
}

// settingsPath resolves the settings file location, preferring the config
// override.
func settingsPath(cfg *config.Config) string {
	if cfg.Settings.Path != "" {
		return cfg.Settings.Path
	}
	dir, err := config.Dir()
	if err != nil {
		// No config dir at all; keep settings next to the binary's cwd
		// rather than failing every read command.
		return "lumen-settings.json"
	}
	return filepath.Join(dir, "settings.json")
}

// newNotifier builds the configured topology notifier.
func (a *App) newNotifier() (notify.Notifier, error) {
	switch a.Config.Notifier {
	case config.NotifierDBus:
		return notify.NewDBusNotifier()
	case config.NotifierUevent:
		return notify.NewUeventNotifier()
	}
	return nil, errors.New(errors.ErrConfig,
		"Unknown notifier: "+a.Config.Notifier,
		"Use 'uevent' or 'dbus'")
}

// applyColorMode disables styling for piped output or when configured off.
func applyColorMode(mode string) {
	switch mode {
	case "always":
		return
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}

// findMonitor validates a monitor ID against the current enumeration.
func (a *App) findMonitor(id string) (backend.MonitorRecord, error) {
	logical, ok := backend.ParseMonitorID(id)
	if !ok {
		return backend.MonitorRecord{}, errors.New(errors.ErrIndex,
			"Malformed monitor ID: "+id,
			"Monitor IDs look like MONITOR_0; run 'lumen list' to see them.")
	}
	rec, ok := a.Backend.MonitorInfo(logical)
	if !ok {
		return backend.MonitorRecord{}, errors.New(errors.ErrIndex,
			"No monitor with ID "+id,
			"Run 'lumen list' to see the connected monitors.")
	}
	return rec, nil
}
