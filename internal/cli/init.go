package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lumenctl/lumen/internal/config"
	"github.com/lumenctl/lumen/internal/errors"
	"github.com/lumenctl/lumen/internal/ui"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the lumen configuration file",
	Long: `Create ~/.config/lumen/lumen.yaml interactively. Existing files are
preserved unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(InitOptions{Force: initForce, NonInteractive: MachineMode()})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Force          bool
	NonInteractive bool // skip prompts, write defaults
}

func initCommand(opts InitOptions) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	if !opts.NonInteractive {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Swap the first two monitors?").
					Description("Enable when the hardware lists your external monitor before the built-in panel.").
					Value(&cfg.Monitors.SwapFirstTwo),
				huh.NewSelect[string]().
					Title("Topology change notifier").
					Description("uevent works everywhere; dbus needs a GNOME session.").
					Options(
						huh.NewOption("Kernel uevents (recommended)", config.NotifierUevent),
						huh.NewOption("GNOME Mutter DBus signal", config.NotifierDBus),
					).
					Value(&cfg.Notifier),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Run with --json for non-interactive defaults")
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't serialize the configuration", "")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create the config directory",
			fmt.Sprintf("Check permissions on %s.", dir))
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write the config file",
			fmt.Sprintf("Check permissions on %s.", configPath))
	}

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, map[string]string{"path": configPath})
	}
	fmt.Printf("%s wrote %s\n", ui.SymbolSuccess, configPath)
	return nil
}
