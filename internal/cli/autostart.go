package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenctl/lumen/internal/autostart"
	"github.com/lumenctl/lumen/internal/errors"
	"github.com/lumenctl/lumen/internal/ui"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart [on|off]",
	Short: "Launch the watch daemon on login",
	Long: `Manage the XDG autostart entry that launches 'lumen watch' when you log
in. With no argument the current state is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := ""
		if len(args) == 1 {
			action = args[0]
		}
		return autostartCommand(action)
	},
}

func init() {
	rootCmd.AddCommand(autostartCmd)
}

// AutostartOutput is the JSON shape for the autostart command.
type AutostartOutput struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

func autostartCommand(action string) error {
	m, err := autostart.New()
	if err != nil {
		return err
	}

	switch action {
	case "":
		// Status only.
	case "on":
		if err := m.Enable(); err != nil {
			return err
		}
		if err := recordAutoStart(true); err != nil {
			return err
		}
	case "off":
		if err := m.Disable(); err != nil {
			return err
		}
		if err := recordAutoStart(false); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrConfig,
			"Unknown autostart action: "+action,
			"Use 'on', 'off', or no argument to show the state.")
	}

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, AutostartOutput{Enabled: m.Enabled(), Path: m.Path()})
	}
	if m.Enabled() {
		fmt.Printf("%s autostart enabled (%s)\n", ui.SymbolSuccess, m.Path())
	} else {
		fmt.Println("autostart disabled")
	}
	return nil
}

// recordAutoStart keeps the persisted settings in step with the desktop
// entry so the preference survives even if the entry is edited by hand.
func recordAutoStart(on bool) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	store.SetAutoStart(on)
	return store.Flush()
}
