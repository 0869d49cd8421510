package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenctl/lumen/internal/errors"
	"github.com/lumenctl/lumen/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync [on|off|toggle]",
	Short: "Control synchronized brightness",
	Long: `Control sync mode. With no argument the current state is printed.

Turning sync on re-applies the saved global level to every monitor. Turning
it off leaves levels where they are; later changes are per-monitor again.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := ""
		if len(args) == 1 {
			action = args[0]
		}
		return syncCommand(action)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

// SyncOutput is the JSON shape for the sync command.
type SyncOutput struct {
	SyncMode bool `json:"sync_mode"`
}

func syncCommand(action string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Store.Flush()

	var on bool
	switch action {
	case "":
		on = app.Controller.SyncMode()
	case "toggle":
		on = app.Controller.ToggleSyncMode()
	case "on":
		if !app.Controller.SyncMode() {
			on = app.Controller.ToggleSyncMode()
		} else {
			on = true
		}
	case "off":
		if app.Controller.SyncMode() {
			on = app.Controller.ToggleSyncMode()
		} else {
			on = false
		}
	default:
		return errors.New(errors.ErrConfig,
			"Unknown sync action: "+action,
			"Use 'on', 'off', 'toggle', or no argument to show the state.")
	}

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, SyncOutput{SyncMode: on})
	}
	if on {
		fmt.Printf("%s sync mode on\n", ui.SymbolLinked)
	} else {
		fmt.Println("sync mode off")
	}
	return nil
}
