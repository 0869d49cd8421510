package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Re-apply the saved brightness levels",
	Long: `Apply the saved brightness state to the connected monitors: the global
level in sync mode, otherwise each monitor's own saved level. Monitors with
no saved level are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return restoreCommand()
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func restoreCommand() error {
	app, err := newApp()
	if err != nil {
		return err
	}

	app.Controller.RestoreLastBrightness()

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, map[string]int{
			"monitors": app.Backend.MonitorCount(),
		})
	}
	fmt.Printf("restored brightness on %d monitor(s)\n", app.Backend.MonitorCount())
	return nil
}
