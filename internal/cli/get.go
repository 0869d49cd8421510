package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenctl/lumen/internal/errors"
)

var getMonitor string

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Read a monitor's brightness",
	Long: `Read the live brightness level of one monitor. Without --monitor the
primary monitor is read.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getCommand(getMonitor)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVar(&getMonitor, "monitor", "", "monitor ID (e.g. MONITOR_0)")
}

// GetOutput is the JSON shape for the get command.
type GetOutput struct {
	ID         string `json:"id"`
	Brightness int    `json:"brightness"`
}

func getCommand(monitorID string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if monitorID == "" {
		monitorID = primaryMonitorID(app)
	}

	rec, err := app.findMonitor(monitorID)
	if err != nil {
		return err
	}

	value, ok := app.Controller.MonitorBrightness(rec.ID)
	if !ok {
		return errors.New(errors.ErrHardware,
			"Couldn't read brightness for "+rec.ID,
			"The monitor may not support brightness control over DDC/CI or sysfs.")
	}

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, GetOutput{ID: rec.ID, Brightness: value})
	}
	fmt.Println(formatPercent(value))
	return nil
}

// primaryMonitorID returns the primary monitor's ID, falling back to
// MONITOR_0 when no records exist.
func primaryMonitorID(app *App) string {
	for _, rec := range app.Backend.Monitors() {
		if rec.IsPrimary {
			return rec.ID
		}
	}
	return "MONITOR_0"
}
