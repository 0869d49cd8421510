package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumenctl/lumen/internal/errors"
)

var setMonitor string

var setCmd = &cobra.Command{
	Use:   "set <percent>",
	Short: "Set brightness",
	Long: `Set brightness to a 0-100 percentage. Without --monitor the level is
applied to every monitor (and becomes the global level); with --monitor only
that one monitor changes, even when sync mode is on.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCommand(args[0], setMonitor)
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVar(&setMonitor, "monitor", "", "monitor ID (e.g. MONITOR_0)")
}

// SetOutput is the JSON shape for the set command.
type SetOutput struct {
	ID         string `json:"id,omitempty"`
	Brightness int    `json:"brightness"`
	Applied    bool   `json:"applied"`
}

func setCommand(arg, monitorID string) error {
	value, err := parsePercent(arg)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Store.Flush()

	if monitorID == "" {
		app.Controller.SetGlobalBrightness(value)
		if MachineMode() {
			return WriteJSONSuccess(os.Stdout, SetOutput{Brightness: value, Applied: true})
		}
		fmt.Printf("all monitors set to %s\n", formatPercent(value))
		return nil
	}

	rec, err := app.findMonitor(monitorID)
	if err != nil {
		return err
	}

	applied := app.Controller.SetMonitorBrightness(rec.ID, value)
	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, SetOutput{ID: rec.ID, Brightness: value, Applied: applied})
	}
	if !applied {
		return errors.New(errors.ErrHardware,
			"Couldn't set brightness for "+rec.ID,
			"Nothing was saved. Run 'lumen list' to check the monitor's brightness support.")
	}
	fmt.Printf("%s set to %s\n", rec.ID, formatPercent(value))
	return nil
}

// parsePercent accepts "70" or "70%".
func parsePercent(arg string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSuffix(arg, "%"))
	if err != nil {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a brightness percentage", arg),
			"Use a number between 0 and 100, e.g. 'lumen set 70'.")
	}
	return value, nil
}
