package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lumenctl/lumen/internal/backend"
	"github.com/lumenctl/lumen/internal/ui"
)

// MonitorOutput is the JSON shape for one monitor.
type MonitorOutput struct {
	ID                 string `json:"id"`
	LogicalIndex       int    `json:"logical_index"`
	Name               string `json:"name"`
	Primary            bool   `json:"primary"`
	SupportsBrightness bool   `json:"supports_brightness"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected monitors",
	Long:  `List every detected monitor with its stable ID, name, and capabilities.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCommand()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listCommand() error {
	app, err := newApp()
	if err != nil {
		return err
	}

	records := app.Backend.Monitors()

	if MachineMode() {
		out := make([]MonitorOutput, len(records))
		for i, rec := range records {
			out[i] = monitorOutput(rec)
		}
		return WriteJSONSuccess(os.Stdout, out)
	}

	if len(records) == 0 {
		fmt.Println("No monitors detected")
		return nil
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		primaryMark := ""
		if rec.IsPrimary {
			primaryMark = ui.SymbolPrimary
		}
		supports := ui.SymbolSuccess
		if !rec.SupportsBrightness {
			supports = ui.SymbolFail
		}
		rows[i] = []string{rec.ID, rec.DisplayName, primaryMark, supports}
	}

	fmt.Println(ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "ID", Width: 12},
		{Title: "NAME", Width: 14},
		{Title: "PRIMARY", Width: 8},
		{Title: "BRIGHTNESS", Width: 10},
	}, rows))
	return nil
}

func monitorOutput(rec backend.MonitorRecord) MonitorOutput {
	return MonitorOutput{
		ID:                 rec.ID,
		LogicalIndex:       rec.LogicalIndex,
		Name:               rec.DisplayName,
		Primary:            rec.IsPrimary,
		SupportsBrightness: rec.SupportsBrightness,
	}
}

// formatPercent renders a brightness value for human output.
func formatPercent(value int) string {
	return strconv.Itoa(value) + "%"
}
