package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lumenctl/lumen/internal/ui"
)

// StatusOutput is the JSON shape for the status command.
type StatusOutput struct {
	SyncMode         bool           `json:"sync_mode"`
	GlobalBrightness int            `json:"global_brightness"`
	Monitors         []MonitorLevel `json:"monitors"`
}

// MonitorLevel pairs a monitor with its live brightness reading.
type MonitorLevel struct {
	MonitorOutput
	Brightness *int `json:"brightness,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show brightness for every monitor",
	Long:  `Show the live brightness level of every monitor plus the sync mode state.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand() error {
	app, err := newApp()
	if err != nil {
		return err
	}

	records := app.Backend.Monitors()

	if MachineMode() {
		out := StatusOutput{
			SyncMode:         app.Store.SyncMode(),
			GlobalBrightness: app.Store.GlobalBrightness(),
			Monitors:         make([]MonitorLevel, len(records)),
		}
		for i, rec := range records {
			level := MonitorLevel{MonitorOutput: monitorOutput(rec)}
			if value, ok := app.Controller.MonitorBrightness(rec.ID); ok {
				level.Brightness = &value
			}
			out.Monitors[i] = level
		}
		return WriteJSONSuccess(os.Stdout, out)
	}

	if len(records) == 0 {
		fmt.Println("No monitors detected")
		return nil
	}

	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	bold := lipgloss.NewStyle().Bold(true)

	if app.Store.SyncMode() {
		fmt.Printf("%s sync mode on, global level %s\n\n",
			ui.SymbolLinked, bold.Render(formatPercent(app.Store.GlobalBrightness())))
	} else {
		fmt.Printf("%s sync mode off\n\n", muted.Render(ui.SymbolLinked))
	}

	for _, rec := range records {
		name := rec.DisplayName
		if rec.IsPrimary {
			name += " " + ui.SymbolPrimary
		}

		value, ok := app.Controller.MonitorBrightness(rec.ID)
		if !ok {
			fmt.Printf("  %-14s %s %s\n", name, muted.Render(rec.ID),
				muted.Render("brightness unavailable"))
			continue
		}
		fmt.Printf("  %-14s %s %s %4s\n", name, muted.Render(rec.ID),
			ui.RenderBar(value, ui.DefaultBarWidth), formatPercent(value))
	}
	return nil
}
