// Package cli implements the lumen command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Persistent flags shared by every command.
var (
	cfgFile     string
	machineMode bool
)

// MachineMode returns true if machine-readable output is enabled.
func MachineMode() bool {
	return machineMode
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// rootCmd is the base command; subcommands attach in their init functions.
var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Control monitor brightness from the terminal",
	Long: `lumen controls the brightness of every connected monitor, external
(DDC/CI over i2c) and internal (sysfs backlight), behind one stable set of
monitor IDs.

Levels persist between runs. Run 'lumen watch' to keep brightness in sync
across monitor hotplugs, or 'lumen tui' for interactive control.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to lumen.yaml (default ~/.config/lumen/lumen.yaml)")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if machineMode {
			WriteJSONFromError(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
