package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumenctl/lumen/internal/lock"
	"github.com/lumenctl/lumen/internal/manager"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the brightness daemon in the foreground",
	Long: `Restore the saved brightness levels, then keep them applied across
monitor hotplugs until interrupted. This is the command the autostart entry
runs at login.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchCommand() error {
	l, err := lock.Acquire(lock.DefaultDir())
	if err != nil {
		return err
	}
	defer l.Release()

	app, err := newApp()
	if err != nil {
		return err
	}

	notifier, err := app.newNotifier()
	if err != nil {
		return err
	}
	defer notifier.Close()

	mgr := manager.New(app.Backend, notifier, app.Log)

	app.Controller.RestoreLastBrightness()
	app.Controller.RecordTopology()

	err = mgr.ListenDisplayChange(func() {
		// The manager already refreshed; re-apply levels to whatever set of
		// monitors is now connected.
		app.Controller.RestoreLastBrightness()
		app.Controller.RecordTopology()
	})
	if err != nil {
		return err
	}

	if !MachineMode() {
		fmt.Printf("watching %d monitor(s), press Ctrl-C to stop\n", mgr.MonitorCount())
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs

	mgr.StopListening()
	if err := app.Store.Flush(); err != nil {
		app.Log.Error("final settings flush failed: %v", err)
	}

	if !MachineMode() {
		fmt.Println("stopped")
	}
	return nil
}
