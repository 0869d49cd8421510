package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lumenctl/lumen/internal/errors"
	"github.com/lumenctl/lumen/internal/manager"
	"github.com/lumenctl/lumen/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive brightness panel",
	Long: `Open an interactive panel listing every monitor. Adjust levels with the
arrow keys, toggle sync mode with 's', and quit with 'q'. The panel follows
monitor hotplugs live.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tuiCommand()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func tuiCommand() error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Store.Flush()

	mgr := newTUIManager(app)
	if mgr.notifier != nil {
		defer mgr.notifier.Close()
	}

	model := tui.NewModel(app.Controller, mgr)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Topology changes land in the panel as messages; the manager refreshed
	// the backend before the callback runs.
	if mgr.notifier != nil {
		err = mgr.ListenDisplayChange(func() {
			p.Send(tui.TopologyChangedMsg{})
		})
		if err != nil {
			return err
		}
		defer mgr.StopListening()
	}

	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"The interactive panel crashed", "")
	}
	return nil
}

// tuiManager bundles the manager with its notifier so the command can skip
// listening when no notifier is available.
type tuiManager struct {
	*manager.Manager
	notifier interface{ Close() error }
}

func newTUIManager(app *App) *tuiManager {
	notifier, err := app.newNotifier()
	if err != nil {
		// The panel still works without hotplug events.
		app.Log.Warn("topology notifier unavailable: %v", err)
		return &tuiManager{Manager: manager.New(app.Backend, nil, app.Log)}
	}
	return &tuiManager{
		Manager:  manager.New(app.Backend, notifier, app.Log),
		notifier: notifier,
	}
}
