// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bascanada/logexplorer/pkg/datasource"
	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/log"
	"github.com/bascanada/logexplorer/pkg/tui"
)

var exploreFlags explorationFlags

var exploreCmd = &cobra.Command{
	Use:     "explore",
	Aliases: []string{"tui", "ui"},
	Short:   "Launch the interactive log exploration",
	Long: `Launch an interactive Terminal User Interface exploring one datasource.

Without filters the exploration starts on the service selector; once a
service is picked the logs are shown and can be refined with patterns,
field filters and a line filter. The share link of the last state is
printed on exit.

Examples:
  # Pick a service of the preferred datasource
  logexplorer explore

  # Start directly on the logs of a service
  logexplorer explore -d loki -f service_name=api --last 1h

  # Restore a shared exploration
  logexplorer explore --url 'logexplorer://explore?mode=logs&patterns=...'`,
	Run: func(cmd *cobra.Command, args []string) {
		link, err := runExplore(&exploreFlags)
		if err != nil {
			fail(err)
		}
		if link != "" {
			fmt.Println(link)
		}
	},
}

func init() {
	exploreFlags.register(exploreCmd)
}

// runExplore runs the TUI until the user quits and returns the share link
// of the final state.
func runExplore(flags *explorationFlags) (string, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return "", err
	}
	store, err := openPrefs()
	if err != nil {
		return "", err
	}

	var last explore.URLValues
	e, err := flags.build(cfg, store, func(v explore.URLValues) {
		log.Debug("url state %s", explore.EncodeURLValues(v))
		last = v
	})
	if err != nil {
		return "", err
	}

	id, ds, src, err := openSource(cfg, e)
	if err != nil {
		return "", err
	}

	deactivate := e.Activate()
	defer deactivate()

	model := tui.New(e, src, id)
	model.Limit = flags.limitFor(ds)

	if strings.EqualFold(ds.Type, datasource.TypeFile) {
		w, err := datasource.NewWatcher(ds.Path)
		if err != nil {
			log.Warn("watch %s: %v", ds.Path, err)
		} else {
			defer func() { _ = w.Close() }()
			model.Changes = w.Changes()
		}
	}

	// Create the bubbletea program
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return "", fmt.Errorf("running TUI: %w", err)
	}

	if last == nil {
		return "", nil
	}
	fmt.Fprintln(os.Stderr, "Share this exploration with:")
	return explore.ShareURL(last), nil
}
