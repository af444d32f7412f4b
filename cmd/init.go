package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bascanada/logexplorer/pkg/datasource"
	httpPkg "github.com/bascanada/logexplorer/pkg/http"
	"github.com/bascanada/logexplorer/pkg/log"
	"github.com/bascanada/logexplorer/pkg/log/printer"
	"github.com/bascanada/logexplorer/pkg/prefs"
)

var (
	configPath string
	prefsPath  string
	colorMode  string

	logger log.MyLoggerOptions

	debugHttp bool
)

func onCommandStart(cmd *cobra.Command, args []string) {
	if err := log.ConfigureMyLogger(&logger); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	// enable HTTP debug logs when requested
	httpPkg.SetDebug(debugHttp)
	printer.InitColorState(colorSetting(colorMode), os.Stdout)
}

// colorSetting maps the --color flag to an explicit choice, nil for auto.
func colorSetting(mode string) *bool {
	var enabled bool
	switch strings.ToLower(mode) {
	case "always", "true", "yes":
		enabled = true
	case "never", "false", "no":
		enabled = false
	default:
		return nil
	}
	return &enabled
}

func loadConfig(path string) (*datasource.Config, error) {
	cfg, err := datasource.LoadConfig(path)
	if err != nil {
		errorMsg := "failed to load datasource config"
		switch {
		case errors.Is(err, datasource.ErrConfigParse):
			errorMsg = "invalid configuration file format"
		case errors.Is(err, datasource.ErrNoDatasources):
			errorMsg = "configuration missing 'datasources' section"
		}
		return nil, fmt.Errorf("%s: %w", errorMsg, err)
	}
	return cfg, nil
}

func openPrefs() (*prefs.FileStore, error) {
	path := prefsPath
	if path == "" {
		path = prefs.DefaultPath()
	}
	return prefs.Open(path)
}

// datasourceCompletion completes datasource ids from the loaded config.
func datasourceCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := datasource.LoadConfig(configPath)
	if err != nil {
		// Cobra will report the error to the user's shell.
		return nil, cobra.ShellCompDirectiveError
	}

	var suggestions []string
	for _, id := range cfg.IDs() {
		ds := cfg.Datasources[id]
		// Format: "value\tdescription"
		suggestions = append(suggestions, fmt.Sprintf("%s\t%s %s", id, ds.Type, target(ds)))
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// target is the file path or URL a datasource reads from.
func target(ds datasource.Datasource) string {
	if ds.Path != "" {
		return ds.Path
	}
	return ds.URL
}

// fail prints err and exits with status 1.
func fail(err error) {
	printer.Error(os.Stderr, err)
	os.Exit(1)
}
