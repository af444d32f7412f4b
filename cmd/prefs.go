package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bascanada/logexplorer/pkg/datasource"
	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/log/printer"
	"github.com/bascanada/logexplorer/pkg/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage stored preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a preference, the preferred datasource by default",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openPrefs()
		if err != nil {
			fail(err)
		}
		key := explore.DatasourcePreferenceKey
		if len(args) == 1 {
			key = args[0]
		}
		if err := RunPrefsGet(os.Stdout, store, key); err != nil {
			fail(err)
		}
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a preference",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openPrefs()
		if err != nil {
			fail(err)
		}
		if err := store.Set(args[0], args[1]); err != nil {
			fail(err)
		}
		fmt.Printf("%s=%s saved to %s\n", args[0], args[1], store.Path())
	},
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored preferences",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openPrefs()
		if err != nil {
			fail(err)
		}
		for _, k := range store.Keys() {
			v, _ := store.Get(k)
			fmt.Printf("%s=%s\n", k, v)
		}
	},
}

var prefsSelectCmd = &cobra.Command{
	Use:               "select [datasource]",
	Short:             "Choose the preferred datasource",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: datasourceCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fail(err)
		}
		store, err := openPrefs()
		if err != nil {
			fail(err)
		}

		var choice string
		if len(args) == 1 {
			choice = args[0]
		} else if choice, err = promptDatasource(cfg, store); err != nil {
			fail(err)
		}

		if err := RunPrefsSelect(cfg, store, choice); err != nil {
			fail(err)
		}
		fmt.Printf("Preferred datasource is now \"%s\".\n", printer.ColorDatasource(choice))
	},
}

// RunPrefsGet prints the value stored under key.
func RunPrefsGet(w io.Writer, store prefs.Store, key string) error {
	v, ok := store.Get(key)
	if !ok {
		return fmt.Errorf("preference '%s' is not set", key)
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

// RunPrefsSelect makes id the preferred datasource. The choice goes through
// the datasource variable, which persists it.
func RunPrefsSelect(cfg *datasource.Config, store prefs.Store, id string) error {
	if _, err := cfg.Get(id); err != nil {
		return err
	}
	vars := explore.NewVariables(explore.VariableOptions{
		DefaultDatasource: cfg.DefaultID(),
		Preferences:       store,
	})
	if vars.Datasource.Value() == id {
		// no change means no notification, store it anyway
		return store.Set(explore.DatasourcePreferenceKey, id)
	}
	vars.Datasource.ChangeValueTo(id)
	if v, _ := store.Get(explore.DatasourcePreferenceKey); v != id {
		return fmt.Errorf("could not persist datasource preference")
	}
	return nil
}

func promptDatasource(cfg *datasource.Config, store prefs.Store) (string, error) {
	choice := cfg.DefaultID()
	if v, ok := store.Get(explore.DatasourcePreferenceKey); ok {
		choice = v
	}

	var options []huh.Option[string]
	for _, id := range cfg.IDs() {
		ds := cfg.Datasources[id]
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s %s)", id, ds.Type, target(ds)), id))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which datasource should explorations use?").
				Description("Used when --datasource is not given").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}

func init() {
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsListCmd)
	prefsCmd.AddCommand(prefsSelectCmd)
}
