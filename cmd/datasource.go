package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bascanada/logexplorer/pkg/datasource"
	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/prefs"
)

var datasourceCmd = &cobra.Command{
	Use:     "datasource",
	Aliases: []string{"ds"},
	Short:   "Inspect configured datasources",
}

var listDatasourcesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured datasources",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fail(err)
		}
		store, err := openPrefs()
		if err != nil {
			fail(err)
		}
		if err := RunDatasourceList(os.Stdout, cfg, store); err != nil {
			fail(err)
		}
	},
}

var valuesDatasourceCmd = &cobra.Command{
	Use:               "values <datasource> [label]",
	Short:             "List the values of a label, the starting label by default",
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: datasourceCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fail(err)
		}
		label := cfg.StartingLabel
		if label == "" {
			label = explore.DefaultStartingLabel
		}
		if len(args) == 2 {
			label = args[1]
		}
		ds, err := cfg.Get(args[0])
		if err != nil {
			fail(err)
		}
		src, err := datasource.Open(ds)
		if err != nil {
			fail(err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		values, err := src.LabelValues(ctx, label)
		if err != nil {
			fail(err)
		}
		for _, v := range values {
			fmt.Println(v)
		}
	},
}

// RunDatasourceList prints the datasources, marking the preferred one.
func RunDatasourceList(w io.Writer, cfg *datasource.Config, store prefs.Store) error {
	current := cfg.DefaultID()
	if v, ok := store.Get(explore.DatasourcePreferenceKey); ok {
		current = v
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "CURRENT\tNAME\tTYPE\tTARGET")
	for _, name := range cfg.IDs() {
		ds := cfg.Datasources[name]
		prefix := " "
		if name == current {
			prefix = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", prefix, name, ds.Type, target(ds))
	}
	return tw.Flush()
}

func init() {
	datasourceCmd.AddCommand(listDatasourcesCmd)
	datasourceCmd.AddCommand(valuesDatasourceCmd)
}
