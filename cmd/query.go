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
	"github.com/bascanada/logexplorer/pkg/log/printer"
)

var (
	queryFlags explorationFlags

	runQuery   bool
	template   string
	jsonOutput bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the query composed from filters and patterns",
	Long: `Build the same exploration as 'explore' without the interface and print
its label expression, field expression, pattern line, full query and share
link. With --run the query is executed on the datasource and the entries are
printed.

Examples:
  logexplorer query -f service_name=api --field level=error --include '<_> timeout <_>'
  logexplorer query -d local -f app=api --line GET --run --last 1h`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runQueryCommand(os.Stdout, &queryFlags); err != nil {
			fail(err)
		}
	},
}

func init() {
	queryFlags.register(queryCmd)
	queryCmd.Flags().BoolVar(&runQuery, "run", false, "execute the query and print the entries")
	queryCmd.Flags().StringVar(&template, "template", "", "go template for each entry, see printer functions")
	queryCmd.Flags().BoolVar(&jsonOutput, "json", false, "print entries as JSON")
}

func runQueryCommand(w io.Writer, flags *explorationFlags) error {
	if !runQuery {
		// the composed query does not need a config
		cfg, _ := datasource.LoadConfig(configPath)
		e, err := flags.build(cfg, nil, nil)
		if err != nil {
			return err
		}
		defer e.Activate()()
		return RunQueryDescribe(w, e)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	e, err := flags.build(cfg, nil, nil)
	if err != nil {
		return err
	}
	defer e.Activate()()

	_, ds, src, err := openSource(cfg, e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return RunQueryEntries(ctx, w, src, datasource.NewRequest(e, time.Now(), flags.limitFor(ds)), template, jsonOutput)
}

// RunQueryDescribe prints the parts of the composed query.
func RunQueryDescribe(w io.Writer, e *explore.Exploration) error {
	vars := e.Variables()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "labels:\t%s\n", vars.LabelFilters().Expression())
	fmt.Fprintf(tw, "fields:\t%s\n", vars.FieldFilters().Expression())
	fmt.Fprintf(tw, "patterns:\t%s\n", vars.Patterns.Value())
	fmt.Fprintf(tw, "query:\t%s\n", e.Query())
	fmt.Fprintf(tw, "link:\t%s\n", explore.ShareURL(e.GetURLState()))
	return tw.Flush()
}

// RunQueryEntries executes req on src and prints the entries.
func RunQueryEntries(ctx context.Context, w io.Writer, src datasource.Source, req datasource.Request, tmpl string, asJSON bool) error {
	entries, err := src.Query(ctx, req)
	if err != nil {
		return err
	}
	if asJSON {
		if entries == nil {
			entries = []datasource.Entry{}
		}
		return printer.PrintJSON(w, entries)
	}

	p, err := printer.NewEntryPrinter(tmpl)
	if err != nil {
		return err
	}
	return p.Print(w, entries)
}
