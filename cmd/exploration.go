package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/bascanada/logexplorer/pkg/datasource"
	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/explore/filter"
	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/ty"
)

// explorationFlags are the flags shared by the commands building an
// exploration.
type explorationFlags struct {
	datasource  string
	url         string
	mode        string
	labels      []string
	filtersFile string
	fields      []string
	include     []string
	exclude     []string
	line        string
	last        string
	limit       int
}

func (f *explorationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.datasource, "datasource", "d", "", "datasource id, the preferred or default one when empty")
	cmd.Flags().StringVar(&f.url, "url", "", "restore mode and patterns from a share link")
	cmd.Flags().StringVar(&f.mode, "mode", "", "initial mode: start or logs")
	cmd.Flags().StringArrayVarP(&f.labels, "filter", "f", []string{}, "label filter key=value, repeatable")
	cmd.Flags().StringVarP(&f.filtersFile, "filters-file", "F", "", "file of key=value label filters (or a json object)")
	cmd.Flags().StringArrayVar(&f.fields, "field", []string{}, "field filter key=value or key!=value, repeatable")
	cmd.Flags().StringArrayVar(&f.include, "include", []string{}, "include pattern, repeatable")
	cmd.Flags().StringArrayVar(&f.exclude, "exclude", []string{}, "exclude pattern, repeatable")
	cmd.Flags().StringVar(&f.line, "line", "", "keep only lines containing this text")
	cmd.Flags().StringVar(&f.last, "last", "", "relative time range like 15m, 1h or 2d")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum entries per request, the datasource limit when 0")

	_ = cmd.RegisterFlagCompletionFunc("datasource", datasourceCompletion)
	_ = cmd.RegisterFlagCompletionFunc("mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(explore.ModeStart), string(explore.ModeLogs)}, cobra.ShellCompDirectiveNoFileComp
	})
}

// patterns validates and collects the include and exclude flags.
func (f *explorationFlags) patterns() ([]query.AppliedPattern, error) {
	var out []query.AppliedPattern
	add := func(values []string, typ query.PatternType) error {
		for _, p := range values {
			if _, err := query.CompilePattern(p); err != nil {
				return err
			}
			out = append(out, query.AppliedPattern{Pattern: p, Type: typ})
		}
		return nil
	}
	if err := add(f.include, query.Include); err != nil {
		return nil, err
	}
	if err := add(f.exclude, query.Exclude); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *explorationFlags) labelFilters() ([]filter.Triple, error) {
	labels, err := query.ParseFilterExprs(f.labels)
	if err != nil {
		return nil, err
	}
	if f.filtersFile == "" {
		return labels, nil
	}

	var fromFile ty.MS
	if err := fromFile.LoadMS(f.filtersFile); err != nil {
		return nil, fmt.Errorf("load filters file %s: %w", f.filtersFile, err)
	}
	keys := make([]string, 0, len(fromFile))
	for k := range fromFile {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		labels = append(labels, filter.Triple{Key: k, Operator: filter.OpEqual, Value: fromFile[k]})
	}
	return labels, nil
}

// build creates an inactive exploration from the flags. The caller
// activates it.
func (f *explorationFlags) build(cfg *datasource.Config, store explore.Preferences, sink func(explore.URLValues)) (*explore.Exploration, error) {
	labels, err := f.labelFilters()
	if err != nil {
		return nil, err
	}
	fields, err := query.ParseFilterExprs(f.fields)
	if err != nil {
		return nil, err
	}
	patterns, err := f.patterns()
	if err != nil {
		return nil, err
	}

	var last = explore.DefaultLast
	if f.last != "" {
		if last, err = ty.ParseLast(f.last); err != nil {
			return nil, err
		}
	}

	mode, err := explore.ParseMode(f.mode)
	if err != nil {
		return nil, err
	}
	// a link carries its own mode, starting from start would drop its patterns
	if mode == explore.ModeUnset && f.url == "" {
		mode = explore.ModeStart
		if len(labels) > 0 {
			mode = explore.ModeLogs
		}
	}

	opts := explore.Options{
		Mode:     mode,
		Patterns: patterns,
		Last:     last,
		URLSink:  sink,
		Variables: explore.VariableOptions{
			Datasource:     f.datasource,
			InitialFilters: labels,
			Preferences:    store,
		},
	}
	if cfg != nil {
		opts.StartingLabel = cfg.StartingLabel
		opts.Variables.DefaultDatasource = cfg.DefaultID()
	}

	e := explore.New(opts)
	if err := e.Variables().FieldFilters().ReplaceAll(fields); err != nil {
		return nil, err
	}
	e.Variables().LineFilter.ChangeValueTo(f.line)

	if f.url != "" {
		values, err := explore.ParseShareURL(f.url)
		if err != nil {
			return nil, err
		}
		if err := e.UpdateFromURL(values); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// openSource resolves the datasource chosen by the exploration variables.
func openSource(cfg *datasource.Config, e *explore.Exploration) (string, datasource.Datasource, datasource.Source, error) {
	id := e.Variables().Datasource.Value()
	if id == "" {
		return "", datasource.Datasource{}, nil, fmt.Errorf("%w: no datasource selected", datasource.ErrDatasourceNotFound)
	}
	ds, err := cfg.Get(id)
	if err != nil {
		return "", datasource.Datasource{}, nil, err
	}
	src, err := datasource.Open(ds)
	if err != nil {
		return "", datasource.Datasource{}, nil, err
	}
	return id, ds, src, nil
}

func (f *explorationFlags) limitFor(ds datasource.Datasource) int {
	if f.limit > 0 {
		return f.limit
	}
	return ds.MaxEntries()
}
