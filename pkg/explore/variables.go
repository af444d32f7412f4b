package explore

import (
	"slices"

	"github.com/bascanada/logexplorer/pkg/explore/filter"
	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/log"
)

// Variable names shared with the query pipeline.
const (
	VarDatasource = "ds"
	VarFilters    = string(filter.LabelFilters)
	VarFields     = string(filter.FieldFilters)
	VarPatterns   = "patterns"
	VarLineFilter = "lineFilter"
)

// DatasourcePreferenceKey is the preference entry remembering the last
// datasource.
const DatasourcePreferenceKey = "logexplorer.datasource"

// Preferences is the durable key/value store the datasource choice is
// written to.
type Preferences interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// TextVariable holds a single string value.
type TextVariable struct {
	name      string
	label     string
	value     string
	hidden    bool
	observers map[int]func(old, new string)
	nextID    int
}

func NewTextVariable(name, label, value string, hidden bool) *TextVariable {
	return &TextVariable{
		name:      name,
		label:     label,
		value:     value,
		hidden:    hidden,
		observers: make(map[int]func(old, new string)),
	}
}

func (v *TextVariable) Name() string  { return v.name }
func (v *TextVariable) Label() string { return v.label }
func (v *TextVariable) Value() string { return v.value }
func (v *TextVariable) Hidden() bool  { return v.hidden }

// ChangeValueTo sets the value, notifying observers only on a change.
func (v *TextVariable) ChangeValueTo(value string) {
	if v.value == value {
		return
	}
	old := v.value
	v.value = value
	ids := make([]int, 0, len(v.observers))
	for id := range v.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := v.observers[id]; ok {
			fn(old, value)
		}
	}
}

// Subscribe registers fn and returns its cancel function.
func (v *TextVariable) Subscribe(fn func(old, new string)) func() {
	id := v.nextID
	v.nextID++
	v.observers[id] = fn
	return func() { delete(v.observers, id) }
}

// Variables is the set of variables owned by one exploration.
type Variables struct {
	Datasource *TextVariable
	Patterns   *TextVariable
	LineFilter *TextVariable
	Filters    *filter.Registry
}

// VariableOptions seeds a variable set.
type VariableOptions struct {
	// Datasource takes precedence over the stored preference.
	Datasource string
	// DefaultDatasource is used when neither an option nor a preference exist.
	DefaultDatasource string
	InitialFilters    []filter.Triple
	Preferences       Preferences
}

// NewVariables builds the variable set and wires the datasource variable to
// the preference store.
func NewVariables(opts VariableOptions) *Variables {
	initialDS := opts.Datasource
	if initialDS == "" && opts.Preferences != nil {
		if v, ok := opts.Preferences.Get(DatasourcePreferenceKey); ok {
			initialDS = v
		}
	}
	if initialDS == "" {
		initialDS = opts.DefaultDatasource
	}

	ds := NewTextVariable(VarDatasource, "Data source", initialDS, false)
	if opts.Preferences != nil {
		prefs := opts.Preferences
		ds.Subscribe(func(_, value string) {
			if value == "" {
				return
			}
			if err := prefs.Set(DatasourcePreferenceKey, value); err != nil {
				log.Warn("persist datasource preference: %v", err)
			}
		})
	}

	registry := filter.NewRegistry()
	registry.Register(filter.LabelFilters, filter.NewCollection(VarFilters,
		filter.WithLabel("Service"),
		filter.WithOperators(filter.OpEqual),
		filter.WithRenderer(query.RenderLabelExpression),
		filter.WithFilters(opts.InitialFilters),
		filter.WithVisibility(filter.VisibilityHideLabel),
	))
	registry.Register(filter.FieldFilters, filter.NewCollection(VarFields,
		filter.WithLabel("Filters"),
		filter.WithOperators(filter.OpEqual, filter.OpNotEqual),
		filter.WithRenderer(query.RenderFieldExpression),
		filter.WithVisibility(filter.VisibilityHideLabel),
	))

	return &Variables{
		Datasource: ds,
		Patterns:   NewTextVariable(VarPatterns, "", "", true),
		LineFilter: NewTextVariable(VarLineFilter, "", "", true),
		Filters:    registry,
	}
}

func (v *Variables) LabelFilters() *filter.Collection { return v.Filters.Get(filter.LabelFilters) }
func (v *Variables) FieldFilters() *filter.Collection { return v.Filters.Get(filter.FieldFilters) }

// Query composes the full logs query from the current values.
func (v *Variables) Query() string {
	return query.Compose(query.Parts{
		Labels:     v.LabelFilters().Expression(),
		Patterns:   v.Patterns.Value(),
		LineFilter: query.RenderLineFilter(v.LineFilter.Value()),
		Fields:     v.FieldFilters().Expression(),
	})
}
