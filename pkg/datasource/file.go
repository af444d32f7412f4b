package datasource

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/bascanada/logexplorer/pkg/explore/filter"
	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/log"
	"github.com/bascanada/logexplorer/pkg/ty"
)

const maxLineSize = 1024 * 1024

var timestampKeys = []string{"ts", "time", "timestamp"}

// FileSource reads a local file of JSON or logfmt lines and evaluates
// requests in process. The whole file is read on every query.
type FileSource struct {
	path   string
	format string
	labels map[string]bool
	limit  int
}

func NewFileSource(ds Datasource) *FileSource {
	labels := make(map[string]bool, len(ds.Labels))
	for _, l := range ds.Labels {
		labels[l] = true
	}
	return &FileSource{path: ds.Path, format: ds.Format, labels: labels, limit: ds.MaxEntries()}
}

func (f *FileSource) Path() string { return f.path }

// Query returns matching entries newest first.
func (f *FileSource) Query(ctx context.Context, req Request) ([]Entry, error) {
	patterns, err := query.CompilePatternSet(req.Patterns)
	if err != nil {
		return nil, err
	}

	entries, err := f.read(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !inRange(e, req.From, req.To) {
			continue
		}
		if !matchAll(e.Labels, req.Labels) || !matchAll(e.fieldsAndLabels(), req.Fields) {
			continue
		}
		if req.LineFilter != "" && !strings.Contains(e.Line, req.LineFilter) {
			continue
		}
		if !patterns.Match(e.Line) {
			continue
		}
		matched = append(matched, e)
	}

	// backward: newest first, file order breaks ties
	slices.Reverse(matched)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	limit := req.Limit
	if limit <= 0 {
		limit = f.limit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	log.Debug("file %s: %d/%d entries matched", f.path, len(matched), len(entries))
	return matched, nil
}

// LabelValues returns the sorted distinct values of label.
func (f *FileSource) LabelValues(ctx context.Context, label string) ([]string, error) {
	entries, err := f.read(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if v, ok := e.Labels[label]; ok && v != "" {
			seen[v] = true
		}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

func (f *FileSource) read(ctx context.Context) ([]Entry, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var entries []Entry
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, ParseLine(line, f.format, f.labels))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return entries, nil
}

// ParseLine splits a line into labels and fields. Keys listed in labels
// become stream labels, everything else a field.
func ParseLine(line, format string, labels map[string]bool) Entry {
	var kv map[string]string
	switch format {
	case FormatJSON:
		kv = parseJSON(line)
	case FormatLogfmt:
		kv = ParseLogfmt(line)
	default:
		if strings.HasPrefix(strings.TrimSpace(line), "{") {
			kv = parseJSON(line)
		}
		if kv == nil {
			kv = ParseLogfmt(line)
		}
	}

	entry := Entry{Line: line, Labels: ty.MS{}, Fields: ty.MS{}}
	for k, v := range kv {
		if labels[k] {
			entry.Labels[k] = v
		} else {
			entry.Fields[k] = v
		}
	}
	for _, k := range timestampKeys {
		if v, ok := kv[k]; ok {
			if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
				entry.Timestamp = ts
				break
			}
		}
	}
	return entry
}

func parseJSON(line string) map[string]string {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		case map[string]any, []any:
			s, err := ty.ToJSONString(val)
			if err == nil {
				out[k] = s
			}
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

// ParseLogfmt parses key=value pairs. Values may be double quoted with
// backslash escapes; bare keys get an empty value.
func ParseLogfmt(line string) map[string]string {
	out := map[string]string{}
	i, n := 0, len(line)
	for i < n {
		for i < n && line[i] == ' ' {
			i++
		}
		start := i
		for i < n && line[i] != '=' && line[i] != ' ' {
			i++
		}
		key := line[start:i]
		if i >= n || line[i] == ' ' {
			if key != "" {
				out[key] = ""
			}
			continue
		}
		i++ // '='
		var value string
		if i < n && line[i] == '"' {
			var b strings.Builder
			i++
			for i < n && line[i] != '"' {
				if line[i] == '\\' && i+1 < n {
					i++
				}
				b.WriteByte(line[i])
				i++
			}
			i++ // closing quote
			value = b.String()
		} else {
			start := i
			for i < n && line[i] != ' ' {
				i++
			}
			value = line[start:i]
		}
		if key != "" {
			out[key] = value
		}
	}
	return out
}

func (e Entry) fieldsAndLabels() ty.MS {
	if len(e.Labels) == 0 {
		return e.Fields
	}
	all := make(ty.MS, len(e.Labels)+len(e.Fields))
	all.Merge(e.Labels)
	all.Merge(e.Fields)
	return all
}

func matchAll(values ty.MS, filters []filter.Triple) bool {
	for _, f := range filters {
		v := values[f.Key]
		switch f.Operator {
		case filter.OpEqual:
			if v != f.Value {
				return false
			}
		case filter.OpNotEqual:
			if v == f.Value {
				return false
			}
		}
	}
	return true
}

func inRange(e Entry, from, to time.Time) bool {
	if e.Timestamp.IsZero() {
		return true
	}
	if !from.IsZero() && e.Timestamp.Before(from) {
		return false
	}
	if !to.IsZero() && e.Timestamp.After(to) {
		return false
	}
	return true
}
