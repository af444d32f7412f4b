package printer

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/TylerBrock/colorjson"

	"github.com/bascanada/logexplorer/pkg/log"
	"github.com/bascanada/logexplorer/pkg/ty"
)

var jsonExtraction = regexp.MustCompile(`{(?:[^{}]|(?P<recurse>{[^{}]*}))*}`)

// FormatTimestamp renders t in local time, N/A when zero.
func FormatTimestamp(t time.Time, layout string) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format(layout)
}

// KV renders values as sorted key=value pairs.
func KV(values ty.MS) string {
	items := make([]string, 0, len(values))
	for _, k := range slices.Sorted(maps.Keys(values)) {
		items = append(items, fmt.Sprintf("%s=%s", k, values[k]))
	}
	return strings.Join(items, " ")
}

// MultiLine renders values as a sorted bullet list, one per line.
func MultiLine(values ty.MS) string {
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(&b, "\n * %s=%s", k, values[k])
	}
	return b.String()
}

// Field provides case-insensitive access for templates.
// Usage in template: {{Field .Fields "level"}}
func Field(values ty.MS, key string) string {
	if v, ok := values[key]; ok {
		return v
	}
	for k, v := range values {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func Trim(s string) string {
	return strings.TrimSpace(s)
}

// PrettyJSON indents v as colored JSON when colors are enabled.
func PrettyJSON(v any) (string, error) {
	raw, err := ty.ToJSONString(v)
	if err != nil {
		return "", err
	}
	var obj any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return "", err
	}

	f := colorjson.NewFormatter()
	f.Indent = 2
	f.DisabledColor = !IsColorEnabled()
	out, err := f.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ExpandJson pretty prints every JSON object embedded in value.
func ExpandJson(value string) string {
	var b strings.Builder
	for _, jsonStr := range jsonExtraction.FindAllString(value, -1) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(jsonStr), &obj); err != nil {
			log.Debug("expand json %q: %v", jsonStr, err)
			continue
		}
		s, err := PrettyJSON(obj)
		if err != nil {
			log.Warn("failed to format json %s", jsonStr)
			continue
		}
		b.WriteString("\n" + s)
	}
	return b.String()
}

// TemplateFuncs are the functions available to entry templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"Format":     FormatTimestamp,
		"MultiLine":  MultiLine,
		"ExpandJson": ExpandJson,
		"Field":      Field,
		"KV":         KV,
		"Trim":       Trim,
		"Level":      ColorLevel,
		"Dim":        ColorTimestamp,
		"Color":      ColorString,
		"Bold":       Bold,
	}
}
