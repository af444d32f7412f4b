package printer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/logexplorer/pkg/datasource"
	"github.com/bascanada/logexplorer/pkg/ty"
)

func TestEntryPrinter(t *testing.T) {
	setColor(false)

	ts := time.Date(2026, 10, 17, 10, 30, 45, 0, time.Local)
	entries := []datasource.Entry{
		{Timestamp: ts, Line: "request done", Fields: ty.MS{"level": "info"}},
		{Line: "no time"},
	}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "default",
			expected: "10:30:45 info request done\nN/A no time\n",
		},
		{
			name:     "custom",
			template: `{{.Line}} [{{KV .Fields}}]`,
			expected: "request done [level=info]\nno time []\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewEntryPrinter(tt.template)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, p.Print(&buf, entries))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestNewEntryPrinter_BadTemplate(t *testing.T) {
	_, err := NewEntryPrinter("{{.Line")
	assert.Error(t, err)
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, 12, 17, 10, 30, 45, 0, time.UTC)
	assert.Equal(t, ts.Local().Format("15:04:05"), FormatTimestamp(ts, "15:04:05"))
	assert.Equal(t, "N/A", FormatTimestamp(time.Time{}, "15:04:05"))
}

func TestFieldAndMultiLine(t *testing.T) {
	fields := ty.MS{"Level": "warn", "b": "2", "a": "1"}
	assert.Equal(t, "warn", Field(fields, "level"))
	assert.Equal(t, "", Field(fields, "missing"))
	assert.Equal(t, "\n * Level=warn\n * a=1\n * b=2", MultiLine(fields))
	assert.Equal(t, "x", Trim("  x \n"))
}

func TestPrettyJSON(t *testing.T) {
	setColor(false)

	out, err := PrettyJSON(map[string]string{"mode": "logs", "patterns": "[]"})
	require.NoError(t, err)
	assert.Contains(t, out, `"mode": "logs"`)
	assert.Contains(t, out, "\n  ")

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, []int{1, 2}))
	assert.Contains(t, buf.String(), "1")
}

func TestExpandJson(t *testing.T) {
	setColor(false)
	out := ExpandJson(`get data from json : {"dadaad": 2244 } and {bad}`)
	assert.Contains(t, out, "dadaad")
	assert.Contains(t, out, "2244")
	assert.Equal(t, "", ExpandJson("no json here"))
}
