package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/logexplorer/pkg/explore/query"
)

func samplePatterns() []query.AppliedPattern {
	return []query.AppliedPattern{
		{Pattern: "<_> GET <_>", Type: query.Include},
		{Pattern: "health", Type: query.Exclude},
	}
}

func TestGetURLState(t *testing.T) {
	logs := New(Options{Mode: ModeLogs, Patterns: samplePatterns()})
	assert.Equal(t, URLValues{
		"mode":     "logs",
		"patterns": `[{"pattern":"<_> GET <_>","type":"include"},{"pattern":"health","type":"exclude"}]`,
	}, logs.GetURLState())

	start := New(Options{Mode: ModeStart, Patterns: samplePatterns()})
	assert.Equal(t, URLValues{"mode": "start", "patterns": ""}, start.GetURLState())

	empty := New(Options{Mode: ModeLogs, Patterns: []query.AppliedPattern{}})
	assert.Equal(t, "[]", empty.GetURLState()["patterns"])

	undefined := New(Options{})
	assert.Equal(t, URLValues{}, undefined.GetURLState())
}

func TestURLRoundTrip(t *testing.T) {
	src := newActive(t, Options{Mode: ModeLogs, Patterns: samplePatterns()})

	dst := newActive(t, Options{})
	require.NoError(t, dst.UpdateFromURL(src.GetURLState()))

	s := dst.State()
	assert.Equal(t, ModeLogs, s.Mode)
	assert.Equal(t, TopViewLogs, s.TopView)
	assert.Equal(t, samplePatterns(), s.Patterns)
	assert.Equal(t, "|> `<_> GET <_>` !> `health`", dst.Variables().Patterns.Value())
}

func TestURLRoundTripThroughShareLink(t *testing.T) {
	src := New(Options{Mode: ModeLogs, Patterns: samplePatterns()})
	link := ShareURL(src.GetURLState())
	assert.Contains(t, link, "logexplorer://explore?mode=logs&patterns=")

	values, err := ParseShareURL(link)
	require.NoError(t, err)

	dst := New(Options{})
	require.NoError(t, dst.UpdateFromURL(values))
	assert.Equal(t, samplePatterns(), dst.State().Patterns)
}

func TestStartModeClearsPatterns(t *testing.T) {
	e := newActive(t, Options{Mode: ModeLogs, Patterns: samplePatterns()})
	require.NoError(t, e.SetMode(ModeStart))

	err := e.UpdateFromURL(URLValues{
		"mode":     "logs",
		"patterns": `[{"pattern":"foo","type":"include"}]`,
	})
	require.NoError(t, err)

	s := e.State()
	assert.Nil(t, s.Patterns)
	assert.Equal(t, ModeLogs, s.Mode)
	assert.Equal(t, "", e.Variables().Patterns.Value())
}

func TestUpdateFromURL_AbsentModeMeansStart(t *testing.T) {
	e := newActive(t, Options{Mode: ModeLogs})
	require.NoError(t, e.UpdateFromURL(URLValues{}))
	assert.Equal(t, ModeStart, e.State().Mode)
	assert.Equal(t, TopViewStartSelector, e.State().TopView)
}

func TestUpdateFromURL_KeepsPatternsWithoutParameter(t *testing.T) {
	e := newActive(t, Options{Mode: ModeLogs, Patterns: samplePatterns()})
	require.NoError(t, e.UpdateFromURL(URLValues{"mode": "logs", "patterns": ""}))
	assert.Equal(t, samplePatterns(), e.State().Patterns)
}

func TestUpdateFromURL_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		patterns string
	}{
		{"not json", "[{"},
		{"not an array", `{"pattern":"a","type":"include"}`},
		{"unknown type", `[{"pattern":"a","type":"maybe"}]`},
		{"missing type", `[{"pattern":"a"}]`},
		{"unknown field", `[{"pattern":"a","type":"include","extra":1}]`},
		{"trailing data", `[] []`},
		{"null", "null"},
		{"null item", "[null]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newActive(t, Options{Mode: ModeLogs, Patterns: samplePatterns()})
			before := e.State()

			err := e.UpdateFromURL(URLValues{"mode": "start", "patterns": tt.patterns})
			assert.ErrorIs(t, err, ErrMalformedURLState)
			assert.Equal(t, before, e.State(), "state untouched")
		})
	}
}

func TestUpdateFromURL_NullPatternsKeepLogsPatterns(t *testing.T) {
	e := newActive(t, Options{Mode: ModeLogs, Patterns: samplePatterns()})

	err := e.UpdateFromURL(URLValues{"mode": "logs", "patterns": "null"})
	assert.ErrorIs(t, err, ErrMalformedURLState)
	assert.Equal(t, samplePatterns(), e.State().Patterns)
}

func TestUpdateFromURL_UnknownMode(t *testing.T) {
	e := newActive(t, Options{Mode: ModeLogs})
	err := e.UpdateFromURL(URLValues{"mode": "graph"})
	assert.ErrorIs(t, err, ErrMalformedURLState)
	assert.Equal(t, ModeLogs, e.State().Mode)
}

func TestURLSink(t *testing.T) {
	var pushed []URLValues
	e := New(Options{Mode: ModeStart, URLSink: func(v URLValues) { pushed = append(pushed, v) }})
	deactivate := e.Activate()

	require.Len(t, pushed, 1)
	assert.Equal(t, URLValues{"mode": "start", "patterns": ""}, pushed[0])

	require.NoError(t, e.SetDetailsVisible(true))
	assert.Len(t, pushed, 1, "details are not part of the projection")

	e.Publish(Event{Kind: StartingPointSelected})
	require.Len(t, pushed, 2)
	assert.Equal(t, URLValues{"mode": "logs"}, pushed[1])

	require.NoError(t, e.AddPattern(query.AppliedPattern{Pattern: "a", Type: query.Include}))
	require.Len(t, pushed, 3)
	assert.Equal(t, `[{"pattern":"a","type":"include"}]`, pushed[2]["patterns"])

	deactivate()
	require.NoError(t, e.SetMode(ModeStart))
	assert.Len(t, pushed, 3)
}

func TestParseShareURL(t *testing.T) {
	values, err := ParseShareURL("mode=logs&patterns=%5B%5D&other=1")
	require.NoError(t, err)
	assert.Equal(t, URLValues{"mode": "logs", "patterns": "[]"}, values)

	values, err = ParseShareURL("?mode=start")
	require.NoError(t, err)
	assert.Equal(t, URLValues{"mode": "start"}, values)

	_, err = ParseShareURL("https://example.com/?mode=logs")
	assert.ErrorIs(t, err, ErrMalformedURLState)

	_, err = ParseShareURL("mode=%zz")
	assert.ErrorIs(t, err, ErrMalformedURLState)
}
