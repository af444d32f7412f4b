package explore

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strings"

	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/log"
	"github.com/bascanada/logexplorer/pkg/ty"
)

// ErrMalformedURLState is returned when a URL projection cannot be decoded.
// The exploration is left untouched in that case.
var ErrMalformedURLState = errors.New("malformed url state")

// URL projection keys.
const (
	URLKeyMode     = "mode"
	URLKeyPatterns = "patterns"
)

// ShareScheme and ShareHost form the prefix of share links.
const (
	ShareScheme = "logexplorer"
	ShareHost   = "explore"
)

// URLValues is the URL projection of an exploration. An absent key is
// undefined, which differs from an empty value.
type URLValues map[string]string

// GetURLState serializes the projected part of the state. Patterns are
// always empty in start mode.
func (e *Exploration) GetURLState() URLValues {
	values := URLValues{}
	if e.state.Mode != ModeUnset {
		values[URLKeyMode] = string(e.state.Mode)
	}
	switch {
	case e.state.Mode == ModeStart:
		values[URLKeyPatterns] = ""
	case e.state.Patterns != nil:
		encoded, err := ty.ToJSONString(e.state.Patterns)
		if err != nil {
			log.Error("exploration %s: encode patterns: %v", e.id, err)
			break
		}
		values[URLKeyPatterns] = encoded
	}
	return values
}

// UpdateFromURL applies a URL projection. A mode different from the current
// one is adopted, absent meaning start. When the current mode is start the
// patterns are cleared whatever the URL carries; otherwise a non-empty
// patterns value replaces the list. Everything is validated before anything
// is applied.
func (e *Exploration) UpdateFromURL(values URLValues) error {
	current := e.state.Mode

	adoptMode := false
	var mode Mode
	if raw := values[URLKeyMode]; Mode(raw) != current {
		m, err := ParseMode(raw)
		if err != nil {
			log.Warn("exploration %s: %v", e.id, err)
			return fmt.Errorf("%w: %v", ErrMalformedURLState, err)
		}
		if m == ModeUnset {
			m = ModeStart
		}
		adoptMode, mode = true, m
	}

	clearPatterns := current == ModeStart
	var patterns []query.AppliedPattern
	setPatterns := false
	if !clearPatterns {
		if raw := values[URLKeyPatterns]; raw != "" {
			decoded, err := DecodePatterns(raw)
			if err != nil {
				log.Warn("exploration %s: %v", e.id, err)
				return err
			}
			patterns, setPatterns = decoded, true
		}
	}

	if !adoptMode && !clearPatterns && !setPatterns {
		return nil
	}

	return e.update(func(s *State) {
		if adoptMode {
			s.Mode = mode
			s.TopView = TopViewFor(mode)
		}
		if clearPatterns {
			s.Patterns = nil
		} else if setPatterns {
			s.Patterns = patterns
		}
	})
}

type wirePattern struct {
	Pattern *string            `json:"pattern"`
	Type    *query.PatternType `json:"type"`
}

// DecodePatterns parses the JSON form of a pattern list. Null, unknown
// fields, missing fields, unknown types and trailing data are rejected.
func DecodePatterns(raw string) ([]query.AppliedPattern, error) {
	var wire []wirePattern
	if err := ty.FromJSONStringStrict(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: patterns: %v", ErrMalformedURLState, err)
	}
	if wire == nil {
		return nil, fmt.Errorf("%w: patterns: expected an array, got null", ErrMalformedURLState)
	}
	out := make([]query.AppliedPattern, 0, len(wire))
	for i, w := range wire {
		if w.Pattern == nil || w.Type == nil {
			return nil, fmt.Errorf("%w: patterns[%d]: pattern and type are required", ErrMalformedURLState, i)
		}
		out = append(out, query.AppliedPattern{Pattern: *w.Pattern, Type: *w.Type})
	}
	return out, nil
}

// startURLSync pushes the projection to sink now and after every change
// that alters it.
func (e *Exploration) startURLSync(sink func(URLValues)) func() {
	last := e.GetURLState()
	sink(maps.Clone(last))
	return e.Subscribe(func(_, _ State) {
		now := e.GetURLState()
		if maps.Equal(now, last) {
			return
		}
		last = now
		sink(maps.Clone(now))
	})
}

// ShareURL formats values as a share link.
func ShareURL(values URLValues) string {
	u := url.URL{Scheme: ShareScheme, Host: ShareHost, RawQuery: EncodeURLValues(values)}
	return u.String()
}

// EncodeURLValues encodes values as a query string, keys sorted.
func EncodeURLValues(values URLValues) string {
	q := url.Values{}
	for k, v := range values {
		q.Set(k, v)
	}
	return q.Encode()
}

// ParseShareURL accepts a share link or a bare query string.
func ParseShareURL(link string) (URLValues, error) {
	link = strings.TrimSpace(link)
	raw := link
	if strings.Contains(link, "://") {
		u, err := url.Parse(link)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedURLState, err)
		}
		if u.Scheme != ShareScheme {
			return nil, fmt.Errorf("%w: unsupported scheme %q", ErrMalformedURLState, u.Scheme)
		}
		raw = u.RawQuery
	}
	raw = strings.TrimPrefix(raw, "?")

	q, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedURLState, err)
	}
	values := URLValues{}
	for _, key := range []string{URLKeyMode, URLKeyPatterns} {
		if q.Has(key) {
			values[key] = q.Get(key)
		}
	}
	return values, nil
}
