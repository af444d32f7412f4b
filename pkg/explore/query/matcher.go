package query

import (
	"fmt"
	"regexp"
	"strings"
)

var captureRegex = regexp.MustCompile(`<(_|[A-Za-z_][A-Za-z0-9_]*)>`)

// PatternMatcher evaluates a pattern such as `<_> level=error <msg>` against
// whole lines. Each capture matches any run of characters, literal text
// must appear as written.
type PatternMatcher struct {
	pattern string
	re      *regexp.Regexp
	names   []string
}

// CompilePattern builds a matcher. A pattern without any literal text is
// rejected since it would match every line.
func CompilePattern(pattern string) (*PatternMatcher, error) {
	if strings.TrimSpace(captureRegex.ReplaceAllString(pattern, "")) == "" {
		return nil, fmt.Errorf("pattern %q has no literal text", pattern)
	}

	var b strings.Builder
	b.WriteString("^")
	seen := map[string]bool{}
	var names []string
	last := 0
	for _, loc := range captureRegex.FindAllStringSubmatchIndex(pattern, -1) {
		b.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		name := pattern[loc[2]:loc[3]]
		if name == "_" || seen[name] {
			b.WriteString("(?:.*?)")
		} else {
			seen[name] = true
			names = append(names, name)
			b.WriteString("(?P<" + name + ">.*?)")
		}
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(pattern[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return &PatternMatcher{pattern: pattern, re: re, names: names}, nil
}

func (m *PatternMatcher) String() string { return m.pattern }

// Match reports whether the whole line matches.
func (m *PatternMatcher) Match(line string) bool {
	return m.re.MatchString(line)
}

// Extract returns the named captures of a matching line, nil otherwise.
func (m *PatternMatcher) Extract(line string) map[string]string {
	sub := m.re.FindStringSubmatch(line)
	if sub == nil {
		return nil
	}
	out := make(map[string]string, len(m.names))
	for _, name := range m.names {
		out[name] = sub[m.re.SubexpIndex(name)]
	}
	return out
}

// PatternSet applies a list of include and exclude patterns: a line passes
// when it matches every include and no exclude.
type PatternSet struct {
	include []*PatternMatcher
	exclude []*PatternMatcher
}

func CompilePatternSet(patterns []AppliedPattern) (*PatternSet, error) {
	set := &PatternSet{}
	for _, p := range patterns {
		m, err := CompilePattern(p.Pattern)
		if err != nil {
			return nil, err
		}
		if p.Type == Include {
			set.include = append(set.include, m)
		} else {
			set.exclude = append(set.exclude, m)
		}
	}
	return set, nil
}

func (s *PatternSet) Match(line string) bool {
	for _, m := range s.include {
		if !m.Match(line) {
			return false
		}
	}
	for _, m := range s.exclude {
		if m.Match(line) {
			return false
		}
	}
	return true
}
