package ty

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Format is the standard timestamp format used.
const Format = time.RFC3339

// durationRegex matches Go duration strings like "1h", "30m", "1h30m"
var durationRegex = regexp.MustCompile(`^(\d+(\.\d+)?(ns|us|µs|ms|s|m|h))+$`)

// dayRegex matches whole-day ranges such as "2d".
var dayRegex = regexp.MustCompile(`^(\d+)d$`)

// ParseLast parses a relative range such as "15m", "1h30m" or "7d".
func ParseLast(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty time range")
	}

	if m := dayRegex.FindStringSubmatch(value); m != nil {
		days, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q: %w", value, err)
		}
		if days == 0 {
			return 0, fmt.Errorf("time range must be positive: %s", value)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	if !durationRegex.MatchString(value) {
		return 0, fmt.Errorf("invalid time range %q (expected e.g. 15m, 1h, 7d)", value)
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid time range %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("time range must be positive: %s", value)
	}
	return d, nil
}

// FormatLast renders d the way ParseLast accepts it, preferring days when exact.
func FormatLast(d time.Duration) string {
	if d > 0 && d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	}
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}
