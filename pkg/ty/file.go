package ty

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
)

var kvLineRegex = regexp.MustCompile(`^([a-zA-Z0-9_.\-]*)[:=](.*)$`)

// LoadMS loads a string map from a file, either a JSON object or one
// key=value (or key: value) pair per line. Lines starting with # are skipped.
func (ms *MS) LoadMS(path string) error {
	value, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return err
	}

	strValue := strings.TrimSpace(string(value))
	if strValue == "" {
		return nil
	}
	if *ms == nil {
		*ms = MS{}
	}

	if strValue[0] == '{' {
		return json.Unmarshal([]byte(strValue), ms)
	}

	for _, line := range strings.Split(strValue, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		matches := kvLineRegex.FindStringSubmatch(line)
		if len(matches) < 3 {
			continue
		}
		(*ms)[strings.TrimSpace(matches[1])] = strings.TrimSpace(matches[2])
	}

	return nil
}
