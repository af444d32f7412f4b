package ty

import (
	"os"
	"regexp"
)

// variableRegex matches ${NAME}, ${NAME:-default} and $NAME.
var variableRegex = regexp.MustCompile(`\$(?:\{([a-zA-Z_][a-zA-Z0-9_]*)(:-(.*?))?\}|([a-zA-Z_][a-zA-Z0-9_]*))`)

// ResolveString expands ${VAR}, ${VAR:-default} and $VAR from vars, then
// from the environment. Unknown variables without default are kept as is.
func ResolveString(input string, vars map[string]string) string {
	return variableRegex.ReplaceAllStringFunc(input, func(v string) string {
		m := variableRegex.FindStringSubmatch(v)
		varName := m[1]
		if varName == "" {
			varName = m[4]
		}

		if val, ok := vars[varName]; ok {
			return val
		}

		if val, ok := os.LookupEnv(varName); ok {
			return val
		}

		if m[2] != "" {
			return m[3]
		}

		return v
	})
}

func (ms MS) ResolveVariables() MS {
	return ms.ResolveVariablesWith(map[string]string{})
}

func (ms MS) ResolveVariablesWith(vars map[string]string) MS {
	if ms == nil {
		return nil
	}
	msResolved := MS{}

	for k, v := range ms {
		msResolved[k] = ResolveString(v, vars)
	}

	return msResolved
}
