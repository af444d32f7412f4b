package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bascanada/logexplorer/pkg/ty"
)

// Sentinel errors returned by LoadConfig and Config lookups so callers can
// detect exact failure modes using errors.Is().
var (
	ErrConfigParse        = errors.New("invalid config content")
	ErrNoDatasources      = errors.New("no datasources found in config file")
	ErrDatasourceNotFound = errors.New("datasource not found")
	ErrUnknownType        = errors.New("unknown datasource type")
)

const (
	// EnvConfigPath is the environment variable used to override the config path
	EnvConfigPath = "LOGEXPLORER_CONFIG"

	// DefaultConfigDir is the directory under the user's home where the config
	// file is expected when no explicit path or env var is provided.
	DefaultConfigDir = ".logexplorer"

	// DefaultConfigFile is the config filename to look for in the default dir.
	DefaultConfigFile = "config.yaml"
)

// Datasource types.
const (
	TypeFile = "file"
	TypeLoki = "loki"
)

// Line formats of a file datasource.
const (
	FormatAuto   = ""
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

const defaultLimit = 1000

type Datasource struct {
	Type string `json:"type" yaml:"type"`

	// file
	Path   string   `json:"path,omitempty" yaml:"path,omitempty"`
	Format string   `json:"format,omitempty" yaml:"format,omitempty"`
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// loki
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Headers  ty.MS  `json:"headers,omitempty" yaml:"headers,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Insecure bool   `json:"insecure,omitempty" yaml:"insecure,omitempty"`

	Limit ty.Opt[int] `json:"limit" yaml:"limit,omitempty"`
}

// MaxEntries is the configured result limit or the default one.
func (d Datasource) MaxEntries() int {
	if v, ok := d.Limit.Get(); ok && v > 0 {
		return v
	}
	return defaultLimit
}

type Datasources map[string]Datasource

type Config struct {
	Default       string      `json:"default" yaml:"default"`
	StartingLabel string      `json:"starting-label" yaml:"starting-label"`
	Datasources   Datasources `json:"datasources" yaml:"datasources"`
}

// ResolveConfigPath returns the explicit path, else LOGEXPLORER_CONFIG, else
// the default file when it exists. An empty result means no config.
func ResolveConfigPath(configPath string) string {
	if strings.TrimSpace(configPath) != "" {
		return configPath
	}
	if envPath := strings.TrimSpace(os.Getenv(EnvConfigPath)); envPath != "" {
		return envPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		defaultPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
		if _, err := os.Stat(defaultPath); err == nil {
			return defaultPath
		}
	}
	return ""
}

func LoadConfig(configPath string) (*Config, error) {
	configPath = ResolveConfigPath(configPath)

	if strings.TrimSpace(configPath) == "" {
		return nil, fmt.Errorf("config file not found (set --config or %s)", EnvConfigPath)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at path: %s", configPath)
	}

	// Read file contents and support JSON or YAML formats
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing JSON %s: %v", ErrConfigParse, configPath, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML %s: %v", ErrConfigParse, configPath, err)
		}
	default:
		// Try JSON then YAML as a fallback
		if err := json.Unmarshal(data, &config); err == nil {
			break
		}
		config = Config{}
		if err := yaml.Unmarshal(data, &config); err == nil {
			break
		}
		return nil, fmt.Errorf("%w: unsupported or invalid config format for file: %s", ErrConfigParse, configPath)
	}

	if len(config.Datasources) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDatasources, configPath)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the required options of every datasource and returns a
// combined error describing all the problems found.
func (c *Config) Validate() error {
	var problems []error

	for _, name := range c.IDs() {
		ds := c.Datasources[name]
		switch strings.ToLower(ds.Type) {
		case TypeFile:
			if ds.Path == "" {
				problems = append(problems, fmt.Errorf("datasource '%s' (file) missing required option 'path'", name))
			}
			switch ds.Format {
			case FormatAuto, FormatJSON, FormatLogfmt:
			default:
				problems = append(problems, fmt.Errorf("datasource '%s' (file) has unknown format '%s'", name, ds.Format))
			}
		case TypeLoki:
			if ds.URL == "" {
				problems = append(problems, fmt.Errorf("datasource '%s' (loki) missing required option 'url'", name))
			}
		default:
			problems = append(problems, fmt.Errorf("%w: datasource '%s' has type '%s'", ErrUnknownType, name, ds.Type))
		}
	}

	if c.Default != "" {
		if _, ok := c.Datasources[c.Default]; !ok {
			problems = append(problems, fmt.Errorf("%w: default '%s'", ErrDatasourceNotFound, c.Default))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid datasource configuration: %w", errors.Join(problems...))
	}
	return nil
}

// IDs returns the datasource ids sorted.
func (c *Config) IDs() []string {
	return slices.Sorted(maps.Keys(c.Datasources))
}

// Get returns the datasource named id.
func (c *Config) Get(id string) (Datasource, error) {
	ds, ok := c.Datasources[id]
	if !ok {
		return Datasource{}, fmt.Errorf("%w: %s (available: %s)", ErrDatasourceNotFound, id, strings.Join(c.IDs(), ", "))
	}
	return ds, nil
}

// DefaultID is the configured default or the first id.
func (c *Config) DefaultID() string {
	if c.Default != "" {
		return c.Default
	}
	if ids := c.IDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
