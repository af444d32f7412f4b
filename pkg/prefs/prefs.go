// Package prefs persists small user preferences as a flat string map.
// Preferences are stored in ~/.logexplorer/prefs.yaml unless another path is
// given; a path ending in .toml is stored as TOML.
package prefs

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bascanada/logexplorer/pkg/log"
)

const (
	DefaultConfigDir = ".logexplorer"
	defaultPrefsPath = "~/" + DefaultConfigDir + "/prefs.yaml"
)

// Store is a string key/value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// FileStore reads the file once when opened and rewrites it on every Set.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open loads the store at path. A missing, unreadable or corrupt file
// yields an empty store; only an unresolvable path is an error.
func Open(path string) (*FileStore, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve prefs path: %w", err)
	}

	s := &FileStore{path: resolved, values: map[string]string{}}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("reading prefs %s: %v", resolved, err)
		}
		return s, nil
	}

	values := map[string]string{}
	if err := unmarshal(resolved, data, &values); err != nil {
		log.Warn("parsing prefs %s: %v", resolved, err)
		return s, nil
	}
	s.values = values
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value and writes the file, creating directories as needed.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := marshal(s.path, s.values)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Keys returns the stored keys sorted.
func (s *FileStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.values))
}

// MemoryStore keeps values in memory only.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore(initial map[string]string) *MemoryStore {
	values := maps.Clone(initial)
	if values == nil {
		values = map[string]string{}
	}
	return &MemoryStore{values: values}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func unmarshal(path string, data []byte, out *map[string]string) error {
	if isTOML(path) {
		return toml.Unmarshal(data, out)
	}
	return yaml.Unmarshal(data, out)
}

func marshal(path string, values map[string]string) ([]byte, error) {
	if isTOML(path) {
		return toml.Marshal(values)
	}
	return yaml.Marshal(values)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
