package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a TOML file under the zoe config
// directory. Keys use dot notation ("chat.locale"), stored on disk as
// nested TOML tables.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore opens the store at configDir/config.toml, creating
// the directory if needed. An empty configDir means ~/.zoe.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".zoe")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}
	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value stored under a dot-notation key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// GetString returns the value at key, or "" when absent or not a
// string.
func (s *ConfigStore) GetString(key string) string {
	if val, ok := s.Get(key); ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetBool returns the value at key, or false when absent or not a
// bool.
func (s *ConfigStore) GetBool(key string) bool {
	if val, ok := s.Get(key); ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

// Set stores a value and writes the file straight away.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.save()
}

// Save writes the current settings to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save marshals the nested form of the data. Caller holds the lock.
func (s *ConfigStore) save() error {
	out, err := toml.Marshal(nestKeys(s.data))
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, out, 0600)
}

// Load replaces in-memory settings with the file's contents. A
// missing file leaves the store empty.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var tables map[string]any
	if err := toml.Unmarshal(raw, &tables); err != nil {
		return err
	}

	s.data = make(map[string]any)
	flattenInto(s.data, "", tables)
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// flattenInto walks nested TOML tables and records leaves under
// dot-notation keys, so {"chat": {"locale": "es"}} yields
// "chat.locale".
func flattenInto(dst map[string]any, prefix string, src map[string]any) {
	for key, value := range src {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			flattenInto(dst, full, table)
			continue
		}
		dst[full] = value
	}
}

// nestKeys is the inverse of flattenInto: dot-notation keys become
// nested tables for marshalling.
func nestKeys(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return root
}
