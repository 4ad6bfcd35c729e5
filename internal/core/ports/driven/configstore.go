package driven

// ConfigStore persists application settings under dot-notation keys
// such as "chat.locale". The file adapter backs it with TOML; tests
// use an in-memory map.
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns the value for key, or "" when the key is
	// absent or holds a different type.
	GetString(key string) string

	// GetBool returns the value for key, or false when the key is
	// absent or holds a different type.
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the current settings to storage.
	Save() error

	// Load replaces in-memory settings with the stored ones.
	Load() error

	// Path reports where the settings live, for display to the user.
	Path() string
}
