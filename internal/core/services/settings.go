package services

import (
	"fmt"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyAudience      = "chat.audience"
	keyLocale        = "chat.locale"
	keySound         = "chat.sound"
	keyHistory       = "chat.history"
	keyFunctionsBase = "backend.functions_base"
	keyStorageBase   = "backend.storage_base"
	keyAuthBase      = "backend.auth_base"
	keyBucket        = "backend.bucket"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Chat: domain.ChatSettings{
			Audience: s.getAudience(defaults.Chat.Audience),
			Locale:   s.getString(keyLocale, defaults.Chat.Locale),
			Sound:    s.getBool(keySound, defaults.Chat.Sound),
			History:  s.getBool(keyHistory, defaults.Chat.History),
		},
		Backend: domain.BackendSettings{
			FunctionsBase: s.getString(keyFunctionsBase, defaults.Backend.FunctionsBase),
			StorageBase:   s.getString(keyStorageBase, defaults.Backend.StorageBase),
			AuthBase:      s.getString(keyAuthBase, defaults.Backend.AuthBase),
			Bucket:        s.getString(keyBucket, defaults.Backend.Bucket),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if !settings.Chat.Audience.IsValid() {
		return fmt.Errorf("%w: audience %q", domain.ErrInvalidInput, settings.Chat.Audience)
	}

	if err := s.configStore.Set(keyAudience, settings.Chat.Audience.String()); err != nil {
		return fmt.Errorf("save audience: %w", err)
	}
	if err := s.configStore.Set(keyLocale, settings.Chat.Locale); err != nil {
		return fmt.Errorf("save locale: %w", err)
	}
	if err := s.configStore.Set(keySound, settings.Chat.Sound); err != nil {
		return fmt.Errorf("save sound: %w", err)
	}
	if err := s.configStore.Set(keyHistory, settings.Chat.History); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	if err := s.configStore.Set(keyFunctionsBase, settings.Backend.FunctionsBase); err != nil {
		return fmt.Errorf("save functions base: %w", err)
	}
	if err := s.configStore.Set(keyStorageBase, settings.Backend.StorageBase); err != nil {
		return fmt.Errorf("save storage base: %w", err)
	}
	if err := s.configStore.Set(keyAuthBase, settings.Backend.AuthBase); err != nil {
		return fmt.Errorf("save auth base: %w", err)
	}
	if err := s.configStore.Set(keyBucket, settings.Backend.Bucket); err != nil {
		return fmt.Errorf("save bucket: %w", err)
	}

	return nil
}

// SetAudience updates the audience replies are written for.
func (s *SettingsService) SetAudience(audience domain.Audience) error {
	if !audience.IsValid() {
		return fmt.Errorf("%w: audience %q", domain.ErrInvalidInput, audience)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Chat.Audience = audience

	return s.Save(settings)
}

// SetLocale updates the reply language tag.
func (s *SettingsService) SetLocale(locale string) error {
	if locale == "" {
		return fmt.Errorf("%w: locale is empty", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Chat.Locale = locale

	return s.Save(settings)
}

// SetSound toggles the audible reply notification.
func (s *SettingsService) SetSound(enabled bool) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Chat.Sound = enabled

	return s.Save(settings)
}

// SetHistory toggles local transcript persistence.
func (s *SettingsService) SetHistory(enabled bool) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Chat.History = enabled

	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getAudience(defaultVal domain.Audience) domain.Audience {
	val := s.configStore.GetString(keyAudience)
	if val == "" {
		return defaultVal
	}
	audience := domain.Audience(val)
	if !audience.IsValid() {
		return defaultVal
	}
	return audience
}
