package driving

import "github.com/studybridge/zoe-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetAudience updates the audience replies are written for.
	SetAudience(audience domain.Audience) error

	// SetLocale updates the reply language tag.
	SetLocale(locale string) error

	// SetSound toggles the audible reply notification.
	SetSound(enabled bool) error

	// SetHistory toggles local transcript persistence.
	SetHistory(enabled bool) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
