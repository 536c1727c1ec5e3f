package driving

import "github.com/casaverde-labs/mira-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults for
	// unset keys.
	Get() (domain.AppSettings, error)

	// Save persists settings.
	Save(settings domain.AppSettings) error
}
