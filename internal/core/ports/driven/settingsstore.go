package driven

import "github.com/praxos-ai/groundwork/internal/core/domain"

// SettingsStore persists the pipeline configuration.
type SettingsStore interface {
	// Load returns the stored settings merged over the defaults.
	Load() (domain.Settings, error)

	// Save persists the settings.
	Save(settings domain.Settings) error
}
