// Package file provides a TOML file-backed settings store.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a file-based implementation of driven.SettingsStore
// using TOML. Settings are stored in a single file within the
// groundwork config directory.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a new TOML-based settings store.
// If configPath is empty, defaults to ~/.groundwork/config.toml.
func NewSettingsStore(configPath string) (*SettingsStore, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(home, ".groundwork", "config.toml")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{filePath: configPath}, nil
}

// Load reads settings from the TOML file. Values present in the file
// override the defaults; a missing file yields the defaults.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return domain.Settings{}, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("invalid config: %w", err)
	}

	return settings, nil
}

// Save persists the settings to disk.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("serialising config: %w", err)
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
