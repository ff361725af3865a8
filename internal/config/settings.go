// Package config persists operator settings as a small TOML document.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stillcast/internal/domain/consts"
	"stillcast/internal/utils/fs"
	"stillcast/internal/utils/logging"

	"github.com/BurntSushi/toml"
)

// Settings is the typed persistent configuration. Unknown keys in the file
// are ignored on load; a missing file yields defaults.
type Settings struct {
	DownloadDir string `toml:"download_dir"`
	AliasName   string `toml:"alias_name"`
}

// Store loads and saves Settings at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store for the settings file inside dataDir.
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, consts.SettingsFileName)}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file, applying defaults for missing values.
func (s *Store) Load() (Settings, error) {
	set := defaults()

	meta, err := toml.DecodeFile(s.path, &set)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.D(2, "No settings file at %q, using defaults", s.path)
			return set, nil
		}
		return set, fmt.Errorf("failed to parse settings file %q: %w", s.path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logging.D(1, "Ignoring unknown settings keys: %v", undecoded)
	}
	if set.DownloadDir == "" {
		set.DownloadDir = defaults().DownloadDir
	}
	return set, nil
}

// Save writes the settings file atomically (temp file plus rename), so an
// interrupted write never leaves a corrupt store.
func (s *Store) Save(set Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(set); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := fs.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func defaults() Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Settings{
		DownloadDir: filepath.Join(home, "Downloads"),
	}
}

// DataDir resolves the program's data directory ($XDG_DATA_HOME or
// ~/.local/share, plus the program name).
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, consts.ProgramName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", consts.ProgramName), nil
}
