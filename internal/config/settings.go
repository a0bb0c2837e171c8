package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	SettingsFile = "snapvcs.toml"

	EnvConfig = "SNAPVCS_CONFIG"
	EnvRoot   = "SNAPVCS_ROOT"
)

// Settings holds process-wide options read from snapvcs.toml.
type Settings struct {
	LogLevel      string `toml:"log_level"`
	LogTimestamps bool   `toml:"log_timestamps"`
	ReposDir      string `toml:"repos_dir"`
	RegistryFile  string `toml:"registry_file"`
	DefaultRoot   string `toml:"default_root"`
	Compress      bool   `toml:"compress"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:     "warn",
		ReposDir:     "repos",
		RegistryFile: "repositories.yaml",
		DefaultRoot:  DefaultRoot,
	}
}

// SettingsPath returns $SNAPVCS_CONFIG when set, otherwise ./snapvcs.toml.
func SettingsPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return SettingsFile
}

// LoadSettings reads path over the defaults. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parsing settings %s: %w", path, err)
	}

	def := DefaultSettings()
	if s.ReposDir == "" {
		s.ReposDir = def.ReposDir
	}
	if s.RegistryFile == "" {
		s.RegistryFile = def.RegistryFile
	}
	if s.DefaultRoot == "" {
		s.DefaultRoot = def.DefaultRoot
	}
	if s.LogLevel == "" {
		s.LogLevel = def.LogLevel
	}
	return s, nil
}

// RepoRootFor returns the storage root used for a named repository
// when none is given explicitly: <repos_dir>/<name>/data.
func (s Settings) RepoRootFor(name string) string {
	return filepath.Join(s.ReposDir, name, DefaultRoot)
}

// Selector reports the storage root of the currently selected repository.
type Selector interface {
	SelectedRoot() (string, bool)
}

// ResolveRepoRoot picks the storage root for this process.
// $SNAPVCS_ROOT wins, then the selected registry entry, then DefaultRoot.
func ResolveRepoRoot(s Settings, sel Selector) string {
	if root := os.Getenv(EnvRoot); root != "" {
		return root
	}
	if sel != nil {
		if root, ok := sel.SelectedRoot(); ok {
			return root
		}
	}
	return s.DefaultRoot
}
