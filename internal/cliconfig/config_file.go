package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	RootDir           string   `toml:"root_dir"`
	InboxDir          string   `toml:"inbox_dir"`
	MarkerSuffix      string   `toml:"marker_suffix"`
	AllowedTypes      []string `toml:"allowed_types"`
	TimeZone          string   `toml:"time_zone"`
	Watch             *bool    `toml:"watch"`
	Debounce          string   `toml:"debounce"`
	RemoveAfterImport *bool    `toml:"remove_after_import"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.albumkeep/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".albumkeep", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("root", fc.RootDir, &cfg.RootDir)
	s.setString("inbox", fc.InboxDir, &cfg.InboxDir)
	s.setString("marker-suffix", fc.MarkerSuffix, &cfg.MarkerSuffix)
	s.setString("time-zone", fc.TimeZone, &cfg.TimeZone)

	s.setStrings("allowed-types", fc.AllowedTypes, &cfg.AllowedTypes)

	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setBool("remove-after-import", fc.RemoveAfterImport, &cfg.RemoveAfterImport)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
