package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (ALBUMKEEP_*). It respects flags that have been explicitly set
// (changed map). Returns an error if any environment variable has an
// invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("root", os.Getenv("ALBUMKEEP_ROOT_DIR"), &cfg.RootDir)
	s.setString("inbox", os.Getenv("ALBUMKEEP_INBOX_DIR"), &cfg.InboxDir)
	s.setString("marker-suffix", os.Getenv("ALBUMKEEP_MARKER_SUFFIX"), &cfg.MarkerSuffix)
	s.setString("time-zone", os.Getenv("ALBUMKEEP_TIME_ZONE"), &cfg.TimeZone)

	s.setStringsFromString("allowed-types", os.Getenv("ALBUMKEEP_ALLOWED_TYPES"), &cfg.AllowedTypes)

	if err := s.setDuration("debounce", os.Getenv("ALBUMKEEP_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("ALBUMKEEP_WATCH"), &cfg.Watch)
	s.setBoolFromString("remove-after-import", os.Getenv("ALBUMKEEP_REMOVE_AFTER_IMPORT"), &cfg.RemoveAfterImport)

	return nil
}
