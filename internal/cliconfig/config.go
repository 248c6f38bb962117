package cliconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/albumkeep/albumkeep/internal/adapters/vault"
)

// DefaultMarkerSuffix is the directory-name convention marking album
// repository roots during discovery. It follows the vault backend's
// convention.
const DefaultMarkerSuffix = vault.MarkerSuffix

// DefaultAllowedTypes lists the content types imported by default.
var DefaultAllowedTypes = []string{"image/jpeg", "image/tiff", "video/mp4"}

// Config holds CLI configuration for albumkeep.
type Config struct {
	RootDir  string
	InboxDir string

	MarkerSuffix string
	AllowedTypes []string
	TimeZone     string

	Watch             bool
	Debounce          time.Duration
	RemoveAfterImport bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MarkerSuffix: DefaultMarkerSuffix,
		AllowedTypes: append([]string(nil), DefaultAllowedTypes...),
		TimeZone:     "Local",
		Debounce:     2 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("root is required")
	}
	if c.InboxDir == "" {
		return fmt.Errorf("inbox is required")
	}
	if c.MarkerSuffix == "" {
		return fmt.Errorf("marker-suffix is required")
	}
	if len(c.AllowedTypes) == 0 {
		return fmt.Errorf("allowed-types must not be empty")
	}
	if c.Watch && c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("time-zone: %w", err)
	}
	return nil
}

// Location resolves the configured time zone used for filename prefixes.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't
// been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a string-slice value if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag
// not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setStringsFromString splits a comma-separated list and sets the
// destination. Used for environment variables that come as strings.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false. Used for
// environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
