package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
root_dir = "/srv/albums"
inbox_dir = "/srv/inbox"
marker_suffix = ".git"
allowed_types = ["image/jpeg", "image/png"]
time_zone = "Europe/Zurich"
watch = true
debounce = "5s"
remove_after_import = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.RootDir != "/srv/albums" || cfg.InboxDir != "/srv/inbox" {
		t.Fatalf("paths not applied: %+v", cfg)
	}
	if cfg.MarkerSuffix != ".git" {
		t.Fatalf("marker suffix not applied: %q", cfg.MarkerSuffix)
	}
	if len(cfg.AllowedTypes) != 2 || cfg.AllowedTypes[1] != "image/png" {
		t.Fatalf("allowed types not applied: %v", cfg.AllowedTypes)
	}
	if !cfg.Watch || !cfg.RemoveAfterImport {
		t.Fatalf("bools not applied: %+v", cfg)
	}
	if cfg.Debounce != 5*time.Second {
		t.Fatalf("debounce not applied: %v", cfg.Debounce)
	}
}

func TestApplyFileConfigRespectsChangedFlags(t *testing.T) {
	fc := FileConfig{RootDir: "/from-file", MarkerSuffix: ".git"}

	cfg := DefaultConfig()
	cfg.RootDir = "/from-flag"
	changed := map[string]bool{"root": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatal(err)
	}
	if cfg.RootDir != "/from-flag" {
		t.Fatalf("flag value overridden by file: %q", cfg.RootDir)
	}
	if cfg.MarkerSuffix != ".git" {
		t.Fatalf("unchanged field not applied: %q", cfg.MarkerSuffix)
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	fc := FileConfig{Debounce: "soon"}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err == nil {
		t.Fatal("expected error for unparsable debounce")
	}
}

func TestLoadFileConfigMissingFile(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
