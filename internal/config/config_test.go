package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Update.IntervalDays != 7 {
		t.Fatalf("default interval should be 7 days, got %d", cfg.Update.IntervalDays)
	}
	if cfg.Update.DeleteOldVersions {
		t.Fatalf("old-version cleanup should default off")
	}
}

func TestEnsureCreatesAndLoadsConfig(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")
	cfg, err := Ensure(path)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if cfg.Version != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, cfg.Version)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file should exist: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Registry.Install) == 0 {
		t.Fatalf("expected default registry install command")
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := "version = 1\n[update]\ninterval_days = -2\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected interval validation error")
	}
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[registry]
list = ["pm", "list"]
newest = ["pm", "outdated"]
install = ["pm", "install"]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Update.IntervalDays != 7 || cfg.Update.At != "09:00" {
		t.Fatalf("normalize should fill update defaults: %+v", cfg.Update)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("normalize should fill logging defaults: %+v", cfg.Logging)
	}
}

func TestValidateCleanupNeedsPackagesDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Update.DeleteOldVersions = true
	if err := Validate(cfg); err == nil {
		t.Fatalf("cleanup without packages_dir should fail validation")
	}
	cfg.Registry.PackagesDir = "/var/lib/pkgm/packages"
	if err := Validate(cfg); err != nil {
		t.Fatalf("cleanup with packages_dir should validate: %v", err)
	}
}

func TestParseAt(t *testing.T) {
	hour, minute, err := ParseAt("23:05")
	if err != nil || hour != 23 || minute != 5 {
		t.Fatalf("ParseAt(23:05) = (%d, %d, %v)", hour, minute, err)
	}
	for _, bad := range []string{"", "25:00", "9am", "12:60"} {
		if _, _, err := ParseAt(bad); err == nil {
			t.Errorf("ParseAt(%q) should fail", bad)
		}
	}
}
