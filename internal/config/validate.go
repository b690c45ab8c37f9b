package config

import (
	"fmt"
	"time"
)

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

var allowedLogFormats = map[string]struct{}{
	"text": {},
	"json": {},
}

func Validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return fmt.Errorf("DOC_CONFIG_VERSION: unsupported version %d", cfg.Version)
	}
	if cfg.Update.IntervalDays < 1 {
		return fmt.Errorf("DOC_CONFIG_INTERVAL: interval_days must be a positive integer, got %d", cfg.Update.IntervalDays)
	}
	if _, _, err := ParseAt(cfg.Update.At); err != nil {
		return fmt.Errorf("DOC_CONFIG_AT: %w", err)
	}
	for _, argv := range append(append([][]string{}, cfg.Update.PreCmds...), cfg.Update.PostCmds...) {
		if len(argv) == 0 || argv[0] == "" {
			return fmt.Errorf("DOC_CONFIG_HOOK: hook command must not be empty")
		}
	}
	if cfg.Storage.Root == "" {
		return fmt.Errorf("DOC_CONFIG_STORAGE: missing storage root")
	}
	if _, ok := allowedLogLevels[cfg.Logging.Level]; !ok {
		return fmt.Errorf("DOC_CONFIG_LOGGING: unsupported level %q", cfg.Logging.Level)
	}
	if _, ok := allowedLogFormats[cfg.Logging.Format]; !ok {
		return fmt.Errorf("DOC_CONFIG_LOGGING: unsupported format %q", cfg.Logging.Format)
	}

	for name, argv := range map[string][]string{
		"list":    cfg.Registry.List,
		"newest":  cfg.Registry.Newest,
		"install": cfg.Registry.Install,
	} {
		if len(argv) == 0 || argv[0] == "" {
			return fmt.Errorf("REG_CONFIG_CMD: registry %s command is required", name)
		}
	}
	if len(cfg.Registry.Refresh) > 0 && cfg.Registry.Refresh[0] == "" {
		return fmt.Errorf("REG_CONFIG_CMD: registry refresh command must not be empty")
	}
	if cfg.Update.DeleteOldVersions && cfg.Registry.PackagesDir == "" {
		return fmt.Errorf("REG_CONFIG_PACKAGES_DIR: delete_old_versions requires registry packages_dir")
	}
	return nil
}

// ParseAt parses a wall-clock "HH:MM" time of day.
func ParseAt(at string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", at, err)
	}
	return t.Hour(), t.Minute(), nil
}
