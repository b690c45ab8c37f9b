package config

// Config is the frozen v1 freshen configuration schema.
type Config struct {
	Version  int            `toml:"version"`
	Update   UpdateConfig   `toml:"update"`
	Registry RegistryConfig `toml:"registry"`
	Storage  StorageConfig  `toml:"storage"`
	Logging  LoggingConfig  `toml:"logging"`
}

// UpdateConfig controls the update cycle itself.
type UpdateConfig struct {
	// IntervalDays is the number of days that must elapse before another
	// update pass is due. Must be positive.
	IntervalDays int `toml:"interval_days"`
	// DeleteOldVersions removes each package's previous install directory
	// after an update batch completes.
	DeleteOldVersions bool `toml:"delete_old_versions"`
	// Prompt gates the unconditional entry point behind a confirmation
	// prompt.
	Prompt bool `toml:"prompt"`
	// At is the wall-clock time ("HH:MM") for the daily timer entry points.
	At string `toml:"at"`
	// PreCmds and PostCmds are argv lists run before and after the cycle.
	PreCmds  [][]string `toml:"pre_cmds,omitempty"`
	PostCmds [][]string `toml:"post_cmds,omitempty"`
}

// RegistryConfig describes the external package manager freshen drives.
// Each field is an argv template; package ids are appended where noted.
type RegistryConfig struct {
	// Refresh re-fetches the package metadata snapshot. Optional.
	Refresh []string `toml:"refresh,omitempty"`
	// List prints one "name version" line per installed package.
	List []string `toml:"list"`
	// Newest prints one "name version" line per package known upstream.
	Newest []string `toml:"newest"`
	// Install installs the package id appended as the final argument.
	Install []string `toml:"install"`
	// PackagesDir is where per-version install directories live
	// (<dir>/<name>-<version>). Required for old-version cleanup.
	PackagesDir string `toml:"packages_dir,omitempty"`
}

type StorageConfig struct {
	Root string `toml:"root"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}
