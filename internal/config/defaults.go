package config

const (
	SchemaVersion = 1
)

// DefaultConfig returns a fully-populated v1 config document.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Update: UpdateConfig{
			IntervalDays:      7,
			DeleteOldVersions: false,
			Prompt:            false,
			At:                "09:00",
		},
		Registry: RegistryConfig{
			Refresh: []string{"pkgm", "refresh"},
			List:    []string{"pkgm", "list", "--installed"},
			Newest:  []string{"pkgm", "list", "--available"},
			Install: []string{"pkgm", "install"},
		},
		Storage: StorageConfig{
			Root: "~/.local/share/freshen",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
