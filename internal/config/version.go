package config

// Build metadata, overridden at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
