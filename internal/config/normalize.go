package config

func Normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if cfg.Update.IntervalDays == 0 {
		cfg.Update.IntervalDays = 7
	}
	if cfg.Update.At == "" {
		cfg.Update.At = "09:00"
	}
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "~/.local/share/freshen"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	return cfg
}
