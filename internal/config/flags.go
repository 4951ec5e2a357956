package config

import "flag"

// parseFlags defines the global flags on fs, parses args, and marks every
// flag the user set with SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("dailyboard", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (file, redis, sqlite, memory)")
	fs.StringVar(&cfg.SlotKey, "slot-key", cfg.SlotKey, "Key the board snapshot is stored under")
	fs.StringVar(&cfg.SnapshotFile, "snapshot", cfg.SnapshotFile, "Snapshot file for the file backend")
	fs.StringVar(&cfg.DatabaseFile, "db", cfg.DatabaseFile, "Database file for the sqlite backend")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address (host:port or redis:// URL)")
	fs.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "Redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database number")
	fs.BoolVar(&cfg.ValidateSchema, "validate-schema", cfg.ValidateSchema, "Validate the stored snapshot against the JSON schema")

	// Board view
	fs.BoolVar(&cfg.ConfirmClear, "confirm-clear", cfg.ConfirmClear, "Ask before clearing all tasks")
	fs.BoolVar(&cfg.Mouse, "mouse", cfg.Mouse, "Enable mouse drag-and-drop in the TUI")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	flagToSource := map[string]string{
		"storage":         "storage",
		"slot-key":        "slot_key",
		"snapshot":        "snapshot_file",
		"db":              "database_file",
		"redis-addr":      "redis_addr",
		"redis-password":  "redis_password",
		"redis-db":        "redis_db",
		"validate-schema": "validate_schema",
		"confirm-clear":   "confirm_clear",
		"mouse":           "mouse",
		"log-dir":         "log_dir",
		"log-level":       "log_level",
		"log-format":      "log_format",
		"log-timestamps":  "log_timestamps",
		"log-caller":      "log_caller",
	}
	fs.Visit(func(f *flag.Flag) {
		if sources == nil {
			return
		}
		if field, ok := flagToSource[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
