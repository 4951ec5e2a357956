package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DAILYBOARD_"

// loadFromEnv overrides config from DAILYBOARD_* environment variables.
// Malformed numbers are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(name, field string, target *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*target = v
			set(field)
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*target = boolFromString(v)
			set(field)
		}
	}

	str("STORAGE", "storage", &cfg.Storage)
	str("SLOT_KEY", "slot_key", &cfg.SlotKey)
	str("SNAPSHOT", "snapshot_file", &cfg.SnapshotFile)
	str("DB", "database_file", &cfg.DatabaseFile)
	str("REDIS_ADDR", "redis_addr", &cfg.RedisAddr)
	str("REDIS_PASSWORD", "redis_password", &cfg.RedisPassword)
	if v := os.Getenv(EnvPrefix + "REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.RedisDB = i
			set("redis_db")
		}
	}
	boolean("VALIDATE_SCHEMA", "validate_schema", &cfg.ValidateSchema)
	boolean("CONFIRM_CLEAR", "confirm_clear", &cfg.ConfirmClear)
	boolean("MOUSE", "mouse", &cfg.Mouse)

	// Logging configuration
	str("LOG_DIR", "log_dir", &cfg.LogDir)
	str("LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("LOG_CALLER", "log_caller", &cfg.LogCaller)
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
