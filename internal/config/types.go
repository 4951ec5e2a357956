package config

import "github.com/nibzard/dailyboard/internal/boarddir"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultStorage        = "file"
	DefaultSlotKey        = "daily-tasks"
	DefaultLogDir         = "~/.dailyboard/logs"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultRedisAddr      = "localhost:6379"
	DefaultConfirmClear   = true
	DefaultMouse          = true
	DefaultValidateSchema = true
)

// Config holds the full configuration for dailyboard.
type Config struct {
	// Storage backend: file, redis, sqlite or memory
	Storage string `toml:"storage"`
	// Key of the single slot the board snapshot is stored under
	SlotKey string `toml:"slot_key"`

	// Paths (relative paths resolve against the project root)
	SnapshotFile string `toml:"snapshot_file"`
	DatabaseFile string `toml:"database_file"`

	// Redis backend
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// Reject snapshots that fail the JSON schema on startup
	ValidateSchema bool `toml:"validate_schema"`

	// Board view
	ConfirmClear bool `toml:"confirm_clear"`
	Mouse        bool `toml:"mouse"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the configurable field names, in display order.
func configFields() []string {
	return []string{
		"storage",
		"slot_key",
		"snapshot_file",
		"database_file",
		"redis_addr",
		"redis_password",
		"redis_db",
		"validate_schema",
		"confirm_clear",
		"mouse",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Fields returns the configurable field names, in display order.
func Fields() []string {
	return configFields()
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Storage = DefaultStorage
	cfg.SlotKey = DefaultSlotKey
	cfg.SnapshotFile = boarddir.SnapshotPath("")
	cfg.DatabaseFile = boarddir.DatabasePath("")
	cfg.RedisAddr = DefaultRedisAddr
	cfg.ValidateSchema = DefaultValidateSchema
	cfg.ConfirmClear = DefaultConfirmClear
	cfg.Mouse = DefaultMouse
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}
