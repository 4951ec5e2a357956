package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# dailyboard configuration file
# Values can be overridden by DAILYBOARD_* environment variables or CLI flags

# Storage backend: file, redis, sqlite or memory
storage = "file"

# Key the board snapshot is stored under (redis and sqlite)
slot_key = "daily-tasks"

# Snapshot file for the file backend (relative to project root)
snapshot_file = ".dailyboard/board.json"

# Database file for the sqlite backend (relative to project root)
database_file = ".dailyboard/board.db"

# Redis backend (host:port or redis:// URL)
redis_addr = "localhost:6379"
# redis_password = ""
redis_db = 0

# Discard stored snapshots that do not match the JSON schema
validate_schema = true

# Ask before clearing all tasks
confirm_clear = true

# Mouse drag-and-drop in the terminal UI
mouse = true

# Logging
log_dir = "~/.dailyboard/logs"
log_level = "info"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
