// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.dailyboard/dailyboard.toml or OS-specific config directory)
// 3. Project config file (dailyboard.toml, .dailyboard.toml or .dailyboard/dailyboard.toml)
// 4. Environment variables (DAILYBOARD_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// Every value remembers which level set it; see ConfigWithSources.
//
// User-level config locations:
// - ~/.dailyboard/dailyboard.toml (preferred)
// - Windows: %APPDATA%\dailyboard\dailyboard.toml
// - macOS: ~/Library/Application Support/dailyboard/dailyboard.toml
// - Linux/BSD: $XDG_CONFIG_HOME/dailyboard/dailyboard.toml or ~/.config/dailyboard/dailyboard.toml
package config
